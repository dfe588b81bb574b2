package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/template"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/teemow/onedrive-mcp/internal/server"
	"github.com/teemow/onedrive-mcp/internal/tools/drive_tools"
)

const (
	categoryRead  = "Read Tools"
	categoryWrite = "Write Tools"
)

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate a markdown reference of every OneDrive tool from the same
tool table the server registers, so the reference cannot drift from the
implementation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateDocs(cmd.OutOrStdout(), outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runGenerateDocs(stdout io.Writer, outputFile string) error {
	// Describing tools needs neither a token nor Graph access
	sc, err := server.NewServerContext(context.Background(), server.Options{})
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() { _ = sc.Shutdown() }()

	dispatcher, err := drive_tools.NewDispatcher(sc)
	if err != nil {
		return fmt.Errorf("failed to build tool table: %w", err)
	}

	markdown := generateToolsMarkdown(dispatcher.Tools(false))

	if outputFile == "" {
		_, err := io.WriteString(stdout, markdown)
		return err
	}
	if err := os.WriteFile(outputFile, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Documentation written to: %s\n", outputFile)
	return nil
}

type docSection struct {
	Title string
	Tools []docTool
}

// Anchor is the GitHub heading anchor of the section.
func (s docSection) Anchor() string {
	return strings.ToLower(strings.ReplaceAll(s.Title, " ", "-"))
}

type docTool struct {
	Name        string
	Description string
	Args        []docArg
}

type docArg struct {
	Name     string
	Required bool
	Text     string
}

var toolsReference = template.Must(template.New("tools").Parse(`# MCP Tools Reference

This document provides a complete reference of all tools available when running onedrive-mcp as an MCP server.

**Note:** This documentation is automatically generated from the tool definitions.

## Table of Contents

{{range .}}- [{{.Title}}](#{{.Anchor}})
{{end}}
## Authentication

Every call runs with the caller's own OneDrive access token:

- **HTTP transports:** send the token in the ` + "`x-auth-token`" + ` header (or ` + "`Authorization: Bearer`" + `)
- **stdio:** start the server with ` + "`--token`" + ` or ` + "`ONEDRIVE_AUTH_TOKEN`" + `
- **Read-only mode:** ` + "`serve --read-only`" + ` registers only the read tools

{{range .}}## {{.Title}}

{{range .Tools}}### {{.Name}}

{{if .Description}}{{.Description}}

{{end}}{{if .Args}}**Arguments:**
{{range .Args}}- ` + "`{{.Name}}`" + ` ({{if .Required}}required{{else}}optional{{end}}): {{.Text}}
{{end}}
{{end}}
{{end}}{{end}}`))

func generateToolsMarkdown(tools []mcp.Tool) string {
	var sb strings.Builder
	if err := toolsReference.Execute(&sb, buildDocSections(tools)); err != nil {
		// The template only reads fields of the types above
		panic(err)
	}
	return sb.String()
}

// buildDocSections splits tools into read and write sections by their
// read-only annotation. Empty sections are dropped; tools are sorted by name.
func buildDocSections(tools []mcp.Tool) []docSection {
	sections := []docSection{{Title: categoryRead}, {Title: categoryWrite}}
	for _, tool := range tools {
		i := 1
		if hint := tool.Annotations.ReadOnlyHint; hint != nil && *hint {
			i = 0
		}
		sections[i].Tools = append(sections[i].Tools, newDocTool(tool))
	}

	for _, s := range sections {
		slices.SortFunc(s.Tools, func(a, b docTool) int { return strings.Compare(a.Name, b.Name) })
	}
	return slices.DeleteFunc(sections, func(s docSection) bool { return len(s.Tools) == 0 })
}

func newDocTool(tool mcp.Tool) docTool {
	names := make([]string, 0, len(tool.InputSchema.Properties))
	for name := range tool.InputSchema.Properties {
		names = append(names, name)
	}
	slices.Sort(names)

	dt := docTool{Name: tool.Name, Description: tool.Description}
	for _, name := range names {
		prop, ok := tool.InputSchema.Properties[name].(map[string]any)
		if !ok {
			continue
		}
		dt.Args = append(dt.Args, docArg{
			Name:     name,
			Required: slices.Contains(tool.InputSchema.Required, name),
			Text:     describeProperty(prop),
		})
	}
	return dt
}

// describeProperty renders the description plus any allowed values and
// default.
func describeProperty(prop map[string]any) string {
	text, ok := prop["description"].(string)
	if !ok {
		text = getPropertyType(prop) + " parameter"
	}
	if values := getEnumValues(prop); len(values) > 0 {
		text += " One of: `" + strings.Join(values, "`, `") + "`."
	}
	if def, ok := prop["default"].(string); ok && def != "" {
		text += " Default: `" + def + "`."
	}
	return text
}

func getPropertyType(prop map[string]any) string {
	if t, ok := prop["type"].(string); ok {
		return t
	}
	return "any"
}

// getEnumValues accepts both []string (as built) and []any (after a JSON
// round trip).
func getEnumValues(prop map[string]any) []string {
	switch v := prop["enum"].(type) {
	case []string:
		return v
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			values = append(values, fmt.Sprint(item))
		}
		return values
	default:
		return nil
	}
}
