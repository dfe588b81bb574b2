package drive_tools

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/onedrive-mcp/internal/onedrive"
)

// argSpec declares one string argument of a tool.
type argSpec struct {
	name        string
	description string
	required    bool
	enum        []string
	def         string
}

// toolSpec is the schema half of a tool table entry.
type toolSpec struct {
	name        string
	description string
	operation   string
	readOnly    bool
	args        []argSpec
}

// arguments holds the bound string arguments of one call.
type arguments map[string]string

func (a arguments) get(name string) string {
	return a[name]
}

func required(name, description string) argSpec {
	return argSpec{name: name, description: description, required: true}
}

func optional(name, description string) argSpec {
	return argSpec{name: name, description: description}
}

func enumerated(name, description string, values []string, def string) argSpec {
	return argSpec{name: name, description: description, enum: values, def: def}
}

func (s toolSpec) validate() error {
	if s.name == "" {
		return fmt.Errorf("tool with empty name")
	}
	if s.operation == "" {
		return fmt.Errorf("tool %q has no operation", s.name)
	}
	seen := make(map[string]bool, len(s.args))
	for _, a := range s.args {
		if seen[a.name] {
			return fmt.Errorf("tool %q declares argument %q twice", s.name, a.name)
		}
		seen[a.name] = true
		if len(a.enum) > 0 && !slices.Contains(a.enum, a.def) {
			return fmt.Errorf("tool %q argument %q default %q is not one of %s", s.name, a.name, a.def, strings.Join(a.enum, ", "))
		}
	}
	return nil
}

// tool builds the MCP schema.
func (s toolSpec) tool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(s.description),
		mcp.WithReadOnlyHintAnnotation(s.readOnly),
		mcp.WithDestructiveHintAnnotation(!s.readOnly),
	}
	for _, a := range s.args {
		props := []mcp.PropertyOption{mcp.Description(a.description)}
		if a.required {
			props = append(props, mcp.Required())
		}
		if len(a.enum) > 0 {
			props = append(props, mcp.Enum(a.enum...), mcp.DefaultString(a.def))
		}
		opts = append(opts, mcp.WithString(a.name, props...))
	}
	return mcp.NewTool(s.name, opts...)
}

// bind checks required arguments, validates enumerated options and fills
// defaults. It never performs I/O.
func (s toolSpec) bind(raw map[string]any) (arguments, onedrive.Result, bool) {
	args := make(arguments, len(s.args))
	for _, a := range s.args {
		value, present := stringArg(raw, a.name)
		if !present {
			if a.required {
				return nil, onedrive.ClientError("Missing required argument: "+a.name, nil), false
			}
			value = a.def
		}
		if len(a.enum) > 0 {
			if value == "" {
				value = a.def
			}
			if !slices.Contains(a.enum, value) {
				err := fmt.Errorf("%w: %s must be one of %s, got %q",
					onedrive.ErrInvalidOption, a.name, strings.Join(a.enum, ", "), value)
				return nil, onedrive.ClientError(fmt.Sprintf("Invalid %s option.", a.name), err), false
			}
		}
		args[a.name] = value
	}
	return args, onedrive.Result{}, true
}

// stringArg reads a string argument. Non-string scalars are formatted; a nil
// value counts as absent.
func stringArg(raw map[string]any, name string) (string, bool) {
	v, ok := raw[name]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}
