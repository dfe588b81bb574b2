package drive_tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/onedrive-mcp/internal/credential"
	"github.com/teemow/onedrive-mcp/internal/instrumentation"
	"github.com/teemow/onedrive-mcp/internal/logging"
	"github.com/teemow/onedrive-mcp/internal/onedrive"
	"github.com/teemow/onedrive-mcp/internal/server"
	"github.com/teemow/onedrive-mcp/internal/tools/common"
)

// ErrInvalidTable is returned by NewDispatcher when the tool table is inconsistent.
var ErrInvalidTable = errors.New("invalid tool table")

// handlerFunc runs one tool against Graph with validated, defaulted arguments.
type handlerFunc func(ctx context.Context, c *onedrive.Client, args arguments) onedrive.Result

// toolDef pairs a tool schema with its handler. The per-file tool lists
// (itemTools, fileTools, folderTools, shareTools) return these.
type toolDef struct {
	spec    toolSpec
	handler handlerFunc
}

// Dispatcher routes MCP tool calls by name. Each call runs in its own
// credential scope, opened from the transport token and released on return.
type Dispatcher struct {
	sc       *server.ServerContext
	schemas  map[string]toolSpec
	handlers map[string]handlerFunc
	order    []string
	dupes    []string
	calls    map[string]common.ToolHandler
}

// NewDispatcher builds the tool table and validates it.
func NewDispatcher(sc *server.ServerContext) (*Dispatcher, error) {
	return newDispatcher(sc, allTools())
}

func allTools() []toolDef {
	var defs []toolDef
	defs = append(defs, itemTools()...)
	defs = append(defs, fileTools()...)
	defs = append(defs, folderTools()...)
	defs = append(defs, shareTools()...)
	return defs
}

func newDispatcher(sc *server.ServerContext, defs []toolDef) (*Dispatcher, error) {
	d := &Dispatcher{
		sc:       sc,
		schemas:  make(map[string]toolSpec, len(defs)),
		handlers: make(map[string]handlerFunc, len(defs)),
	}
	for _, def := range defs {
		name := def.spec.name
		if _, exists := d.schemas[name]; exists {
			d.dupes = append(d.dupes, name)
			continue
		}
		d.schemas[name] = def.spec
		if def.handler != nil {
			d.handlers[name] = def.handler
		}
		d.order = append(d.order, name)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}

	d.calls = make(map[string]common.ToolHandler, len(d.order))
	for _, name := range d.order {
		spec := d.schemas[name]
		d.calls[name] = common.InstrumentedToolHandler(name, spec.operation, sc, d.invoke(spec, d.handlers[name]))
	}
	return d, nil
}

// Validate checks that every schema has a handler, every handler has a
// schema, names are unique and every argument declaration is usable.
func (d *Dispatcher) Validate() error {
	var problems []error
	for _, name := range d.dupes {
		problems = append(problems, fmt.Errorf("tool %q declared more than once", name))
	}
	for _, name := range d.order {
		if _, ok := d.handlers[name]; !ok {
			problems = append(problems, fmt.Errorf("tool %q has no handler", name))
		}
		if err := d.schemas[name].validate(); err != nil {
			problems = append(problems, err)
		}
	}

	var orphans []string
	for name := range d.handlers {
		if _, ok := d.schemas[name]; !ok {
			orphans = append(orphans, name)
		}
	}
	sort.Strings(orphans)
	for _, name := range orphans {
		problems = append(problems, fmt.Errorf("handler %q has no schema", name))
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidTable, errors.Join(problems...))
}

// Names returns the tool names in declaration order.
func (d *Dispatcher) Names() []string {
	return append([]string(nil), d.order...)
}

// Tools returns the MCP schemas in declaration order. With readOnly set,
// tools that modify the drive are left out.
func (d *Dispatcher) Tools(readOnly bool) []mcp.Tool {
	tools := make([]mcp.Tool, 0, len(d.order))
	for _, name := range d.order {
		spec := d.schemas[name]
		if readOnly && !spec.readOnly {
			continue
		}
		tools = append(tools, spec.tool())
	}
	return tools
}

// Register adds the tools to the MCP server. Write tools are skipped when
// readOnly is set.
func (d *Dispatcher) Register(s *mcpserver.MCPServer, readOnly bool) {
	for _, tool := range d.Tools(readOnly) {
		name := tool.Name
		s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return d.Dispatch(ctx, name, request.GetArguments()), nil
		})
	}
}

// Dispatch runs a tool and renders its Result as an MCP tool result.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	return ToCallToolResult(d.Call(ctx, name, args))
}

// Call runs the named tool in a fresh credential scope. A panic anywhere in
// the call, instrumentation included, comes back as a ClientError.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) (result onedrive.Result) {
	call, ok := d.calls[name]
	if !ok {
		return onedrive.ClientError("Unknown OneDrive tool: "+name, nil)
	}
	defer func() {
		if p := recover(); p != nil {
			result = d.panicked(name, p)
		}
	}()

	token := credential.HeaderToken(ctx)
	ctx, release := credential.WithToken(ctx, token)
	defer release()

	if token != "" {
		d.sc.Metrics().RecordCredentialScope(ctx, instrumentation.ScopeAuthenticated)
	} else {
		d.sc.Metrics().RecordCredentialScope(ctx, instrumentation.ScopeAnonymous)
	}

	return call(ctx, args)
}

// invoke validates arguments and runs the handler, turning a panic into a
// ClientError.
func (d *Dispatcher) invoke(spec toolSpec, handler handlerFunc) common.ToolHandler {
	return func(ctx context.Context, raw map[string]any) (result onedrive.Result) {
		defer func() {
			if p := recover(); p != nil {
				result = d.panicked(spec.name, p)
			}
		}()

		args, res, ok := spec.bind(raw)
		if !ok {
			return res
		}
		return handler(ctx, d.sc.Client(), args)
	}
}

func (d *Dispatcher) panicked(name string, p any) onedrive.Result {
	d.sc.Logger().Error("tool panicked",
		logging.Tool(name),
		slog.Any("panic", p),
		slog.String("stack", string(debug.Stack())))
	return onedrive.ClientError(fmt.Sprintf("Error running %s:", name), fmt.Errorf("panic: %v", p))
}

// ToCallToolResult renders r as text. Error kinds are flagged with IsError;
// a skipped conflict is not an error.
func ToCallToolResult(r onedrive.Result) *mcp.CallToolResult {
	if r.IsError() {
		return mcp.NewToolResultError(r.Render())
	}
	return mcp.NewToolResultText(r.Render())
}
