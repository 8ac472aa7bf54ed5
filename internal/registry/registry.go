// Package registry holds the ordered, read-only catalog of tools and the
// handler bound to each name.
package registry

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/saas-mcp/internal/common"
	"github.com/bobmcallan/saas-mcp/internal/tooldef"
)

// Handler executes one tool call.
type Handler interface {
	Handle(ctx context.Context, args map[string]any) (string, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, args map[string]any) (string, error)

// Handle calls f(ctx, args).
func (f HandlerFunc) Handle(ctx context.Context, args map[string]any) (string, error) {
	return f(ctx, args)
}

// Tool pairs a descriptor with its handler.
type Tool struct {
	Def     tooldef.ToolDef
	Handler Handler
}

// Entry is a resolved registry entry.
type Entry struct {
	Def     tooldef.ToolDef
	Handler Handler
	MCP     mcp.Tool

	schema *jsonschema.Resolved
}

// ValidateArgs checks args against the declared input schema.
func (e *Entry) ValidateArgs(args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	return e.schema.Validate(args)
}

// Registry is an ordered set of tools keyed by unique name.
type Registry struct {
	entries []*Entry
	index   map[string]*Entry
	schemas map[string][]byte
}

// New merges the catalogs in order. A repeated name with an identical schema
// is collapsed onto the first entry; a repeated name with a different schema
// is an error.
func New(logger *common.Logger, catalogs ...[]Tool) (*Registry, error) {
	r := &Registry{
		index:   make(map[string]*Entry),
		schemas: make(map[string][]byte),
	}

	for _, catalog := range catalogs {
		for _, t := range catalog {
			if err := r.add(logger, t); err != nil {
				return nil, err
			}
		}
	}

	if len(r.entries) == 0 {
		return nil, fmt.Errorf("registry: no tools registered")
	}
	return r, nil
}

func (r *Registry) add(logger *common.Logger, t Tool) error {
	if err := t.Def.Validate(); err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	if t.Handler == nil {
		return fmt.Errorf("registry: tool %q has no handler", t.Def.Name)
	}

	raw, err := t.Def.SchemaJSON()
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}

	if prev, ok := r.schemas[t.Def.Name]; ok {
		if !bytes.Equal(prev, raw) {
			return fmt.Errorf("registry: tool %q registered twice with conflicting schemas", t.Def.Name)
		}
		if logger != nil {
			logger.Warn().Str("name", t.Def.Name).Msg("collapsing duplicate tool definition")
		}
		return nil
	}

	resolved, err := t.Def.InputSchema().Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return fmt.Errorf("registry: tool %q has an invalid schema: %w", t.Def.Name, err)
	}
	mcpTool, err := t.Def.ToMCPTool()
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}

	e := &Entry{Def: t.Def, Handler: t.Handler, MCP: mcpTool, schema: resolved}
	r.entries = append(r.entries, e)
	r.index[t.Def.Name] = e
	r.schemas[t.Def.Name] = raw
	return nil
}

// List returns the descriptors in registration order.
func (r *Registry) List() []tooldef.ToolDef {
	defs := make([]tooldef.ToolDef, len(r.entries))
	for i, e := range r.entries {
		defs[i] = e.Def
	}
	return defs
}

// MCPTools returns the mcp.Tool form of every descriptor, in order.
func (r *Registry) MCPTools() []mcp.Tool {
	tools := make([]mcp.Tool, len(r.entries))
	for i, e := range r.entries {
		tools[i] = e.MCP
	}
	return tools
}

// Names returns every registered tool name in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Def.Name
	}
	return names
}

// Resolve looks up a tool by name.
func (r *Registry) Resolve(name string) (*Entry, bool) {
	e, ok := r.index[name]
	return e, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.entries)
}
