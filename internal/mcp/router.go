// Package mcp binds the dispatcher to the MCP JSON-RPC protocol over stdio
// and HTTP.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/saas-mcp/internal/common"
	"github.com/bobmcallan/saas-mcp/internal/dispatch"
)

// Router answers JSON-RPC messages. Protocol methods are served by mcp-go;
// tools/call for a name outside the registry is answered by the dispatcher
// so the caller gets the unknown-tool text instead of a protocol error.
type Router struct {
	server     *mcpserver.MCPServer
	dispatcher *dispatch.Dispatcher
	logger     *common.Logger
}

// NewRouter registers every tool of the dispatcher's registry on a new
// MCP server.
func NewRouter(name, version string, d *dispatch.Dispatcher, logger *common.Logger) *Router {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	srv := mcpserver.NewMCPServer(name, version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	for _, tool := range d.Registry().MCPTools() {
		srv.AddTool(tool, d.CallTool)
	}

	logger.Info().
		Int("tools", d.Registry().Len()).
		Str("name", name).
		Str("version", version).
		Msg("MCP router initialized")

	return &Router{server: srv, dispatcher: d, logger: logger}
}

// Server returns the underlying MCP server.
func (r *Router) Server() *mcpserver.MCPServer {
	return r.server
}

// envelope is the part of a request the router inspects.
type envelope struct {
	ID     mcp.RequestId `json:"id"`
	Method string        `json:"method"`
	Params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"params"`
}

// HandleMessage processes one JSON-RPC message. It returns nil for
// notifications.
func (r *Router) HandleMessage(ctx context.Context, raw json.RawMessage) mcp.JSONRPCMessage {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Method == string(mcp.MethodToolsCall) {
		if _, ok := r.dispatcher.Registry().Resolve(env.Params.Name); !ok {
			res := r.dispatcher.Dispatch(ctx, env.Params.Name, env.Params.Arguments)
			return mcp.JSONRPCResponse{
				JSONRPC: mcp.JSONRPC_VERSION,
				ID:      env.ID,
				Result:  res.ToMCP(),
			}
		}
	}
	return r.server.HandleMessage(ctx, raw)
}
