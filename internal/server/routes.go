package server

import (
	"net/http"

	"github.com/bobmcallan/saas-mcp/internal/handlers"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// MCP endpoint (JSON-RPC over HTTP)
	mux.Handle("/mcp", s.app.MCPRouter)

	mux.HandleFunc("/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/version", s.app.VersionHandler.ServeHTTP)

	if s.app.Config.Metrics.Enabled && s.app.Metrics != nil {
		path := s.app.Config.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		mux.Handle(path, s.app.Metrics.Handler())
	}

	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	handlers.WriteError(w, http.StatusNotFound, "no route for "+r.URL.Path+"; the MCP endpoint is /mcp")
}
