package mcp

import (
	"encoding/json"
	"io"
	"net/http"
)

// maxBodySize bounds one JSON-RPC request over HTTP.
const maxBodySize = 1 << 20 // 1MB

// ServeHTTP handles POST /mcp: one JSON-RPC message per request. Requests
// without an id (notifications) are acknowledged with 202.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(req.Body, maxBodySize+1))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) > maxBodySize {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	resp := r.HandleMessage(req.Context(), json.RawMessage(body))
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		r.logger.Error().Err(err).Msg("failed to write MCP response")
	}
}

var _ http.Handler = (*Router)(nil)
