package handlers

import (
	"net/http"

	"github.com/bobmcallan/saas-mcp/internal/common"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger *common.Logger
	tools  int
}

// NewHealthHandler creates a health handler reporting the registered tool count.
func NewHealthHandler(logger *common.Logger, tools int) *HealthHandler {
	return &HealthHandler{logger: logger, tools: tools}
}

// ServeHTTP handles GET /health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"tools":  h.tools,
	})
}
