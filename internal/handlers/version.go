package handlers

import (
	"net/http"

	"github.com/bobmcallan/saas-mcp/internal/common"
)

// VersionHandler handles version information requests.
type VersionHandler struct {
	name string
}

// NewVersionHandler creates a new version handler.
func NewVersionHandler(name string) *VersionHandler {
	return &VersionHandler{name: name}
}

// ServeHTTP handles GET /version.
func (h *VersionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"name":       h.name,
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
	})
}
