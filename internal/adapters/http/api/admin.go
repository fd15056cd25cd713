package api

import (
	"net/http"

	"github.com/okian/usersapi/pkg/logger"
)

// AdminHandler serves the reset and error probe endpoints.
type AdminHandler struct {
	registry Registry
	logger   logger.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(registry Registry, l logger.Logger) *AdminHandler {
	return &AdminHandler{registry: registry, logger: l}
}

// HandleRestart handles GET /restart by restoring the seed records.
func (h *AdminHandler) HandleRestart(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Reset(r.Context()); err != nil {
		writeFailure(r.Context(), w, h.logger, http.StatusNotFound, Wrap("restart", err))
		return
	}
	writeMessage(w, http.StatusOK, "Users reset to initial state")
}

// HandleError handles GET /error. It always fails with a 500.
func (h *AdminHandler) HandleError(w http.ResponseWriter, r *http.Request) {
	writeFailure(r.Context(), w, h.logger, http.StatusNotFound, NewKind("error probe", ErrArtificial))
}
