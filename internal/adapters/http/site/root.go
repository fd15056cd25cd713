// Package site serves the embedded landing page.
package site

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Error constants.
var (
	ErrNilRouter = errors.New("router is nil")
)

// Register attaches the landing page at GET / to r.
func Register(_ context.Context, r chi.Router) error {
	if r == nil {
		return ErrNilRouter
	}
	r.Get("/", NewRootHandler().HandleRoot)
	return nil
}

// RootHandler serves the landing page.
type RootHandler struct {
	files http.Handler
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{files: http.FileServer(FS())}
}

// HandleRoot handles GET / with the embedded index.html.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	h.files.ServeHTTP(w, r)
}
