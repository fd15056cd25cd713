package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/okian/usersapi/internal/domain/model"
	"github.com/okian/usersapi/pkg/logger"
)

// Validation failures surfaced as 400 bodies.
var (
	errMissingName = errors.New("name is required")
	errMissingAge  = errors.New("age is required")
	errEmptyName   = errors.New("name must not be empty")
)

// UsersHandler serves the /users collection.
type UsersHandler struct {
	registry Registry
	logger   logger.Logger
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(registry Registry, l logger.Logger) *UsersHandler {
	return &UsersHandler{registry: registry, logger: l}
}

// Routes mounts the collection routes on r, which is already scoped to /users.
func (h *UsersHandler) Routes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.HandleGet)
	r.Delete("/{id}", h.HandleDelete)
	r.Patch("/{id}", h.HandleUpdate)
}

// createUserRequest uses pointers so a missing field is distinguishable from
// a zero value.
type createUserRequest struct {
	Name *string  `json:"name"`
	Age  *float64 `json:"age"`
}

// HandleList handles GET /users.
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.registry.ListUsers(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, http.StatusNotFound, Wrap("list users", err))
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, usersResponse{Users: users})
}

// HandleGet handles GET /users/{id}.
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u, err := h.registry.GetUser(r.Context(), id)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, http.StatusNotFound, Wrap("get user", err))
		return
	}
	writeJSON(w, http.StatusOK, usersResponse{Users: []model.User{u}})
}

// HandleCreate handles POST /users.
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeFailure(r.Context(), w, h.logger, http.StatusNotFound, WrapKind("create user", ErrBadRequest, err))
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		writeFailure(r.Context(), w, h.logger, http.StatusNotFound, WrapKind("create user", ErrBadRequest, errMissingName))
		return
	}
	if req.Age == nil {
		writeFailure(r.Context(), w, h.logger, http.StatusNotFound, WrapKind("create user", ErrBadRequest, errMissingAge))
		return
	}

	u, err := h.registry.CreateUser(r.Context(), *req.Name, *req.Age)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, http.StatusNotFound, Wrap("create user", err))
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{
		Message: fmt.Sprintf("User %s added", u.Name),
		ID:      u.ID,
	})
}

// HandleDelete handles DELETE /users/{id}. An unknown id is a 400, matching
// the published API.
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u, err := h.registry.DeleteUser(r.Context(), id)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, http.StatusBadRequest, Wrap("delete user", err))
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("User %s deleted", u.Name))
}

// HandleUpdate handles PATCH /users/{id}.
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch model.Patch
	if err := decodeBody(w, r, &patch); err != nil {
		writeFailure(r.Context(), w, h.logger, http.StatusNotFound, WrapKind("update user", ErrBadRequest, err))
		return
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		writeFailure(r.Context(), w, h.logger, http.StatusNotFound, WrapKind("update user", ErrBadRequest, errEmptyName))
		return
	}

	u, err := h.registry.UpdateUser(r.Context(), id, patch)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, http.StatusNotFound, Wrap("update user", err))
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("User %s updated", u.ID))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
