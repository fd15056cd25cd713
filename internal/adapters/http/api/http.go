// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/usersapi/internal/adapters/repository"
	"github.com/okian/usersapi/internal/domain/model"
	"github.com/okian/usersapi/pkg/logger"
)

// Defaults for the /users rate limit and request bodies.
const (
	defaultRateLimit       = 100
	defaultRateLimitWindow = 15 * time.Minute
	maxBodyBytes           = 1 << 20
	corsMaxAgeSeconds      = 300
)

// Registry is the set of user operations the handlers depend on.
type Registry interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)
	CreateUser(ctx context.Context, name string, age float64) (model.User, error)
	DeleteUser(ctx context.Context, id string) (model.User, error)
	UpdateUser(ctx context.Context, id string, patch model.Patch) (model.User, error)
	Reset(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	usersHandler  *UsersHandler
	adminHandler  *AdminHandler

	rateLimit       int
	rateLimitWindow time.Duration
	allowedOrigins  []string
	logger          logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithRateLimit sets the per-client request cap and window for /users routes.
func WithRateLimit(requests int, window time.Duration) Option {
	return func(s *Server) {
		if requests > 0 && window > 0 {
			s.rateLimit = requests
			s.rateLimitWindow = window
		}
	}
}

// WithAllowedOrigins sets the CORS origins; "*" allows any.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
	}
}

// WithLogger sets the logger used by handlers and middleware.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(registry Registry, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		rateLimit:       defaultRateLimit,
		rateLimitWindow: defaultRateLimitWindow,
		allowedOrigins:  []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("http")
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.usersHandler = NewUsersHandler(registry, s.logger)
	s.adminHandler = NewAdminHandler(registry, s.logger)
	return s
}

// Register installs the shared middleware and all API routes on r. It must run
// before any other routes are added to r, since chi rejects Use after routing.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(MetricsMiddleware)
	r.Use(Recoverer(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:         corsMaxAgeSeconds,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", s.statsHandler.HandleStats)

	r.Route("/users", func(r chi.Router) {
		r.Use(RateLimit(s.rateLimit, s.rateLimitWindow))
		s.usersHandler.Routes(r)
	})

	r.Get("/restart", s.adminHandler.HandleRestart)
	r.Get("/error", s.adminHandler.HandleError)
}

type messageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

type usersResponse struct {
	Users []model.User `json:"users"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeFailure maps err onto a status and a short message. Unknown errors
// become a generic 500 and are logged; their text never reaches the client.
func writeFailure(ctx context.Context, w http.ResponseWriter, l logger.Logger, notFoundStatus int, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeMessage(w, notFoundStatus, repository.ErrNotFound.Error())
	case errors.Is(err, repository.ErrDuplicateName):
		writeMessage(w, http.StatusBadRequest, repository.ErrDuplicateName.Error())
	case errors.Is(err, ErrBadRequest):
		writeMessage(w, http.StatusBadRequest, detail(err))
	default:
		l.Error(ctx, "request failed", logger.Error(err), logger.String("request_id", middleware.GetReqID(ctx)))
		writeMessage(w, http.StatusInternalServerError, ErrInternal.Error())
	}
}
