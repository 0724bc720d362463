package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/types"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/usecase"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/utils/errutil"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/utils/logging"
)

type Server struct {
	router      *chi.Mux
	uc          *usecase.UseCases
	adminSecret string
}

type Options func(*Server)

// WithAdminSecret enables the admin endpoints behind a static shared
// secret. Without it the endpoints are not registered at all.
func WithAdminSecret(secret string) Options {
	return func(s *Server) {
		s.adminSecret = secret
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/slack", authorizeHandler(uc))
		r.Post("/token", tokenHandler(uc))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(uc))
		r.Get("/search", searchHandler(uc))
		r.Get("/thread", threadHandler(uc))
	})

	if s.adminSecret != "" {
		r.Route("/admin", func(r chi.Router) {
			r.Use(adminMiddleware(s.adminSecret))
			r.Get("/users", adminUsersHandler(uc))
			r.Get("/firestore", adminFirestoreHandler(uc))
		})
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with proper error handling
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		_ = errutil.Handle(ctx, err, "failed to encode JSON response")
	}
}

// statusFor maps the error taxonomy to HTTP statuses. Auth-exchange
// failures are client-visible 400s; credential failures are 401 without
// detail; everything else is a 502 from the upstream or a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrUpstreamAuth), errors.Is(err, types.ErrIdentityResolution):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrInvalidCredential):
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
