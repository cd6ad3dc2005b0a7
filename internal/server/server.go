package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/rs/cors"

	"goals-api/internal/auth"
	"goals-api/internal/goals"
)

type Options struct {
	AllowedOrigins []string
	// Empty disables bearer auth on /goals.
	JWTSecret string
}

// NewRouter wires the goal resource, health check and middleware around the shared pool.
func NewRouter(db *sqlx.DB, log *slog.Logger, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogging(log))
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler(db, log))

	goalRoutes := goals.NewHandler(db, log).Routes()
	r.Group(func(r chi.Router) {
		if opts.JWTSecret != "" {
			r.Use(auth.New([]byte(opts.JWTSecret), log).Handler)
		}
		r.Mount("/goals", goalRoutes)
	})

	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	return c.Handler(r)
}

func healthHandler(db *sqlx.DB, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			log.Error("health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("OK"))
	}
}
