package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tasklane/tasklane/internal/auth"
	"github.com/tasklane/tasklane/internal/items"
	"github.com/tasklane/tasklane/internal/observability"
	"github.com/tasklane/tasklane/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	AuthHandler    *auth.Handler
	AuthMiddleware auth.Middleware
	UsersHandler   *users.Handler
	ItemsHandler   *items.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with Tasklane defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireUser)

			r.Get("/me", params.UsersHandler.Show)
			r.Get("/users/{userID}", params.UsersHandler.Show)

			r.Route("/me/items", func(r chi.Router) {
				r.Use(params.AuthMiddleware.ScopeUser)
				params.ItemsHandler.MountRoutes(r)
			})
			r.Route("/users/{userID}/items", func(r chi.Router) {
				r.Use(params.AuthMiddleware.ScopeUser)
				params.ItemsHandler.MountRoutes(r)
			})
		})
	})

	return r
}
