package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/auth"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/blog"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/consultations"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/csrf"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/observability"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/rbac"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/roles"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger               *slog.Logger
	Config               *Config
	AuthHandler          *auth.Handler
	CSRFHandler          *csrf.Handler
	UsersHandler         *users.Handler
	RolesHandler         *roles.Handler
	BlogHandler          *blog.Handler
	ConsultationsHandler *consultations.Handler
	Gate                 rbac.Middleware
	Metrics              *observability.Metrics
}

// NewRouter constructs the chi.Router for the admin API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	if params.Metrics != nil {
		r.Use(params.Metrics.Middleware)
		r.Handle("/metrics", params.Metrics.Handler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	limit, window := 10, time.Minute
	if params.Config != nil {
		if params.Config.LoginRateLimit > 0 {
			limit = params.Config.LoginRateLimit
		}
		if params.Config.LoginRateWindow > 0 {
			window = params.Config.LoginRateWindow
		}
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Use(httprate.Limit(limit, window, httprate.WithKeyFuncs(httprate.KeyByIP)))
		params.AuthHandler.MountRoutes(r)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(params.Gate.RequireStaff)
			r.Route("/csrf", params.CSRFHandler.MountRoutes)
		})
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/roles", params.RolesHandler.MountRoutes)
		r.Route("/blog", params.BlogHandler.MountRoutes)
		r.Route("/consultations", params.ConsultationsHandler.MountRoutes)
	})

	return r
}
