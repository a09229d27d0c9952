package router

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blogem/usermgmt/config"
	"github.com/blogem/usermgmt/controllers"
	"github.com/blogem/usermgmt/metrics"
	"github.com/blogem/usermgmt/middleware"
)

// New configures all routes. Login routes and the auth guard are only
// installed when ctrl.Auth is set.
func New(cfg *config.Config, ctrl *controllers.Controllers, logger *slog.Logger) (*chi.Mux, error) {
	metrics.Register()

	r := chi.NewRouter()

	// Session middleware
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     cfg.SessionCookie,
		Secure:         cfg.UseHTTPS,
		Gclifetime:     int64(cfg.SessionLifetime.Seconds()),
		Maxlifetime:    int64(cfg.SessionLifetime.Seconds()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(sessionHandler)
	r.Use(middleware.LoadOperator)
	r.Use(middleware.RequestLog(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.SecureHeaders(logger, cfg.UseHTTPS))
	r.Use(chimw.Compress(5))
	r.Use(middleware.LimitMutations(cfg.RateLimitPerMinute))

	// PUBLIC ROUTES
	r.Get("/health", health)
	r.Handle("/metrics", promhttp.Handler())

	if ctrl.Auth != nil {
		r.Get("/login", ctrl.Auth.Login)
		r.Get("/callback", ctrl.Auth.Callback)
		r.Get("/logout", ctrl.Auth.Logout)
	}

	// APPLICATION ROUTES (authentication required when login is configured)
	r.Group(func(r chi.Router) {
		if ctrl.Auth != nil {
			r.Use(middleware.RequireAuth)
		}

		r.Get("/", ctrl.Dashboard.Index)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", ctrl.Users.Index)
			r.Get("/active", ctrl.Users.Active)
			r.Get("/inactive", ctrl.Users.Inactive)
			r.Get("/add", ctrl.Users.New)
			r.Post("/add", ctrl.Users.Create)
			r.Get("/{id:[0-9]+}/view", ctrl.Users.View)
			r.Get("/{id:[0-9]+}/edit", ctrl.Users.Edit)
			r.Post("/{id:[0-9]+}/edit", ctrl.Users.Update)
			r.Get("/{id:[0-9]+}/delete", ctrl.Users.ConfirmDelete)
			r.Post("/{id:[0-9]+}/delete", ctrl.Users.Delete)
		})

		r.Route("/logs", func(r chi.Router) {
			r.Get("/", ctrl.Logs.Index)
			r.Get("/{id:[0-9]+}", ctrl.Logs.View)
			r.Get("/user/{userId:[0-9]+}", ctrl.Logs.ByUser)
		})
	})

	return r, nil
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy", "service": "usermgmt"})
}
