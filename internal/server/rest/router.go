// Package rest is the HTTP/JSON surface of the service.
package rest

import (
	"net/http"

	"github.com/dmitrijs2005/contactkeeper/internal/logging"
	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	Accounts       *AccountHandler
	Contacts       *ContactHandler
	Gate           *AuthGate
	Metrics        *Metrics // nil disables /metrics
	AllowedOrigins []string
	Development    bool
	Logger         logging.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(requestLogger(cfg.Logger.With("module", "http")))
	r.Use(recoverer(cfg.Logger.With("module", "http")))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(Secure(cfg.Development))
	r.Use(CORS(cfg.AllowedOrigins))
	r.Use(requireJSON)
	r.Use(cfg.Gate.Handler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusNotFound, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Route("/user", func(r chi.Router) {
		r.Post("/signup", cfg.Accounts.Signup)
		r.Post("/login", cfg.Accounts.Login)
		r.With(RequirePrincipal).Post("/change-password", cfg.Accounts.ChangePassword)
	})

	r.Route("/contacts", func(r chi.Router) {
		r.Use(RequirePrincipal)
		r.Post("/", cfg.Contacts.Create)
		r.Get("/", cfg.Contacts.List)
		r.Get("/search", cfg.Contacts.Search)
		r.Put("/{contactId}", cfg.Contacts.Update)
		r.Delete("/{contactId}", cfg.Contacts.Delete)
	})

	return r
}
