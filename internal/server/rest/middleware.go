package rest

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/dmitrijs2005/contactkeeper/internal/logging"
	"github.com/dmitrijs2005/contactkeeper/internal/server/auth"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/unrolled/secure"
)

// TokenVerifier validates a bearer token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// IdentityResolver maps a token subject to a principal.
type IdentityResolver interface {
	Resolve(ctx context.Context, subject string) (*auth.Principal, error)
}

// AuthGate authenticates bearer tokens. Requests without a bearer token pass
// through anonymously; requests with an invalid one are rejected with 401.
// Routes that need a user are wrapped in RequirePrincipal.
type AuthGate struct {
	tokens     TokenVerifier
	identities IdentityResolver
	logger     logging.Logger
}

func NewAuthGate(tokens TokenVerifier, identities IdentityResolver, logger logging.Logger) *AuthGate {
	return &AuthGate{
		tokens:     tokens,
		identities: identities,
		logger:     logger.With("module", "auth_gate"),
	}
}

func (g *AuthGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			next.ServeHTTP(w, r)
			return
		}

		subject, err := g.tokens.Verify(strings.TrimPrefix(header, common.BearerPrefix))
		if err != nil {
			g.logger.Warn(r.Context(), "rejected bearer token", "path", r.URL.Path, "error", err)
			writeErr(w, http.StatusUnauthorized, common.ErrUnauthorized.Error())
			return
		}

		principal, err := g.identities.Resolve(r.Context(), subject)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				g.logger.Debug(r.Context(), "token subject has no account", "subject", subject)
				next.ServeHTTP(w, r)
				return
			}
			writeServiceErr(w, r, g.logger, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	})
}

// RequirePrincipal rejects requests that the AuthGate left anonymous.
func RequirePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.PrincipalFromContext(r.Context()); !ok {
			writeErr(w, http.StatusUnauthorized, common.ErrUnauthorized.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CORS sets Access-Control-* headers for the allowed origins and answers
// preflight requests. With no origins configured it is a pass-through.
func CORS(allowedOrigins []string) func(next http.Handler) http.Handler {
	origins := make(map[string]bool)
	for _, o := range allowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins[o] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(origins) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			if origin != "" && origins[origin] {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				if req := r.Header.Get("Access-Control-Request-Headers"); req != "" {
					h.Set("Access-Control-Allow-Headers", req)
				} else {
					h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				}
				h.Set("Access-Control-Max-Age", "3600")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Secure adds the standard security headers. Development mode relaxes the
// checks that need TLS.
func Secure(isDevelopment bool) func(next http.Handler) http.Handler {
	s := secure.New(secure.Options{
		IsDevelopment:         isDevelopment,
		ContentTypeNosniff:    true,
		FrameDeny:             true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "no-referrer",
	})
	return s.Handler
}

func requestLogger(logger logging.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info(r.Context(), "request",
				"request_id", chimid.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}

// requireJSON rejects request bodies that are not application/json with 415.
// Bodyless requests pass.
func requireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			writeErr(w, http.StatusUnsupportedMediaType, "content type must be application/json")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoverer turns a handler panic into a logged 500 with the usual error body.
func recoverer(logger logging.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				logger.Error(r.Context(), "panic while serving request",
					"request_id", chimid.GetReqID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rvr,
					"stack", string(debug.Stack()),
				)
				if r.Header.Get("Connection") != "Upgrade" {
					writeErr(w, http.StatusInternalServerError, common.ErrInternal.Error())
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
