package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tasklane/tasklane/internal/platform/httpx"
)

// Middleware guards routes behind request authentication and user scoping.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// RequireUser authenticates the request once and stores the resolved user in
// the request context. Every failure answers 401 without revealing whether
// the token was missing or merely unknown.
func (m Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.Service.AuthenticateRequest(r.Context(), r.Header)
		if err != nil {
			if !errors.Is(err, ErrMissingToken) && !errors.Is(err, ErrInvalidToken) {
				if m.Logger != nil {
					m.Logger.Error("request authentication failed", slog.String("path", r.URL.Path), slog.Any("error", err))
				}
				httpx.RespondError(w, err)
				return
			}
			if m.Logger != nil {
				m.Logger.Debug("request authentication failed", slog.String("path", r.URL.Path), slog.Any("error", err))
			}
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// ScopeUser resolves the acting-as user named by the {userID} path segment.
// "me" and the caller's own numeric id scope the request to the caller; any
// other value is denied before any resource is touched.
func (m Middleware) ScopeUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		param := chi.URLParam(r, "userID")
		if param != "" && param != "me" {
			id, err := strconv.ParseInt(param, 10, 64)
			if err != nil || id != user.ID {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(ContextWithScope(r.Context(), user)))
	})
}
