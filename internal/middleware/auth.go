package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/rgorski/brief-analyzer/context"
	"github.com/rgorski/brief-analyzer/internal/models"
)

type AuthMiddleware struct {
	sessionService *models.SessionService
	cookieName     string
}

func NewAuthMiddleware(sessionService *models.SessionService, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		sessionService: sessionService,
		cookieName:     cookieName,
	}
}

// SetUser loads the authenticated user from the session cookie and stores
// it in the request context. It runs on all routes and never blocks a
// request; it only populates the user when a valid session exists.
func (m *AuthMiddleware) SetUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.cookieName)
		if err != nil {
			// No cookie, proceed anonymously
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.sessionService.User(r.Context(), cookie.Value)
		if err != nil {
			// Invalid or expired session: clear the cookie and proceed
			http.SetCookie(w, &http.Cookie{
				Name:     m.cookieName,
				Value:    "",
				Path:     "/",
				MaxAge:   -1,
				HttpOnly: true,
			})
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.ContextSetUser(r.Context(), user)
		r = r.WithContext(ctx)

		next.ServeHTTP(w, r)
	})
}

// RequireUser ensures the request is authenticated. Unauthenticated
// requests get a 401 JSON body; this is an API, not a page flow, so there
// is no redirect.
func (m *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := context.ContextGetUser(r.Context())
		if user == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "authentication required",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the authenticated user for a request, or nil.
func CurrentUser(r *http.Request) *models.User {
	return context.ContextGetUser(r.Context())
}
