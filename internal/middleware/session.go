package middleware

import (
	"net/http"
	"strings"

	"minbar/internal/models"
	"minbar/internal/reqctx"
	"minbar/internal/utils/helpers"
)

type SessionParser interface {
	ParseSession(token string) *models.Session
}

// SessionToken reads the session token from the cookie, falling back to an
// Authorization: Bearer header.
func SessionToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// SessionLoader attaches the decoded session to the request context. A
// missing or invalid token leaves the request anonymous.
func SessionLoader(parser SessionParser, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := SessionToken(r, cookieName); tok != "" {
				if sess := parser.ParseSession(tok); sess != nil {
					noteUser(w, sess.UserID)
					r = r.WithContext(reqctx.WithSession(r.Context(), sess))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession answers 401 for anonymous API requests.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqctx.GetSession(r.Context()) == nil {
			helpers.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
