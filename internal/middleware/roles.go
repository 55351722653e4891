package middleware

import (
	"context"
	"net/http"

	"minbar/internal/logger"
	"minbar/internal/models"
	"minbar/internal/reqctx"
	"minbar/internal/utils/helpers"

	"go.uber.org/zap"
)

type UserLookup interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// RequireRole admits sessions whose user currently holds at least min.
// The role is read from the database because it is not part of the token.
func RequireRole(min models.Role, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := reqctx.GetSession(r.Context())
			if sess == nil {
				helpers.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}

			u, err := users.GetUser(r.Context(), sess.UserID)
			if err != nil {
				// Account removed after the token was issued.
				logger.WithCtx(r.Context()).Warn("RequireRole: user lookup failed", zap.Error(err))
				helpers.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !u.Role.AtLeast(min) {
				logger.WithCtx(r.Context()).Warn("RequireRole: forbidden",
					zap.String("role", string(u.Role)), zap.String("required", string(min)))
				helpers.Error(w, http.StatusForbidden, "forbidden")
				return
			}

			next.ServeHTTP(w, r.WithContext(reqctx.WithRole(r.Context(), u.Role)))
		})
	}
}
