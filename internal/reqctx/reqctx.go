package reqctx

import (
	"context"

	"minbar/internal/models"
)

type key int

const (
	keyRequestID key = iota
	keyUserID
	keySession
	keyRole
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func GetRequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRequestID).(string)
	return v, ok
}

func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, keyUserID, id)
}

func GetUserID(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(keyUserID).(int64)
	return v, ok
}

// WithSession stores the decoded session and its user id.
func WithSession(ctx context.Context, s *models.Session) context.Context {
	if s == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, keySession, s)
	return WithUserID(ctx, s.UserID)
}

// GetSession returns nil when the request carries no valid session.
func GetSession(ctx context.Context) *models.Session {
	s, _ := ctx.Value(keySession).(*models.Session)
	return s
}

// WithRole records the role resolved for the current user.
func WithRole(ctx context.Context, r models.Role) context.Context {
	return context.WithValue(ctx, keyRole, r)
}

func GetRole(ctx context.Context) (models.Role, bool) {
	v, ok := ctx.Value(keyRole).(models.Role)
	return v, ok
}
