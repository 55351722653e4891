package reqctx

import (
	"context"
	"testing"

	"minbar/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetSession(ctx))

	ctx = WithSession(ctx, nil)
	assert.Nil(t, GetSession(ctx))

	s := &models.Session{UserID: 7, Email: "a@b.co"}
	ctx = WithSession(ctx, s)
	assert.Same(t, s, GetSession(ctx))

	id, ok := GetUserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
}
