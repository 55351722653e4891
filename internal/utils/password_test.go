package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, CheckPasswordHash("secret1", hash))
	assert.False(t, CheckPasswordHash("secret2", hash))
}

func TestResetToken(t *testing.T) {
	a, err := NewResetToken()
	require.NoError(t, err)
	b, err := NewResetToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, HashResetToken(a), HashResetToken(a))
	assert.NotEqual(t, a, HashResetToken(a))
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "x***@y.com", MaskEmail("x@y.com"))
	assert.Equal(t, "ع***@example.org", MaskEmail("علي@example.org"))
	assert.Equal(t, "***", MaskEmail("broken"))
}
