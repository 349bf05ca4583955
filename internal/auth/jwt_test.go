package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenMaker_GenerateAndParse(t *testing.T) {
	maker := NewTokenMaker("test-secret", time.Hour)

	token, err := maker.Generate("user-1", "GM")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "GM", claims.Role)
}

func TestTokenMaker_RejectsExpiredToken(t *testing.T) {
	maker := &TokenMaker{secret: []byte("test-secret"), ttl: -time.Hour}

	token, err := maker.Generate("user-1", "PLAYER")
	require.NoError(t, err)

	_, err = maker.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMaker_RejectsWrongSecret(t *testing.T) {
	maker := NewTokenMaker("secret-a", time.Hour)
	other := NewTokenMaker("secret-b", time.Hour)

	token, err := maker.Generate("user-1", "PLAYER")
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMaker_RejectsGarbage(t *testing.T) {
	maker := NewTokenMaker("test-secret", time.Hour)
	_, err := maker.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Сложный-пароль-123")
	require.NoError(t, err)
	require.NotEqual(t, "Сложный-пароль-123", hash)

	assert.True(t, CheckPassword("Сложный-пароль-123", hash))
	assert.False(t, CheckPassword("другой пароль", hash))
}
