package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	t.Parallel()
	m := NewTokenManager("super-secret", time.Hour)

	tok, sessionID, err := m.GenerateToken(42, "parent@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	claims, err := m.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "parent@example.com", claims.Email)
	assert.Equal(t, sessionID, claims.ID)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestGenerateToken_UniqueSessionIDs(t *testing.T) {
	t.Parallel()
	m := NewTokenManager("k", time.Hour)

	_, a, err := m.GenerateToken(1, "a@example.com")
	require.NoError(t, err)
	_, b, err := m.GenerateToken(1, "a@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestValidateToken_Expired(t *testing.T) {
	t.Parallel()
	m := NewTokenManager("k", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, _, err := m.GenerateToken(1, "a@example.com")
	require.NoError(t, err)

	_, err = m.ValidateToken(tok)
	require.Error(t, err)
	var vErr *jwt.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.True(t, vErr.Is(jwt.ErrTokenExpired))
}

func TestValidateToken_WrongSecret(t *testing.T) {
	t.Parallel()
	tok, _, err := NewTokenManager("right", time.Hour).GenerateToken(1, "a@example.com")
	require.NoError(t, err)

	_, err = NewTokenManager("wrong", time.Hour).ValidateToken(tok)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	t.Parallel()
	_, err := NewTokenManager("k", time.Hour).ValidateToken("not-a-jwt")
	assert.Error(t, err)
}
