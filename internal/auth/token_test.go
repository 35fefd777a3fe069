package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/task-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 30*time.Minute)
	user := &domain.User{ID: domain.NewID(), Email: "ann@example.com"}

	token, issued, expires, err := tm.GenerateToken(user)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, expires.Sub(issued))

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, "ann@example.com", claims.Email)
}

func TestParseTokenRejectsExpiredAndForeign(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tm := NewTokenManager("secret", time.Minute)
	tm.now = func() time.Time { return base }
	token, _, _, err := tm.GenerateToken(&domain.User{ID: domain.NewID()})
	require.NoError(t, err)

	tm.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	other := NewTokenManager("other-secret", time.Minute)
	other.now = func() time.Time { return base }
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRequiresObjectIDSubject(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	token, _, _, err := tm.GenerateToken(&domain.User{ID: "not-hex"})
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.EqualError(t, err, "invalid token claims")
}
