package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/task-service/internal/events"
	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

func TestAuthService_LoginByEmail(t *testing.T) {
	env := newTestEnv(t)
	ann := env.createUser(t, "Ann", "ann@example.com")

	session, err := env.auth.LoginByEmail(context.Background(), " ANN@example.com ")
	require.NoError(t, err)
	assert.Equal(t, ann.ID, session.User.ID)
	assert.NotEmpty(t, session.Token)
	assert.True(t, session.ExpiresAt.After(session.IssuedAt))

	claims, err := env.auth.TokenManager().ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, ann.ID, claims.Subject)
	assert.Contains(t, env.events.types(), events.EventUserLoggedIn)
}

func TestAuthService_LoginFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.LoginByEmail(ctx, "")
	requireCode(t, err, apperrors.CodeValidation, 400)

	_, err = env.auth.LoginByEmail(ctx, "not-an-email")
	requireCode(t, err, apperrors.CodeValidation, 400)

	_, err = env.auth.LoginByEmail(ctx, "ghost@example.com")
	requireCode(t, err, apperrors.CodeNotFound, 404)
}
