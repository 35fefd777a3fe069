package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User *domain.User
}

// AuthMiddleware validates bearer tokens and loads principals.
// Tokens are optional unless required is set.
type AuthMiddleware struct {
	tokens   *TokenManager
	users    repository.UserRepository
	required bool
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, required bool) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, required: required}
}

// Handle loads the principal when a bearer token is present. A present but
// invalid token is always rejected.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.UserContext(), strings.ToLower(claims.Subject))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.NewInternalError(err)
	}

	c.Locals(principalKey, &Principal{User: user})
	return c.Next()
}

// RequireToken rejects requests without a principal when tokens are mandatory.
func (m *AuthMiddleware) RequireToken(c *fiber.Ctx) error {
	if m.required {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("missing authorization header")
		}
	}
	return c.Next()
}

// RequireActor checks that the acting user id matches the token subject.
// Without a token, or with a malformed id, there is nothing to compare and
// the caller's own validation decides.
func RequireActor(c *fiber.Ctx, actorID string) error {
	principal, ok := PrincipalFromContext(c)
	if !ok || !domain.IsValidID(actorID) {
		return nil
	}
	if !strings.EqualFold(principal.User.ID, actorID) {
		return apperrors.NewForbidden("token subject does not match the acting user")
	}
	return nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
