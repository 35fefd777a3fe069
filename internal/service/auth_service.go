package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/events"
)

// AuthService issues login sessions. There are no passwords: knowing a
// registered email is enough, matching how the web client signs in.
type AuthService struct {
	users    *UserService
	tokenMgr *auth.TokenManager
	logger   *zap.Logger
	publisher
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	Users        *UserService
	TokenManager *auth.TokenManager
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := loggerOrNop(deps.Logger)
	return &AuthService{
		users:     deps.Users,
		tokenMgr:  deps.TokenManager,
		logger:    logger,
		publisher: publisher{dispatcher: deps.Dispatcher, logger: logger},
	}
}

// TokenManager exposes the signer shared with the auth middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// LoginByEmail looks the user up and signs a token for them.
func (s *AuthService) LoginByEmail(ctx context.Context, email string) (*domain.Session, error) {
	user, err := s.users.LookupByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	token, issuedAt, expiresAt, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		s.logger.Error("sign token failed", zap.String("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventUserLoggedIn,
		SubjectID: user.ID,
		ActorID:   user.ID,
		Payload:   events.UserPayload{Name: user.Name, Email: user.Email},
	})
	return &domain.Session{User: *user, Token: token, IssuedAt: issuedAt, ExpiresAt: expiresAt}, nil
}
