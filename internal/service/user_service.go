package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/events"
	"github.com/spec-kit/task-service/internal/repository"
	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

const (
	msgInvalidUserID  = "Invalid user ID format"
	msgUserNotFound   = "User"
	msgDuplicateEmail = "User already exists with this email"
	msgBodyRequired   = "Request body is required"
)

// UserService manages user records.
type UserService struct {
	users  repository.UserRepository
	logger *zap.Logger
	publisher
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// UserCreateInput describes a new user. Role and Status fall back to the defaults.
type UserCreateInput struct {
	Name   string
	Email  string
	Role   domain.UserRole
	Status domain.UserStatus
}

// UserUpdateInput carries the fields to change; nil means unchanged.
type UserUpdateInput struct {
	Name   *string
	Email  *string
	Role   *domain.UserRole
	Status *domain.UserStatus
}

// IsEmpty reports whether no field was supplied.
func (in UserUpdateInput) IsEmpty() bool {
	return in.Name == nil && in.Email == nil && in.Role == nil && in.Status == nil
}

// UserListFilter selects a page of users.
type UserListFilter struct {
	Page  int
	Limit int
	Role  string
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	logger := loggerOrNop(deps.Logger)
	return &UserService{
		users:     deps.UserRepo,
		logger:    logger,
		publisher: publisher{dispatcher: deps.Dispatcher, logger: logger},
	}
}

// List returns users newest first. Limit is clamped to MaxUserPageSize.
func (s *UserService) List(ctx context.Context, filter UserListFilter) (PageResult[domain.User], error) {
	page := domain.NewPage(filter.Page, filter.Limit, domain.MaxUserPageSize)
	repoFilter := repository.UserFilter{Limit: page.Limit, Offset: page.Offset()}
	if filter.Role != "" {
		role := domain.UserRole(filter.Role)
		if !role.Valid() {
			return PageResult[domain.User]{}, apperrors.NewValidationError("Invalid role value", map[string]any{"role": filter.Role})
		}
		repoFilter.Role = &role
	}

	result, err := listAndCount(ctx, page,
		func(ctx context.Context) ([]domain.User, error) { return s.users.List(ctx, repoFilter) },
		func(ctx context.Context) (int64, error) { return s.users.Count(ctx, repoFilter) },
	)
	if err != nil {
		return PageResult[domain.User]{}, storeError(s.logger, "list users", err)
	}
	return result, nil
}

// Search matches userName as a literal case-insensitive substring.
func (s *UserService) Search(ctx context.Context, name string) ([]domain.User, error) {
	term, err := searchTerm(name, "Name query parameter is required")
	if err != nil {
		return nil, err
	}
	users, err := s.users.SearchByName(ctx, term, SearchLimit)
	if err != nil {
		return nil, storeError(s.logger, "search users", err)
	}
	return users, nil
}

// Get fetches one user.
func (s *UserService) Get(ctx context.Context, rawID string) (*domain.User, error) {
	id, err := parseID(rawID, msgInvalidUserID)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// LookupByEmail finds a user by exact, case-insensitive email.
func (s *UserService) LookupByEmail(ctx context.Context, rawEmail string) (*domain.User, error) {
	if strings.TrimSpace(rawEmail) == "" {
		return nil, apperrors.NewValidationError("Email is required", nil)
	}
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFound(msgUserNotFound, map[string]any{"email": email})
		}
		return nil, storeError(s.logger, "get user by email", err)
	}
	return user, nil
}

// Create registers a user. Emails are unique regardless of case.
func (s *UserService) Create(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || strings.TrimSpace(input.Email) == "" {
		return nil, apperrors.NewValidationError("Username and email are required", nil)
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:   name,
		Email:  email,
		Role:   input.Role,
		Status: input.Status,
	}
	if user.Role == "" {
		user.Role = domain.DefaultUserRole
	}
	if user.Status == "" {
		user.Status = domain.DefaultUserStatus
	}
	if err := validateUserEnums(user); err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.logger.Debug("duplicate email rejected", zap.String("email", email))
			return nil, apperrors.NewConflict(msgDuplicateEmail, map[string]any{"email": email})
		}
		return nil, storeError(s.logger, "create user", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventUserCreated,
		SubjectID: user.ID,
		ActorID:   user.ID,
		Payload:   events.UserPayload{Name: user.Name, Email: user.Email},
	})
	return user, nil
}

// Update changes the supplied fields of a user.
func (s *UserService) Update(ctx context.Context, rawID string, input UserUpdateInput) (*domain.User, error) {
	id, err := parseID(rawID, msgInvalidUserID)
	if err != nil {
		return nil, err
	}
	if input.IsEmpty() {
		return nil, apperrors.NewValidationError(msgBodyRequired, nil)
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email, err := normalizeEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Status != nil {
		user.Status = *input.Status
	}
	if err := validateUserEnums(user); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apperrors.NewConflict(msgDuplicateEmail, map[string]any{"email": user.Email})
		case isNotFound(err):
			return nil, apperrors.NewNotFound(msgUserNotFound, map[string]any{"user_id": id})
		}
		return nil, storeError(s.logger, "update user", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventUserUpdated,
		SubjectID: user.ID,
		Payload:   events.UserPayload{Name: user.Name, Email: user.Email},
	})
	return user, nil
}

// Delete removes a user. Their tasks and comments are left in place.
func (s *UserService) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID, msgInvalidUserID)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return apperrors.NewNotFound(msgUserNotFound, map[string]any{"user_id": id})
		}
		return storeError(s.logger, "delete user", err)
	}
	s.publishEvent(ctx, events.Event{Type: events.EventUserDeleted, SubjectID: id})
	return nil
}

func (s *UserService) load(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFound(msgUserNotFound, map[string]any{"user_id": id})
		}
		return nil, storeError(s.logger, "get user", err)
	}
	return user, nil
}

func validateUserEnums(user *domain.User) error {
	if !user.Role.Valid() {
		return apperrors.NewValidationError("Invalid role value", map[string]any{"role": user.Role})
	}
	if !user.Status.Valid() {
		return apperrors.NewValidationError("Invalid status value", map[string]any{"status": user.Status})
	}
	return nil
}
