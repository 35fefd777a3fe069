package repository

import (
	"context"

	"github.com/spec-kit/task-service/internal/domain"
)

// UserFilter narrows user listings. A zero Limit means no limit.
type UserFilter struct {
	Role   *domain.UserRole
	Limit  int
	Offset int
}

// UserRepository defines persistence access for users.
//
// Create assigns ID and timestamps when they are empty. Update rewrites the mutable
// fields (name, email, role, status) and refreshes UpdatedAt. Email uniqueness
// violations surface as ErrDuplicate; missing records as ErrNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.User, error)
	// List returns users newest first.
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
	// SearchByName matches term as a literal, case-insensitive substring of the display name.
	SearchByName(ctx context.Context, term string, limit int) ([]domain.User, error)
}
