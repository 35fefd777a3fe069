package repository

import (
	"context"

	"github.com/spec-kit/task-service/internal/domain"
)

// TaskFilter narrows task listings. A zero Limit means no limit.
type TaskFilter struct {
	AssignedTo string
	Status     *domain.TaskStatus
	Limit      int
	Offset     int
}

// TaskRepository encapsulates task persistence.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Task, error)
	// List returns tasks ordered by due date, earliest first.
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Count(ctx context.Context, filter TaskFilter) (int64, error)
	SearchByTitle(ctx context.Context, term string, limit int) ([]domain.Task, error)
}
