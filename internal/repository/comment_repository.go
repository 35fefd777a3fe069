package repository

import (
	"context"

	"github.com/spec-kit/task-service/internal/domain"
)

// CommentFilter selects a task's comments. Newest first unless Oldest is set.
// A zero Limit means no limit.
type CommentFilter struct {
	TaskID string
	Oldest bool
	Limit  int
	Offset int
}

// CommentRepository manages task thread comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	// Update rewrites the message only; task and author are immutable.
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id string) error
	// GetForTask returns the comment only when it belongs to taskID.
	GetForTask(ctx context.Context, taskID, commentID string) (*domain.Comment, error)
	List(ctx context.Context, filter CommentFilter) ([]domain.Comment, error)
	Count(ctx context.Context, filter CommentFilter) (int64, error)
	SearchByMessage(ctx context.Context, term string, limit int) ([]domain.Comment, error)
}
