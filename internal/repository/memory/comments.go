package memory

import (
	"context"
	"time"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
)

type commentRepository struct {
	store *Store
}

func (r *commentRepository) Create(_ context.Context, comment *domain.Comment) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if comment.ID == "" {
		comment.ID = domain.NewID()
	}
	now := s.now()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	s.comments[comment.ID] = *comment
	return nil
}

func (r *commentRepository) Update(_ context.Context, comment *domain.Comment) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.comments[comment.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Message = comment.Message
	existing.UpdatedAt = s.now()
	s.comments[comment.ID] = existing
	*comment = existing
	return nil
}

func (r *commentRepository) Delete(_ context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func (r *commentRepository) GetForTask(_ context.Context, taskID, commentID string) (*domain.Comment, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, ok := s.comments[commentID]
	if !ok || comment.TaskID != taskID {
		return nil, repository.ErrNotFound
	}
	return &comment, nil
}

func (r *commentRepository) List(_ context.Context, filter repository.CommentFilter) ([]domain.Comment, error) {
	return window(r.matching(filter), filter.Offset, filter.Limit), nil
}

func (r *commentRepository) Count(_ context.Context, filter repository.CommentFilter) (int64, error) {
	return int64(len(r.matching(filter))), nil
}

func (r *commentRepository) SearchByMessage(_ context.Context, term string, limit int) ([]domain.Comment, error) {
	s := r.store
	s.mu.RLock()
	result := []domain.Comment{}
	for _, comment := range s.comments {
		if containsFold(comment.Message, term) {
			result = append(result, comment)
		}
	}
	s.mu.RUnlock()

	sortComments(result)
	return window(result, 0, limit), nil
}

func (r *commentRepository) matching(filter repository.CommentFilter) []domain.Comment {
	s := r.store
	s.mu.RLock()
	result := []domain.Comment{}
	for _, comment := range s.comments {
		if filter.TaskID != "" && comment.TaskID != filter.TaskID {
			continue
		}
		result = append(result, comment)
	}
	s.mu.RUnlock()

	sortComments(result)
	if filter.Oldest {
		for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
			result[i], result[j] = result[j], result[i]
		}
	}
	return result
}

func sortComments(comments []domain.Comment) {
	sortNewestFirst(comments,
		func(c domain.Comment) time.Time { return c.CreatedAt },
		func(c domain.Comment) string { return c.ID })
}
