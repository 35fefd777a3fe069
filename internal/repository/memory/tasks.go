package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
)

type taskRepository struct {
	store *Store
}

func (r *taskRepository) Create(_ context.Context, task *domain.Task) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID == "" {
		task.ID = domain.NewID()
	}
	now := s.now()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.DueDate.IsZero() {
		task.DueDate = now
	}
	s.tasks[task.ID] = *task
	return nil
}

func (r *taskRepository) Update(_ context.Context, task *domain.Task) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Title = task.Title
	existing.Description = task.Description
	existing.Status = task.Status
	existing.Priority = task.Priority
	existing.DueDate = task.DueDate
	existing.UpdatedAt = s.now()
	s.tasks[task.ID] = existing
	*task = existing
	return nil
}

func (r *taskRepository) Delete(_ context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (r *taskRepository) GetByID(_ context.Context, id string) (*domain.Task, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &task, nil
}

func (r *taskRepository) GetByIDs(_ context.Context, ids []string) ([]domain.Task, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Task, 0, len(ids))
	for id := range idSet(ids) {
		if task, ok := s.tasks[id]; ok {
			result = append(result, task)
		}
	}
	return result, nil
}

func (r *taskRepository) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return window(r.matching(filter), filter.Offset, filter.Limit), nil
}

func (r *taskRepository) Count(_ context.Context, filter repository.TaskFilter) (int64, error) {
	return int64(len(r.matching(filter))), nil
}

func (r *taskRepository) SearchByTitle(_ context.Context, term string, limit int) ([]domain.Task, error) {
	s := r.store
	s.mu.RLock()
	result := []domain.Task{}
	for _, task := range s.tasks {
		if containsFold(task.Title, term) {
			result = append(result, task)
		}
	}
	s.mu.RUnlock()

	sortByDueDate(result)
	return window(result, 0, limit), nil
}

func (r *taskRepository) matching(filter repository.TaskFilter) []domain.Task {
	s := r.store
	s.mu.RLock()
	result := []domain.Task{}
	for _, task := range s.tasks {
		if filter.AssignedTo != "" && task.AssignedTo != filter.AssignedTo {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		result = append(result, task)
	}
	s.mu.RUnlock()

	sortByDueDate(result)
	return result
}

func sortByDueDate(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].DueDate.Equal(tasks[j].DueDate) {
			return tasks[i].DueDate.Before(tasks[j].DueDate)
		}
		return tasks[i].ID < tasks[j].ID
	})
}
