package memory

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(user.Email, "") {
		return repository.ErrDuplicate
	}
	if user.ID == "" {
		user.ID = domain.NewID()
	}
	now := s.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (r *userRepository) Update(_ context.Context, user *domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if s.emailTaken(user.Email, user.ID) {
		return repository.ErrDuplicate
	}
	existing.Name = user.Name
	existing.Email = user.Email
	existing.Role = user.Role
	existing.Status = user.Status
	existing.UpdatedAt = s.now()
	s.users[user.ID] = existing
	*user = existing
	return nil
}

func (r *userRepository) Delete(_ context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) GetByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.User, 0, len(ids))
	for id := range idSet(ids) {
		if user, ok := s.users[id]; ok {
			result = append(result, user)
		}
	}
	return result, nil
}

func (r *userRepository) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	matched := r.matching(filter)
	return window(matched, filter.Offset, filter.Limit), nil
}

func (r *userRepository) Count(_ context.Context, filter repository.UserFilter) (int64, error) {
	return int64(len(r.matching(filter))), nil
}

func (r *userRepository) SearchByName(_ context.Context, term string, limit int) ([]domain.User, error) {
	s := r.store
	s.mu.RLock()
	result := []domain.User{}
	for _, user := range s.users {
		if containsFold(user.Name, term) {
			result = append(result, user)
		}
	}
	s.mu.RUnlock()

	sortUsers(result)
	return window(result, 0, limit), nil
}

func (r *userRepository) matching(filter repository.UserFilter) []domain.User {
	s := r.store
	s.mu.RLock()
	result := []domain.User{}
	for _, user := range s.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		result = append(result, user)
	}
	s.mu.RUnlock()

	sortUsers(result)
	return result
}

// emailTaken must be called with the lock held.
func (s *Store) emailTaken(email, exceptID string) bool {
	for id, user := range s.users {
		if id != exceptID && strings.EqualFold(user.Email, email) {
			return true
		}
	}
	return false
}

func sortUsers(users []domain.User) {
	sortNewestFirst(users,
		func(u domain.User) time.Time { return u.CreatedAt },
		func(u domain.User) string { return u.ID })
}
