// Package memory is an in-process store backend for local runs and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
)

// Store keeps users, tasks and comments in maps guarded by one lock, so each
// operation is atomic per record like a document store.
type Store struct {
	mu       sync.RWMutex
	users    map[string]domain.User
	tasks    map[string]domain.Task
	comments map[string]domain.Comment
	now      func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]domain.User),
		tasks:    make(map[string]domain.Task),
		comments: make(map[string]domain.Comment),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:    &userRepository{store: s},
		Tasks:    &taskRepository{store: s},
		Comments: &commentRepository{store: s},
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

func containsFold(value, term string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(term))
}

// window applies offset/limit to an already sorted slice. A zero limit means no limit.
func window[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// sortNewestFirst orders by creation time descending; ids break ties because
// ObjectIDs grow monotonically within a process.
func sortNewestFirst[T any](items []T, created func(T) time.Time, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(items[i]) > id(items[j])
	})
}
