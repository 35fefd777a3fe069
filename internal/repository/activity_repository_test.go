package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/task-service/internal/domain"
)

func newMiniRedis(t *testing.T) *redis.Client {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestActivityRepository_AppendAndRecent(t *testing.T) {
	ctx := context.Background()
	repo := NewActivityRepository(newMiniRedis(t), "test:activity", 3)

	for _, summary := range []string{"one", "two", "three", "four"} {
		entry := &domain.Activity{Type: "task_created", ActorID: "actor", SubjectID: "subject", Summary: summary}
		require.NoError(t, repo.Append(ctx, entry))
		assert.NotEmpty(t, entry.ID)
		assert.False(t, entry.OccurredAt.IsZero())
	}

	recent, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 3, "stream is capped at maxLen")
	assert.Equal(t, "four", recent[0].Summary)
	assert.Equal(t, "two", recent[2].Summary)
	assert.Equal(t, "task_created", recent[0].Type)
	assert.False(t, recent[0].OccurredAt.IsZero())
}

func TestActivityRepository_RecentEmpty(t *testing.T) {
	repo := NewActivityRepository(newMiniRedis(t), "test:empty", 10)
	recent, err := repo.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
