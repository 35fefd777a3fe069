package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/events"
	"github.com/spec-kit/task-service/internal/repository"
)

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *countingRecorder) RecordEvent(eventType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	c.counts[eventType]++
}

func newActivityFeed(t *testing.T, maxLen int64) repository.ActivityRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return repository.NewActivityRepository(client, "test:activity", maxLen)
}

func TestActivityService_RecordsDomainEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	counter := &countingRecorder{}
	activity := NewActivityService(ActivityDependencies{
		Dispatcher: dispatcher,
		Feed:       newActivityFeed(t, 100),
		Counter:    counter,
	})
	activity.RegisterHandlers()

	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:      events.EventTaskCreated,
		SubjectID: "task-1",
		ActorID:   "user-1",
		Timestamp: time.Now().UTC(),
		Payload:   events.TaskCreatedPayload{Title: "Ship", Priority: domain.TaskPriorityHigh},
	}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:      events.EventTaskUpdated,
		SubjectID: "task-1",
		ActorID:   "user-1",
		Timestamp: time.Now().UTC(),
		Payload:   events.TaskUpdatedPayload{Title: "Ship", OldStatus: domain.TaskStatusTodo, NewStatus: domain.TaskStatusCompleted},
	}))

	entries, err := activity.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, string(events.EventTaskUpdated), entries[0].Type)
	assert.Equal(t, `task "Ship" moved from todo to completed`, entries[0].Summary)
	assert.Equal(t, `task "Ship" created with high priority`, entries[1].Summary)
	assert.Equal(t, "user-1", entries[1].ActorID)
	assert.Equal(t, 1, counter.counts[string(events.EventTaskCreated)])
}

func TestActivityService_RecordSurvivesCanceledRequest(t *testing.T) {
	feed := newActivityFeed(t, 100)
	activity := NewActivityService(ActivityDependencies{Feed: feed})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, activity.record(ctx, events.Event{Type: events.EventUserCreated, SubjectID: "u", Payload: events.UserPayload{Name: "Ann"}}))

	entries, err := activity.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "user Ann joined", entries[0].Summary)
}

func TestActivityService_RecentWithoutFeed(t *testing.T) {
	activity := NewActivityService(ActivityDependencies{})
	entries, err := activity.Recent(context.Background(), 500)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		event events.Event
		want  string
	}{
		{"login", events.Event{Type: events.EventUserLoggedIn, Payload: events.UserPayload{Name: "Ann"}}, "user Ann signed in"},
		{"same status", events.Event{Type: events.EventTaskUpdated, Payload: events.TaskUpdatedPayload{Title: "T", OldStatus: "todo", NewStatus: "todo"}}, `task "T" updated`},
		{"deleted task", events.Event{Type: events.EventTaskDeleted, Payload: events.TaskDeletedPayload{Title: "T"}}, `task "T" deleted`},
		{"comment", events.Event{Type: events.EventCommentAdded, Payload: events.CommentPayload{TaskID: "t1", Preview: "hi"}}, "comment on task t1: hi"},
		{"comment removed", events.Event{Type: events.EventCommentDeleted, Payload: events.CommentPayload{TaskID: "t1"}}, "comment removed from task t1"},
		{"no payload", events.Event{Type: events.EventUserDeleted, SubjectID: "u1"}, "user_deleted u1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, summarize(tt.event))
		})
	}
}
