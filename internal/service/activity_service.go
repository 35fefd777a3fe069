package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/events"
	"github.com/spec-kit/task-service/internal/repository"
)

// Activity feed sizing.
const (
	DefaultActivityLimit = 20
	MaxActivityLimit     = 100
	activityWriteTimeout = 2 * time.Second
)

// EventCounter is notified once per recorded event.
type EventCounter interface {
	RecordEvent(eventType string)
}

// ActivityService turns domain events into the recent-activity feed.
type ActivityService struct {
	dispatcher events.Dispatcher
	feed       repository.ActivityRepository
	counter    EventCounter
	logger     *zap.Logger
}

// ActivityDependencies bundles collaborators for the activity service.
type ActivityDependencies struct {
	Dispatcher events.Dispatcher
	Feed       repository.ActivityRepository
	Counter    EventCounter
	Logger     *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(deps ActivityDependencies) *ActivityService {
	return &ActivityService{
		dispatcher: deps.Dispatcher,
		feed:       deps.Feed,
		counter:    deps.Counter,
		logger:     loggerOrNop(deps.Logger),
	}
}

// RegisterHandlers subscribes to every event type.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	events.SubscribeAll(a.dispatcher, events.AllEventTypes, a.record)
}

// Recent returns the newest entries first. limit is clamped to [1, MaxActivityLimit].
func (a *ActivityService) Recent(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit < 1 {
		limit = DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		limit = MaxActivityLimit
	}
	if a.feed == nil {
		return []domain.Activity{}, nil
	}
	entries, err := a.feed.Recent(ctx, limit)
	if err != nil {
		return nil, storeError(a.logger, "read activity", err)
	}
	return entries, nil
}

func (a *ActivityService) record(ctx context.Context, event events.Event) error {
	if a.counter != nil {
		a.counter.RecordEvent(string(event.Type))
	}
	a.logger.Debug("domain event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("subject_id", event.SubjectID))
	if a.feed == nil {
		return nil
	}

	// Detached from the request deadline; bounded by its own timeout.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), activityWriteTimeout)
	defer cancel()

	entry := &domain.Activity{
		Type:       string(event.Type),
		ActorID:    event.ActorID,
		SubjectID:  event.SubjectID,
		Summary:    summarize(event),
		OccurredAt: event.Timestamp,
	}
	if err := a.feed.Append(writeCtx, entry); err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

func summarize(event events.Event) string {
	switch p := event.Payload.(type) {
	case events.UserPayload:
		switch event.Type {
		case events.EventUserCreated:
			return fmt.Sprintf("user %s joined", p.Name)
		case events.EventUserLoggedIn:
			return fmt.Sprintf("user %s signed in", p.Name)
		default:
			return fmt.Sprintf("user %s updated", p.Name)
		}
	case events.TaskCreatedPayload:
		return fmt.Sprintf("task %q created with %s priority", p.Title, p.Priority)
	case events.TaskUpdatedPayload:
		if p.OldStatus != p.NewStatus {
			return fmt.Sprintf("task %q moved from %s to %s", p.Title, p.OldStatus, p.NewStatus)
		}
		return fmt.Sprintf("task %q updated", p.Title)
	case events.TaskDeletedPayload:
		return fmt.Sprintf("task %q deleted", p.Title)
	case events.CommentPayload:
		if p.Preview == "" {
			return fmt.Sprintf("comment removed from task %s", p.TaskID)
		}
		return fmt.Sprintf("comment on task %s: %s", p.TaskID, p.Preview)
	}
	return fmt.Sprintf("%s %s", event.Type, event.SubjectID)
}
