package events

import (
	"time"

	"github.com/spec-kit/task-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated    EventType = "user_created"
	EventUserUpdated    EventType = "user_updated"
	EventUserDeleted    EventType = "user_deleted"
	EventUserLoggedIn   EventType = "user_logged_in"
	EventTaskCreated    EventType = "task_created"
	EventTaskUpdated    EventType = "task_updated"
	EventTaskDeleted    EventType = "task_deleted"
	EventCommentAdded   EventType = "comment_added"
	EventCommentUpdated EventType = "comment_updated"
	EventCommentDeleted EventType = "comment_deleted"
)

// AllEventTypes lists every type services publish.
var AllEventTypes = []EventType{
	EventUserCreated,
	EventUserUpdated,
	EventUserDeleted,
	EventUserLoggedIn,
	EventTaskCreated,
	EventTaskUpdated,
	EventTaskDeleted,
	EventCommentAdded,
	EventCommentUpdated,
	EventCommentDeleted,
}

// Event represents a domain event emitted by services.
// ActorID is empty when the acting user is unknown.
type Event struct {
	ID        string
	Type      EventType
	SubjectID string
	ActorID   string
	Timestamp time.Time
	Payload   interface{}
}

// UserPayload accompanies user events.
type UserPayload struct {
	Name  string
	Email string
}

// TaskCreatedPayload payload.
type TaskCreatedPayload struct {
	Title    string
	Priority domain.TaskPriority
	DueDate  time.Time
}

// TaskUpdatedPayload carries the status transition, which may be a no-op.
type TaskUpdatedPayload struct {
	Title     string
	OldStatus domain.TaskStatus
	NewStatus domain.TaskStatus
}

// TaskDeletedPayload payload.
type TaskDeletedPayload struct {
	Title string
}

// CommentPayload accompanies comment events.
type CommentPayload struct {
	TaskID  string
	Preview string
}
