package domain

import "time"

// TaskStatus is a free-form enumeration; any value may follow any other.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusBlocked    TaskStatus = "blocked"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusBlocked:
		return true
	}
	return false
}

// TaskPriority enumerates urgency.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// Defaults applied when a task is created without explicit values.
// A missing due date defaults to the creation time.
const (
	DefaultTaskStatus   = TaskStatusTodo
	DefaultTaskPriority = TaskPriorityMedium
)

// Task is a unit of work assigned to one user.
// Comments are not stored on the task; they reference it through Comment.TaskID.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     time.Time
	AssignedTo  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Ref returns the projection embedded in comment search results.
func (t *Task) Ref() *TaskRef {
	if t == nil {
		return nil
	}
	return &TaskRef{ID: t.ID, Title: t.Title}
}

// TaskRef is a populated task reference.
type TaskRef struct {
	ID    string
	Title string
}
