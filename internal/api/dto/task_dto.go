package dto

import (
	"encoding/json"
	"time"

	"github.com/spec-kit/task-service/internal/domain"
)

// CreateTaskRequest is the body of POST /users/:userId/tasks.
type CreateTaskRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      domain.TaskStatus   `json:"status" validate:"omitempty,oneof=todo in-progress completed blocked"`
	Priority    domain.TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *FlexibleTime       `json:"dueDate"`
}

// UpdateTaskRequest is the body of PUT /users/:userId/tasks/:taskId.
// Comments is accepted for compatibility and ignored; threads change through the comment routes.
type UpdateTaskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *domain.TaskStatus   `json:"status" validate:"omitempty,oneof=todo in-progress completed blocked"`
	Priority    *domain.TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *FlexibleTime        `json:"dueDate"`
	Comments    json.RawMessage      `json:"comments,omitempty"`
}

// TaskResponse is a task as returned by the API. Comments are only present
// on single-task reads and update responses.
type TaskResponse struct {
	ID          string              `json:"_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      domain.TaskStatus   `json:"status"`
	Priority    domain.TaskPriority `json:"priority"`
	DueDate     time.Time           `json:"dueDate"`
	AssignedTo  UserReference       `json:"assignedTo"`
	Comments    []CommentResponse   `json:"comments,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// TaskListResponse is one page of a user's tasks.
type TaskListResponse struct {
	Tasks       []TaskResponse `json:"tasks"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
	TotalTasks  int64          `json:"totalTasks"`
	HasMore     bool           `json:"hasMore"`
}

// TaskMutationResponse answers create and update.
type TaskMutationResponse struct {
	Message string       `json:"message"`
	Task    TaskResponse `json:"task"`
}
