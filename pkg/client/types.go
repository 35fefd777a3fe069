package client

import "github.com/spec-kit/task-service/internal/api/dto"

// Wire types shared with the server.
type (
	User            = dto.UserResponse
	UserList        = dto.UserListResponse
	UserReference   = dto.UserReference
	CreateUserInput = dto.CreateUserRequest
	UpdateUserInput = dto.UpdateUserRequest
	Session         = dto.LoginResponse

	Task            = dto.TaskResponse
	TaskList        = dto.TaskListResponse
	TaskReference   = dto.TaskReference
	CreateTaskInput = dto.CreateTaskRequest
	UpdateTaskInput = dto.UpdateTaskRequest
	Date            = dto.FlexibleTime

	Comment     = dto.CommentResponse
	CommentList = dto.CommentListResponse

	Activity = dto.ActivityResponse
)

// ListUsersOptions filters ListUsers. Zero values use the server defaults.
type ListUsersOptions struct {
	Page  int
	Limit int
	Role  string
}

// ListTasksOptions filters ListTasks.
type ListTasksOptions struct {
	Page   int
	Limit  int
	Status string
}
