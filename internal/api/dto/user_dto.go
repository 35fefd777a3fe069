package dto

import (
	"time"

	"github.com/spec-kit/task-service/internal/domain"
)

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	UserName string            `json:"userName"`
	Email    string            `json:"email" validate:"omitempty,email"`
	Role     domain.UserRole   `json:"role" validate:"omitempty,oneof=Member Admin"`
	Status   domain.UserStatus `json:"status" validate:"omitempty,oneof=active inActive"`
}

// UpdateUserRequest is the body of PUT /users/:id. Absent fields are left unchanged.
type UpdateUserRequest struct {
	UserName *string            `json:"userName"`
	Email    *string            `json:"email" validate:"omitempty,email"`
	Role     *domain.UserRole   `json:"role" validate:"omitempty,oneof=Member Admin"`
	Status   *domain.UserStatus `json:"status" validate:"omitempty,oneof=active inActive"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email string `json:"email"`
}

// UserResponse is the public projection of a user.
type UserResponse struct {
	ID        string            `json:"_id"`
	UserName  string            `json:"userName"`
	Email     string            `json:"email"`
	Role      domain.UserRole   `json:"role"`
	Status    domain.UserStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// UserListResponse is one page of users.
type UserListResponse struct {
	Users       []UserResponse `json:"users"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
	TotalUsers  int64          `json:"totalUsers"`
	HasMore     bool           `json:"hasMore"`
}

// UserMutationResponse answers create and update.
type UserMutationResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// LoginResponse carries the signed-in user and a bearer token.
type LoginResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}
