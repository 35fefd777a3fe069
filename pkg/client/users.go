package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/spec-kit/task-service/internal/api/dto"
)

// ListUsers returns one page of users, newest first.
func (c *Client) ListUsers(ctx context.Context, opts ListUsersOptions) (*UserList, error) {
	q := pageQuery(opts.Page, opts.Limit)
	if opts.Role != "" {
		q.Set("role", opts.Role)
	}
	var out UserList
	if err := c.do(ctx, http.MethodGet, "/users", q, nil, &out, "Failed to fetch users"); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchUsers matches userName as a case-insensitive substring.
func (c *Client) SearchUsers(ctx context.Context, userName string) ([]User, error) {
	var out []User
	q := url.Values{"userName": {userName}}
	if err := c.do(ctx, http.MethodGet, "/users/search", q, nil, &out, "Failed to search users"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/users/"+escape(id), nil, nil, &out, "Failed to fetch user"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	var out dto.UserMutationResponse
	if err := c.do(ctx, http.MethodPost, "/users", nil, input, &out, "Failed to create user"); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*User, error) {
	var out dto.UserMutationResponse
	if err := c.do(ctx, http.MethodPut, "/users/"+escape(id), nil, input, &out, "Failed to update user"); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+escape(id), nil, nil, nil, "Failed to delete user")
}

// Login exchanges a registered email for a bearer token. Pass the token to
// WithToken on a new client to act as that user.
func (c *Client) Login(ctx context.Context, email string) (*Session, error) {
	var out Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, dto.LoginRequest{Email: email}, &out, "Failed to log in"); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecentActivity returns the newest activity entries.
func (c *Client) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	var out dto.ActivityListResponse
	if err := c.do(ctx, http.MethodGet, "/activity", pageQuery(0, limit), nil, &out, "Failed to fetch activity"); err != nil {
		return nil, err
	}
	return out.Activities, nil
}
