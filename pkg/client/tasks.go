package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/spec-kit/task-service/internal/api/dto"
)

func taskPath(userID string) string {
	return "/users/" + escape(userID) + "/tasks"
}

// ListTasks returns one page of a user's tasks, earliest due first.
func (c *Client) ListTasks(ctx context.Context, userID string, opts ListTasksOptions) (*TaskList, error) {
	q := pageQuery(opts.Page, opts.Limit)
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	var out TaskList
	if err := c.do(ctx, http.MethodGet, taskPath(userID), q, nil, &out, "Failed to fetch tasks"); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchTasks matches titles. Assignees come back unpopulated.
func (c *Client) SearchTasks(ctx context.Context, title string) ([]Task, error) {
	var out []Task
	if err := c.do(ctx, http.MethodGet, "/tasks/search", url.Values{"title": {title}}, nil, &out, "Failed to search tasks"); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTask returns a task with its comment thread.
func (c *Client) GetTask(ctx context.Context, userID, taskID string) (*Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodGet, taskPath(userID)+"/"+escape(taskID), nil, nil, &out, "Failed to fetch task"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTask(ctx context.Context, userID string, input CreateTaskInput) (*Task, error) {
	var out dto.TaskMutationResponse
	if err := c.do(ctx, http.MethodPost, taskPath(userID), nil, input, &out, "Failed to create task"); err != nil {
		return nil, err
	}
	return &out.Task, nil
}

func (c *Client) UpdateTask(ctx context.Context, userID, taskID string, input UpdateTaskInput) (*Task, error) {
	var out dto.TaskMutationResponse
	if err := c.do(ctx, http.MethodPut, taskPath(userID)+"/"+escape(taskID), nil, input, &out, "Failed to update task"); err != nil {
		return nil, err
	}
	return &out.Task, nil
}

// DeleteTask returns the id of the removed task.
func (c *Client) DeleteTask(ctx context.Context, userID, taskID string) (string, error) {
	var out dto.DeleteResponse
	if err := c.do(ctx, http.MethodDelete, taskPath(userID)+"/"+escape(taskID), nil, nil, &out, "Failed to delete task"); err != nil {
		return "", err
	}
	return out.TaskID, nil
}
