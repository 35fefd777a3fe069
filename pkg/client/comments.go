package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/spec-kit/task-service/internal/api/dto"
)

func commentPath(taskID string) string {
	return "/tasks/" + escape(taskID) + "/comments"
}

// ListComments returns one page of a task's comments, newest first.
func (c *Client) ListComments(ctx context.Context, taskID string, page, limit int) (*CommentList, error) {
	var out CommentList
	if err := c.do(ctx, http.MethodGet, commentPath(taskID), pageQuery(page, limit), nil, &out, "Failed to fetch comments"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetComment(ctx context.Context, taskID, commentID string) (*Comment, error) {
	var out Comment
	if err := c.do(ctx, http.MethodGet, commentPath(taskID)+"/"+escape(commentID), nil, nil, &out, "Failed to fetch comment"); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchComments matches message text; results carry author and task references.
func (c *Client) SearchComments(ctx context.Context, message string) ([]Comment, error) {
	var out []Comment
	if err := c.do(ctx, http.MethodGet, "/comment/search", url.Values{"message": {message}}, nil, &out, "Failed to search comments"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateComment(ctx context.Context, taskID, authorID, message string) (*Comment, error) {
	var out dto.CommentMutationResponse
	body := dto.CreateCommentRequest{Message: message, AuthorID: authorID}
	if err := c.do(ctx, http.MethodPost, commentPath(taskID), nil, body, &out, "Failed to create comment"); err != nil {
		return nil, err
	}
	return &out.Comment, nil
}

func (c *Client) UpdateComment(ctx context.Context, taskID, commentID, message string) (*Comment, error) {
	var out dto.CommentMutationResponse
	body := dto.UpdateCommentRequest{Message: message}
	if err := c.do(ctx, http.MethodPut, commentPath(taskID)+"/"+escape(commentID), nil, body, &out, "Failed to update comment"); err != nil {
		return nil, err
	}
	return &out.Comment, nil
}

// DeleteComment returns the id of the removed comment.
func (c *Client) DeleteComment(ctx context.Context, taskID, commentID string) (string, error) {
	var out dto.DeleteResponse
	if err := c.do(ctx, http.MethodDelete, commentPath(taskID)+"/"+escape(commentID), nil, nil, &out, "Failed to delete comment"); err != nil {
		return "", err
	}
	return out.CommentID, nil
}
