package dto

import "time"

// CreateCommentRequest is the body of POST /tasks/:taskId/comments.
type CreateCommentRequest struct {
	Message  string `json:"message"`
	AuthorID string `json:"author_id"`
}

// UpdateCommentRequest is the body of PUT /tasks/:taskId/comments/:commentId.
type UpdateCommentRequest struct {
	Message string `json:"message"`
}

// CommentResponse is a comment with its author and task references.
type CommentResponse struct {
	ID        string        `json:"_id"`
	TaskID    TaskReference `json:"task_id"`
	AuthorID  UserReference `json:"author_id"`
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// CommentListResponse is one page of a task's comments.
type CommentListResponse struct {
	Comments      []CommentResponse `json:"comments"`
	CurrentPage   int               `json:"currentPage"`
	TotalPages    int               `json:"totalPages"`
	TotalComments int64             `json:"totalComments"`
	HasMore       bool              `json:"hasMore"`
}

// CommentMutationResponse answers create and update.
type CommentMutationResponse struct {
	Message string          `json:"message"`
	Comment CommentResponse `json:"comment"`
}
