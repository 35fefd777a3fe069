package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-service/internal/api/dto"
	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/service"
)

// CommentsHandler exposes task comment threads.
type CommentsHandler struct {
	comments *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(comments *service.CommentService) *CommentsHandler {
	return &CommentsHandler{comments: comments}
}

// List handles GET /tasks/:taskId/comments.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	result, err := h.comments.ListForTask(c.UserContext(), c.Params("taskId"), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	return c.JSON(dto.CommentListResponse{
		Comments:      commentResponses(result.Items),
		CurrentPage:   result.Page.Number,
		TotalPages:    result.TotalPages(),
		TotalComments: result.Total,
		HasMore:       result.HasMore(),
	})
}

// Search handles GET /comment/search?message=.
func (h *CommentsHandler) Search(c *fiber.Ctx) error {
	views, err := h.comments.Search(c.UserContext(), c.Query("message"))
	if err != nil {
		return err
	}
	return c.JSON(commentResponses(views))
}

// Get handles GET /tasks/:taskId/comments/:commentId.
func (h *CommentsHandler) Get(c *fiber.Ctx) error {
	view, err := h.comments.Get(c.UserContext(), c.Params("taskId"), c.Params("commentId"))
	if err != nil {
		return err
	}
	return c.JSON(commentResponse(*view))
}

// Create handles POST /tasks/:taskId/comments.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCommentRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if err := auth.RequireActor(c, req.AuthorID); err != nil {
		return err
	}
	view, err := h.comments.Create(c.UserContext(), c.Params("taskId"), service.CommentCreateInput{
		Message:  req.Message,
		AuthorID: req.AuthorID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CommentMutationResponse{
		Message: "Comment created successfully",
		Comment: commentResponse(*view),
	})
}

// Update handles PUT /tasks/:taskId/comments/:commentId.
func (h *CommentsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateCommentRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	view, err := h.comments.Update(c.UserContext(), c.Params("taskId"), c.Params("commentId"), req.Message)
	if err != nil {
		return err
	}
	return c.JSON(dto.CommentMutationResponse{
		Message: "Comment updated successfully",
		Comment: commentResponse(*view),
	})
}

// Delete handles DELETE /tasks/:taskId/comments/:commentId.
func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
	commentID, err := h.comments.Delete(c.UserContext(), c.Params("taskId"), c.Params("commentId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.DeleteResponse{Message: "Comment successfully deleted", CommentID: commentID})
}
