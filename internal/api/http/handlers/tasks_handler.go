package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-service/internal/api/dto"
	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/service"
)

// TasksHandler exposes a user's tasks.
type TasksHandler struct {
	tasks *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(tasks *service.TaskService) *TasksHandler {
	return &TasksHandler{tasks: tasks}
}

// List handles GET /users/:userId/tasks.
func (h *TasksHandler) List(c *fiber.Ctx) error {
	result, err := h.tasks.ListForUser(c.UserContext(), c.Params("userId"), service.TaskListFilter{
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
		Status: c.Query("status"),
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.TaskListResponse{
		Tasks:       taskResponses(result.Items),
		CurrentPage: result.Page.Number,
		TotalPages:  result.TotalPages(),
		TotalTasks:  result.Total,
		HasMore:     result.HasMore(),
	})
}

// Search handles GET /tasks/search?title=.
func (h *TasksHandler) Search(c *fiber.Ctx) error {
	views, err := h.tasks.Search(c.UserContext(), c.Query("title"))
	if err != nil {
		return err
	}
	return c.JSON(taskResponses(views))
}

// Get handles GET /users/:userId/tasks/:taskId.
func (h *TasksHandler) Get(c *fiber.Ctx) error {
	view, err := h.tasks.Get(c.UserContext(), c.Params("userId"), c.Params("taskId"))
	if err != nil {
		return err
	}
	return c.JSON(taskResponse(*view))
}

// Create handles POST /users/:userId/tasks.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if err := auth.RequireActor(c, userID); err != nil {
		return err
	}
	var req dto.CreateTaskRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	view, err := h.tasks.Create(c.UserContext(), userID, service.TaskCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate.Ptr(),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TaskMutationResponse{
		Message: "Task created successfully",
		Task:    taskResponse(*view),
	})
}

// Update handles PUT /users/:userId/tasks/:taskId.
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if err := auth.RequireActor(c, userID); err != nil {
		return err
	}
	var req dto.UpdateTaskRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	view, err := h.tasks.Update(c.UserContext(), userID, c.Params("taskId"), service.TaskUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate.Ptr(),
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.TaskMutationResponse{
		Message: "Task updated successfully",
		Task:    taskResponse(*view),
	})
}

// Delete handles DELETE /users/:userId/tasks/:taskId.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if err := auth.RequireActor(c, userID); err != nil {
		return err
	}
	taskID, err := h.tasks.Delete(c.UserContext(), userID, c.Params("taskId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.DeleteResponse{Message: "Task successfully deleted", TaskID: taskID})
}
