package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-service/internal/api/dto"
	"github.com/spec-kit/task-service/internal/service"
)

// UsersHandler exposes user management and login endpoints.
type UsersHandler struct {
	users *service.UserService
	auth  *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService, authService *service.AuthService) *UsersHandler {
	return &UsersHandler{users: users, auth: authService}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	result, err := h.users.List(c.UserContext(), service.UserListFilter{
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
		Role:  c.Query("role"),
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.UserListResponse{
		Users:       userResponses(result.Items),
		CurrentPage: result.Page.Number,
		TotalPages:  result.TotalPages(),
		TotalUsers:  result.Total,
		HasMore:     result.HasMore(),
	})
}

// Search handles GET /users/search?userName=.
func (h *UsersHandler) Search(c *fiber.Ctx) error {
	users, err := h.users.Search(c.UserContext(), c.Query("userName"))
	if err != nil {
		return err
	}
	return c.JSON(userResponses(users))
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(userResponse(*user))
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	user, err := h.users.Create(c.UserContext(), service.UserCreateInput{
		Name:   req.UserName,
		Email:  req.Email,
		Role:   req.Role,
		Status: req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.UserMutationResponse{
		Message: "User created successfully",
		User:    userResponse(*user),
	})
}

// Update handles PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	user, err := h.users.Update(c.UserContext(), c.Params("id"), service.UserUpdateInput{
		Name:   req.UserName,
		Email:  req.Email,
		Role:   req.Role,
		Status: req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.UserMutationResponse{
		Message: "User updated successfully",
		User:    userResponse(*user),
	})
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.users.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.DeleteResponse{Message: "User successfully deleted"})
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	session, err := h.auth.LoginByEmail(c.UserContext(), strings.TrimSpace(req.Email))
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		User:      userResponse(session.User),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}
