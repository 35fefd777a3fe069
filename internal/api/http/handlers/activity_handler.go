package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-service/internal/api/dto"
	"github.com/spec-kit/task-service/internal/service"
)

// ActivityHandler serves the recent-activity feed.
type ActivityHandler struct {
	activity *service.ActivityService
}

// NewActivityHandler constructs handler.
func NewActivityHandler(activity *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// Recent handles GET /activity?limit=.
func (h *ActivityHandler) Recent(c *fiber.Ctx) error {
	entries, err := h.activity.Recent(c.UserContext(), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	return c.JSON(dto.ActivityListResponse{Activities: activityResponses(entries)})
}
