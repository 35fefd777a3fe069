package worker

import (
	"github.com/spec-kit/task-service/internal/service"
)

// StartActivityWorker registers the activity feed handlers.
func StartActivityWorker(activityService *service.ActivityService) {
	if activityService == nil {
		return
	}
	activityService.RegisterHandlers()
}
