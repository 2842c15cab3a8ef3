package middleware

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tactache/tactache-api/internal/constants"
	apierrors "github.com/tactache/tactache-api/internal/errors"
	"github.com/tactache/tactache-api/internal/models"
	"github.com/tactache/tactache-api/internal/services"
)

// RequireTaskAccess loads the task named by :id and checks the actor may
// view it. Must run after RequireAuth.
func RequireTaskAccess(taskService *services.TaskService, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, ok := ParseTaskID(c)
		if !ok {
			c.Abort()
			return
		}

		actor, exists := GetActor(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		task, err := taskService.GetTask(c.Request.Context(), actor, taskID)
		if err != nil {
			apierrors.RespondWithServiceError(c, log, err)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, *task)
		c.Next()
	}
}

// GetTask retrieves the task loaded by RequireTaskAccess
func GetTask(c *gin.Context) (models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return models.Task{}, false
	}
	task, ok := value.(models.Task)
	return task, ok
}

// ParseTaskID reads the :id path parameter and answers 400 when it is not
// a positive integer.
func ParseTaskID(c *gin.Context) (uint64, bool) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || taskID == 0 {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, false
	}
	return taskID, true
}
