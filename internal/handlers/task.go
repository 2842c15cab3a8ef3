package handlers

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tactache/tactache-api/internal/dto"
	apierrors "github.com/tactache/tactache-api/internal/errors"
	"github.com/tactache/tactache-api/internal/middleware"
	"github.com/tactache/tactache-api/internal/policy"
	"github.com/tactache/tactache-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
	log         *slog.Logger
	loc         *time.Location
}

func NewTaskHandler(taskService *services.TaskService, log *slog.Logger, loc *time.Location) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		log:         log,
		loc:         loc,
	}
}

// ListTasks returns the board: visible tasks grouped by status
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	board, err := h.taskService.ListByStatus(c.Request.Context(), actor)
	if err != nil {
		apierrors.RespondWithServiceError(c, h.log, err)
		return
	}

	apierrors.Success(c, dto.ToBoardDTO(board, h.loc))
}

// GetTask returns the task loaded by RequireTaskAccess
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	apierrors.Success(c, dto.ToTaskDTO(task, h.loc))
}

// CreateTask creates a new task owned by the current user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), actor, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	})
	if err != nil {
		apierrors.RespondWithServiceError(c, h.log, err)
		return
	}

	apierrors.Success(c, dto.ToTaskDTO(*task, h.loc))
}

// UpdateTask replaces every editable field of a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	taskID, ok := middleware.ParseTaskID(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), actor, taskID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		apierrors.RespondWithServiceError(c, h.log, err)
		return
	}

	apierrors.Success(c, dto.ToTaskDTO(*task, h.loc))
}

// RescheduleTask moves a task to another date from the calendar
func (h *TaskHandler) RescheduleTask(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	taskID, ok := middleware.ParseTaskID(c)
	if !ok {
		return
	}

	var req dto.RescheduleTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.RescheduleTask(c.Request.Context(), actor, taskID, req.NewDate)
	if err != nil {
		apierrors.RespondWithServiceError(c, h.log, err)
		return
	}

	apierrors.Success(c, dto.ToTaskDTO(*task, h.loc))
}

// DeleteTask deletes a task and its comments
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	taskID, ok := middleware.ParseTaskID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), actor, taskID); err != nil {
		apierrors.RespondWithServiceError(c, h.log, err)
		return
	}

	h.log.InfoContext(c.Request.Context(), "task deleted",
		slog.Uint64("task_id", taskID),
		slog.Uint64("user_id", actor.ID),
	)
	apierrors.Success(c, nil)
}

// Calendar returns dated tasks as calendar events
func (h *TaskHandler) Calendar(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	events, err := h.taskService.CalendarEvents(c.Request.Context(), actor)
	if err != nil {
		apierrors.RespondWithServiceError(c, h.log, err)
		return
	}

	apierrors.Success(c, dto.ToCalendarEventDTOs(events, h.loc))
}

func (h *TaskHandler) actor(c *gin.Context) (policy.Actor, bool) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return policy.Actor{}, false
	}
	return actor, true
}
