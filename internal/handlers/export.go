package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/tactache/tactache-api/internal/errors"
	"github.com/tactache/tactache-api/internal/export"
	"github.com/tactache/tactache-api/internal/middleware"
	"github.com/tactache/tactache-api/internal/services"
)

// ExportHandler serves the PDF export of the current user's tasks.
type ExportHandler struct {
	taskService *services.TaskService
	authService *services.AuthService
	log         *slog.Logger
	loc         *time.Location
	now         func() time.Time
}

func NewExportHandler(taskService *services.TaskService, authService *services.AuthService, log *slog.Logger, loc *time.Location) *ExportHandler {
	return &ExportHandler{
		taskService: taskService,
		authService: authService,
		log:         log,
		loc:         loc,
		now:         time.Now,
	}
}

// ExportTasks renders the tasks the user created or is assigned to.
// ?status= narrows the export to one column.
func (h *ExportHandler) ExportTasks(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	ctx := c.Request.Context()

	tasks, err := h.taskService.ExportTasks(ctx, actor, c.Query("status"))
	if err != nil {
		apierrors.RespondWithServiceError(c, h.log, err)
		return
	}

	owner, err := h.authService.GetUser(ctx, actor.ID)
	if err != nil {
		apierrors.RespondWithServiceError(c, h.log, err)
		return
	}

	generatedAt := h.now()
	var buf bytes.Buffer
	if err := export.Render(&buf, export.Input{
		Owner:       owner.Username,
		Tasks:       tasks,
		GeneratedAt: generatedAt,
		Loc:         h.loc,
	}); err != nil {
		h.log.ErrorContext(ctx, "failed to render export", slog.Any("error", err))
		apierrors.InternalError(c, "")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(generatedAt.In(h.loc))+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
