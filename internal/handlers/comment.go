package handlers

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tactache/tactache-api/internal/dto"
	apierrors "github.com/tactache/tactache-api/internal/errors"
	"github.com/tactache/tactache-api/internal/middleware"
	"github.com/tactache/tactache-api/internal/services"
	"github.com/tactache/tactache-api/internal/utils"
)

type CommentHandler struct {
	commentService *services.CommentService
	log            *slog.Logger
	loc            *time.Location
}

func NewCommentHandler(commentService *services.CommentService, log *slog.Logger, loc *time.Location) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		log:            log,
		loc:            loc,
	}
}

// ListComments returns one page of a task's comments, oldest first
func (h *CommentHandler) ListComments(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := middleware.ParseTaskID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	comments, total, err := h.commentService.ListComments(c.Request.Context(), actor, taskID, params)
	if err != nil {
		apierrors.RespondWithServiceError(c, h.log, err)
		return
	}

	apierrors.Success(c, dto.ToCommentListResponse(comments, params, total, h.loc))
}

// AddComment posts a comment on a task
func (h *CommentHandler) AddComment(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	taskID, ok := middleware.ParseTaskID(c)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.AddComment(c.Request.Context(), actor, taskID, req.Content)
	if err != nil {
		apierrors.RespondWithServiceError(c, h.log, err)
		return
	}

	apierrors.Success(c, dto.ToCommentDTO(*comment, h.loc))
}
