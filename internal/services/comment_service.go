package services

import (
	"context"
	"strings"

	"github.com/tactache/tactache-api/internal/models"
	"github.com/tactache/tactache-api/internal/policy"
	"github.com/tactache/tactache-api/internal/repository"
	"github.com/tactache/tactache-api/internal/utils"
)

// CommentService handles comments on tasks
type CommentService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
	policy      policy.Policy
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, taskRepo repository.TaskRepository, pol policy.Policy) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
		policy:      pol,
	}
}

// AddComment appends a comment to a task the actor may view
func (s *CommentService) AddComment(ctx context.Context, actor policy.Actor, taskID uint64, content string) (*models.Comment, error) {
	if taskID == 0 {
		return nil, ErrTaskIDRequired
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrCommentRequired
	}

	if err := authorizeView(ctx, s.taskRepo, s.policy, actor, taskID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		TaskID:  taskID,
		UserID:  actor.ID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, storageError("create comment", err)
	}

	created, err := s.commentRepo.FindByID(ctx, comment.ID)
	if err != nil {
		return nil, storageError("reload comment", err)
	}
	return created, nil
}

// ListComments returns one page of a task's comments, oldest first
func (s *CommentService) ListComments(ctx context.Context, actor policy.Actor, taskID uint64, params utils.PaginationParams) ([]models.Comment, int64, error) {
	if taskID == 0 {
		return nil, 0, ErrTaskIDRequired
	}

	if err := authorizeView(ctx, s.taskRepo, s.policy, actor, taskID); err != nil {
		return nil, 0, err
	}

	comments, total, err := s.commentRepo.ListByTask(ctx, taskID, params)
	if err != nil {
		return nil, 0, storageError("list comments", err)
	}
	return comments, total, nil
}
