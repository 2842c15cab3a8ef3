package repository

import (
	"context"

	"github.com/tactache/tactache-api/internal/database"
	"github.com/tactache/tactache-api/internal/models"
	"github.com/tactache/tactache-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

// FindByID finds a comment by ID with its author
func (r *GormCommentRepository) FindByID(ctx context.Context, id uint64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByTask lists the comments of a task with pagination
func (r *GormCommentRepository) ListByTask(ctx context.Context, taskID uint64, params utils.PaginationParams) ([]models.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Comment{}).Where("comments.task_id = ?", taskID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	comments := []models.Comment{}
	if err := query.
		Order("comments.created_at ASC, comments.id ASC").
		Scopes(database.Paginate(params)).
		Preload("Author").
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}
