package dto

import (
	"time"

	"github.com/tactache/tactache-api/internal/constants"
	"github.com/tactache/tactache-api/internal/models"
	"github.com/tactache/tactache-api/internal/utils"
)

// CreateCommentRequest is the body of POST /api/tasks/:id/comments
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID        uint64   `json:"id"`
	TaskID    uint64   `json:"task_id"`
	Content   string   `json:"content"`
	CreatedAt string   `json:"created_at"`
	Author    *UserDTO `json:"author,omitempty"`
}

// CommentListResponse is one page of comments
type CommentListResponse struct {
	Comments   []CommentDTO             `json:"comments"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment, loc *time.Location) CommentDTO {
	created := comment.CreatedAt
	dto := CommentDTO{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		Content:   comment.Content,
		CreatedAt: utils.FormatDateTime(&created, constants.DisplayLayout, loc),
	}
	if comment.Author.ID != 0 {
		author := ToUserDTO(comment.Author)
		dto.Author = &author
	}
	return dto
}

// ToCommentListResponse converts a page of comments
func ToCommentListResponse(comments []models.Comment, params utils.PaginationParams, total int64, loc *time.Location) CommentListResponse {
	items := make([]CommentDTO, len(comments))
	for i, c := range comments {
		items[i] = ToCommentDTO(c, loc)
	}
	return CommentListResponse{
		Comments: items,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
