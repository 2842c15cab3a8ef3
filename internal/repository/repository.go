package repository

import (
	"context"
	"time"

	"github.com/tactache/tactache-api/internal/models"
	"github.com/tactache/tactache-api/internal/utils"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// FindByIDForUpdate reads a task and locks its row until the surrounding
	// transaction ends. Backends without row locks read it plainly.
	FindByIDForUpdate(ctx context.Context, id uint64) (*models.Task, error)

	// List retrieves tasks ordered by due date (undated last), then id
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Update writes every mutable column of a task
	Update(ctx context.Context, task *models.Task) error

	// UpdateDueDate changes only the due date of a task
	UpdateDueDate(ctx context.Context, id uint64, dueDate *time.Time) error

	// Delete removes a task and its comments
	Delete(ctx context.Context, id uint64) error

	// UserExists reports whether a user with the given ID exists
	UserExists(ctx context.Context, userID uint64) (bool, error)

	// WithinTransaction runs fn with a repository bound to one transaction.
	// Returning an error rolls the transaction back.
	WithinTransaction(ctx context.Context, fn func(repo TaskRepository) error) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	// InvolvedUserID limits results to tasks the user created or is assigned to
	InvolvedUserID *uint64
	Status         *models.TaskStatus
	// OnlyDated drops tasks without a due date
	OnlyDated bool
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(ctx context.Context, comment *models.Comment) error

	// FindByID finds a comment by ID with its author
	FindByID(ctx context.Context, id uint64) (*models.Comment, error)

	// ListByTask lists the comments of a task, oldest first
	ListByTask(ctx context.Context, taskID uint64, params utils.PaginationParams) ([]models.Comment, int64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByIdentifier finds a user by username or email
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)

	// ExistsByUsernameOrEmail reports whether either value is already taken
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)

	// List returns every user ordered by username
	List(ctx context.Context) ([]models.User, error)
}
