package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tactache/tactache-api/internal/models"
	"github.com/tactache/tactache-api/internal/policy"
	"github.com/tactache/tactache-api/internal/repository"
	"github.com/tactache/tactache-api/internal/utils"
	"gorm.io/gorm"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	policy   policy.Policy
	loc      *time.Location
}

// NewTaskService creates a new TaskService. Due dates without an explicit
// offset are read in loc.
func NewTaskService(taskRepo repository.TaskRepository, pol policy.Policy, loc *time.Location) *TaskService {
	if loc == nil {
		loc = time.UTC
	}
	return &TaskService{
		taskRepo: taskRepo,
		policy:   pol,
		loc:      loc,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	AssignedTo  *uint64
	DueDate     string
}

// UpdateTaskInput is the complete new state of a task. Empty fields are
// written as empty, not left unchanged.
type UpdateTaskInput struct {
	Title       string
	Description string
	Status      string
	DueDate     string
	AssignedTo  *uint64
}

// CalendarEvent is a dated task placed on the calendar
type CalendarEvent struct {
	ID     uint64
	Title  string
	Start  time.Time
	AllDay bool
	Status models.TaskStatus
}

var taskRelations = []string{"Creator", "Assignee"}

// GetTask returns a task the actor may view
func (s *TaskService) GetTask(ctx context.Context, actor policy.Actor, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, taskRelations...)
	if err != nil {
		return nil, notFoundOr(err, "find task")
	}

	owner := policy.OwnershipOf(task)
	policy.MemoFrom(ctx).Remember(task.ID, owner)
	if !s.policy.CanView(actor, owner) {
		return nil, ErrViewDenied
	}

	return task, nil
}

// CreateTask validates input and creates a todo task owned by the actor
func (s *TaskService) CreateTask(ctx context.Context, actor policy.Actor, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	dueDate, err := utils.ParseDateTime(input.DueDate, s.loc)
	if err != nil {
		return nil, ErrInvalidDueDate
	}

	assignee := normalizeAssignee(input.AssignedTo)
	if !s.policy.CanAssign(actor, assignee) {
		return nil, ErrAssignDenied
	}

	task := &models.Task{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      models.TaskStatusTodo,
		DueDate:     dueDate,
		CreatedBy:   actor.ID,
		AssignedTo:  assignee,
	}

	err = s.taskRepo.WithinTransaction(ctx, func(repo repository.TaskRepository) error {
		if err := ensureUserExists(ctx, repo, assignee); err != nil {
			return err
		}
		if err := repo.Create(ctx, task); err != nil {
			return storageError("create task", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, task.ID)
}

// UpdateTask replaces every mutable field of a task
func (s *TaskService) UpdateTask(ctx context.Context, actor policy.Actor, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	err := s.taskRepo.WithinTransaction(ctx, func(repo repository.TaskRepository) error {
		task, err := s.lockForModify(ctx, repo, actor, taskID)
		if err != nil {
			return err
		}

		title := strings.TrimSpace(input.Title)
		if title == "" {
			return ErrTitleRequired
		}

		status := models.TaskStatus(strings.TrimSpace(input.Status))
		if status == "" {
			status = models.TaskStatusTodo
		}
		if !status.Valid() {
			return ErrInvalidStatus
		}

		dueDate, err := utils.ParseDateTime(input.DueDate, s.loc)
		if err != nil {
			return ErrInvalidDueDate
		}

		assignee := normalizeAssignee(input.AssignedTo)
		if !sameAssignee(task.AssignedTo, assignee) {
			if !s.policy.CanAssign(actor, assignee) {
				return ErrAssignDenied
			}
			if err := ensureUserExists(ctx, repo, assignee); err != nil {
				return err
			}
		}

		task.Title = title
		task.Description = strings.TrimSpace(input.Description)
		task.Status = status
		task.DueDate = dueDate
		task.AssignedTo = assignee

		if err := repo.Update(ctx, task); err != nil {
			return storageError("update task", err)
		}
		return nil
	})
	policy.MemoFrom(ctx).Forget(taskID)
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, taskID)
}

// RescheduleTask moves a task to a new due date, as done by dragging it on
// the calendar
func (s *TaskService) RescheduleTask(ctx context.Context, actor policy.Actor, taskID uint64, rawDueDate string) (*models.Task, error) {
	err := s.taskRepo.WithinTransaction(ctx, func(repo repository.TaskRepository) error {
		if _, err := s.lockForModify(ctx, repo, actor, taskID); err != nil {
			return err
		}

		if strings.TrimSpace(rawDueDate) == "" {
			return ErrDueDateRequired
		}
		dueDate, err := utils.ParseDateTime(rawDueDate, s.loc)
		if err != nil {
			return ErrInvalidDueDate
		}

		if err := repo.UpdateDueDate(ctx, taskID, dueDate); err != nil {
			return notFoundOr(err, "reschedule task")
		}
		return nil
	})
	policy.MemoFrom(ctx).Forget(taskID)
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, taskID)
}

// DeleteTask deletes a task and its comments
func (s *TaskService) DeleteTask(ctx context.Context, actor policy.Actor, taskID uint64) error {
	err := s.taskRepo.WithinTransaction(ctx, func(repo repository.TaskRepository) error {
		task, err := repo.FindByIDForUpdate(ctx, taskID)
		if err != nil {
			return notFoundOr(err, "find task")
		}

		if !s.policy.CanDelete(actor, policy.OwnershipOf(task)) {
			return ErrDeleteDenied
		}

		if err := repo.Delete(ctx, taskID); err != nil {
			return notFoundOr(err, "delete task")
		}
		return nil
	})
	policy.MemoFrom(ctx).Forget(taskID)
	return err
}

// ListByStatus groups the tasks visible to the actor into board columns.
// Every status has a key, possibly with an empty list.
func (s *TaskService) ListByStatus(ctx context.Context, actor policy.Actor) (map[models.TaskStatus][]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx, s.visibleTo(actor))
	if err != nil {
		return nil, storageError("list tasks", err)
	}

	board := make(map[models.TaskStatus][]models.Task, len(models.TaskStatuses))
	for _, status := range models.TaskStatuses {
		board[status] = []models.Task{}
	}
	for _, task := range tasks {
		board[task.Status] = append(board[task.Status], task)
	}

	return board, nil
}

// CalendarEvents returns the dated tasks visible to the actor
func (s *TaskService) CalendarEvents(ctx context.Context, actor policy.Actor) ([]CalendarEvent, error) {
	filter := s.visibleTo(actor)
	filter.OnlyDated = true

	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, storageError("list calendar tasks", err)
	}

	events := make([]CalendarEvent, 0, len(tasks))
	for _, task := range tasks {
		if task.DueDate == nil {
			continue
		}
		events = append(events, CalendarEvent{
			ID:     task.ID,
			Title:  task.Title,
			Start:  *task.DueDate,
			AllDay: true,
			Status: task.Status,
		})
	}

	return events, nil
}

// ExportTasks lists the tasks the actor created or is assigned to,
// optionally restricted to one status
func (s *TaskService) ExportTasks(ctx context.Context, actor policy.Actor, status string) ([]models.Task, error) {
	filter := repository.TaskFilter{InvolvedUserID: &actor.ID}

	if status = strings.TrimSpace(status); status != "" {
		st := models.TaskStatus(status)
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
		filter.Status = &st
	}

	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, storageError("list tasks for export", err)
	}
	return tasks, nil
}

func (s *TaskService) visibleTo(actor policy.Actor) repository.TaskFilter {
	if s.policy.ScopeToInvolved(actor) {
		return repository.TaskFilter{InvolvedUserID: &actor.ID}
	}
	return repository.TaskFilter{}
}

// lockForModify reads the task for update and checks the actor may modify it.
func (s *TaskService) lockForModify(ctx context.Context, repo repository.TaskRepository, actor policy.Actor, taskID uint64) (*models.Task, error) {
	task, err := repo.FindByIDForUpdate(ctx, taskID)
	if err != nil {
		return nil, notFoundOr(err, "find task")
	}

	owner := policy.OwnershipOf(task)
	if s.policy.Locked(owner) {
		return nil, ErrTaskCompleted
	}
	if !s.policy.CanModify(actor, owner) {
		return nil, ErrModifyDenied
	}
	return task, nil
}

func (s *TaskService) reload(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, taskRelations...)
	if err != nil {
		return nil, notFoundOr(err, "reload task")
	}
	return task, nil
}

// authorizeView checks view rights on a task, consulting the request memo
// before the store.
func authorizeView(ctx context.Context, repo repository.TaskRepository, pol policy.Policy, actor policy.Actor, taskID uint64) error {
	memo := policy.MemoFrom(ctx)
	owner, ok := memo.Lookup(taskID)
	if !ok {
		task, err := repo.FindByID(ctx, taskID)
		if err != nil {
			return notFoundOr(err, "find task")
		}
		owner = policy.OwnershipOf(task)
		memo.Remember(taskID, owner)
	}

	if !pol.CanView(actor, owner) {
		return ErrViewDenied
	}
	return nil
}

func ensureUserExists(ctx context.Context, repo repository.TaskRepository, userID *uint64) error {
	if userID == nil {
		return nil
	}
	exists, err := repo.UserExists(ctx, *userID)
	if err != nil {
		return storageError("check assignee", err)
	}
	if !exists {
		return ErrAssigneeNotFound
	}
	return nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTaskNotFound
	}
	return storageError(op, err)
}

// normalizeAssignee treats a zero id as unassigned.
func normalizeAssignee(id *uint64) *uint64 {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}

func sameAssignee(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
