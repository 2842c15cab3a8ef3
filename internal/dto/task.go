package dto

import (
	"time"

	"github.com/tactache/tactache-api/internal/constants"
	"github.com/tactache/tactache-api/internal/models"
	"github.com/tactache/tactache-api/internal/services"
	"github.com/tactache/tactache-api/internal/utils"
)

// CreateTaskRequest is the body of POST /api/tasks
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	AssignedTo  *uint64 `json:"assigned_to"`
	DueDate     string  `json:"due_date"`
}

// UpdateTaskRequest is the body of PUT /api/tasks/:id. Every field is
// written; omitted fields become empty.
type UpdateTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	AssignedTo  *uint64 `json:"assigned_to"`
	DueDate     string  `json:"due_date"`
}

// RescheduleTaskRequest is the body of PATCH /api/tasks/:id/due-date
type RescheduleTaskRequest struct {
	NewDate string `json:"new_date"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64      `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email,omitempty"`
	Role     models.Role `json:"role,omitempty"`
}

// TaskDTO represents a task in API responses. Dates use the
// datetime-local layout in the configured zone.
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	StatusLabel string            `json:"status_label"`
	DueDate     string            `json:"due_date"`
	CreatedBy   uint64            `json:"created_by"`
	AssignedTo  *uint64           `json:"assigned_to"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Creator     *UserDTO          `json:"creator,omitempty"`
	Assignee    *UserDTO          `json:"assignee,omitempty"`
}

// BoardDTO is the three-column board
type BoardDTO struct {
	Todo       []TaskDTO `json:"todo"`
	InProgress []TaskDTO `json:"in_progress"`
	Done       []TaskDTO `json:"done"`
}

// CalendarEventDTO is a task in the shape calendar widgets consume
type CalendarEventDTO struct {
	ID            uint64              `json:"id"`
	Title         string              `json:"title"`
	Start         string              `json:"start"`
	AllDay        bool                `json:"allDay"`
	ExtendedProps CalendarEventExtras `json:"extendedProps"`
}

// CalendarEventExtras carries fields outside the calendar event schema
type CalendarEventExtras struct {
	Status models.TaskStatus `json:"status"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO without contact details
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

// ToAccountDTO converts the authenticated user, including email and role
func ToAccountDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// ToUserDTOs converts users for the assignee picker
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task, loc *time.Location) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		StatusLabel: task.Status.Label(),
		DueDate:     utils.FormatDateTime(task.DueDate, constants.DateTimeLocalLayout, loc),
		CreatedBy:   task.CreatedBy,
		AssignedTo:  task.AssignedTo,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include creator if preloaded
	if task.Creator.ID != 0 {
		creator := ToUserDTO(task.Creator)
		dto.Creator = &creator
	}

	// Include assignee if preloaded
	if task.Assignee != nil && task.Assignee.ID != 0 {
		assignee := ToUserDTO(*task.Assignee)
		dto.Assignee = &assignee
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task, loc *time.Location) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		out[i] = ToTaskDTO(task, loc)
	}
	return out
}

// ToBoardDTO converts the grouped tasks; missing columns render as empty lists
func ToBoardDTO(board map[models.TaskStatus][]models.Task, loc *time.Location) BoardDTO {
	return BoardDTO{
		Todo:       ToTaskDTOs(board[models.TaskStatusTodo], loc),
		InProgress: ToTaskDTOs(board[models.TaskStatusInProgress], loc),
		Done:       ToTaskDTOs(board[models.TaskStatusDone], loc),
	}
}

// ToCalendarEventDTOs converts calendar events
func ToCalendarEventDTOs(events []services.CalendarEvent, loc *time.Location) []CalendarEventDTO {
	out := make([]CalendarEventDTO, len(events))
	for i, e := range events {
		start := e.Start
		out[i] = CalendarEventDTO{
			ID:            e.ID,
			Title:         e.Title,
			Start:         utils.FormatDateTime(&start, constants.CalendarLayout, loc),
			AllDay:        e.AllDay,
			ExtendedProps: CalendarEventExtras{Status: e.Status},
		}
	}
	return out
}
