package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// TaskStatuses lists the board columns in display order.
var TaskStatuses = []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}

// Valid reports whether s belongs to the enumerated status set.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Label returns the French column title shown on the board and in exports.
func (s TaskStatus) Label() string {
	switch s {
	case TaskStatusTodo:
		return "À Faire"
	case TaskStatusInProgress:
		return "En Cours"
	case TaskStatusDone:
		return "Terminé"
	}
	return string(s)
}

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	DueDate     *time.Time `json:"due_date"`
	CreatedBy   uint64     `gorm:"not null" json:"created_by"`
	AssignedTo  *uint64    `json:"assigned_to"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Creator  User      `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Assignee *User     `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	Comments []Comment `gorm:"foreignKey:TaskID" json:"-"`
}

// IsAssignedTo reports whether userID is the task's assignee.
func (t *Task) IsAssignedTo(userID uint64) bool {
	return t.AssignedTo != nil && *t.AssignedTo == userID
}
