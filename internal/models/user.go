package models

import (
	"time"
)

type Role string

const (
	RoleManager      Role = "manager"
	RoleCollaborator Role = "collaborator"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleManager || r == RoleCollaborator
}

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'collaborator'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	CreatedTasks  []Task    `gorm:"foreignKey:CreatedBy" json:"-"`
	AssignedTasks []Task    `gorm:"foreignKey:AssignedTo" json:"-"`
	Comments      []Comment `gorm:"foreignKey:UserID" json:"-"`
}
