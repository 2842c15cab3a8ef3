// Package policy decides who may view, modify, delete and assign tasks.
//
// Every predicate is a pure function of the acting user and the ownership
// fields of a task. Deployment-specific behavior is carried by the Policy
// value instead of being hardcoded.
package policy

import (
	"fmt"

	"github.com/tactache/tactache-api/internal/models"
)

// Visibility controls which tasks an actor may read.
type Visibility string

const (
	// VisibilityAll lets every authenticated actor view every task.
	VisibilityAll Visibility = "all"
	// VisibilityInvolved restricts collaborators to tasks they created or are assigned to.
	VisibilityInvolved Visibility = "involved"
)

// ParseVisibility converts a configuration value to a Visibility.
func ParseVisibility(raw string) (Visibility, error) {
	switch v := Visibility(raw); v {
	case VisibilityAll, VisibilityInvolved:
		return v, nil
	case "":
		return VisibilityAll, nil
	default:
		return "", fmt.Errorf("unknown task visibility %q", raw)
	}
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   uint64
	Role models.Role
}

// IsManager reports whether the actor holds the manager role.
func (a Actor) IsManager() bool {
	return a.Role == models.RoleManager
}

// Ownership is the subset of a task the predicates depend on.
type Ownership struct {
	CreatedBy  uint64
	AssignedTo *uint64
	Status     models.TaskStatus
}

// OwnershipOf extracts the ownership fields of a task.
func OwnershipOf(task *models.Task) Ownership {
	return Ownership{
		CreatedBy:  task.CreatedBy,
		AssignedTo: task.AssignedTo,
		Status:     task.Status,
	}
}

func (o Ownership) isCreator(a Actor) bool {
	return o.CreatedBy == a.ID
}

func (o Ownership) isAssignee(a Actor) bool {
	return o.AssignedTo != nil && *o.AssignedTo == a.ID
}

// Policy is the permission strategy in effect for a deployment.
type Policy struct {
	Visibility Visibility
	// LockCompleted forbids modifying tasks whose status is done.
	LockCompleted bool
}

// Default returns the permissive policy: open visibility, completed tasks stay editable.
func Default() Policy {
	return Policy{Visibility: VisibilityAll}
}

// CanView reports whether the actor may read a task that exists.
func (p Policy) CanView(a Actor, o Ownership) bool {
	if p.Visibility != VisibilityInvolved {
		return true
	}
	return a.IsManager() || o.isCreator(a) || o.isAssignee(a)
}

// Locked reports whether the task is frozen by the completed-task rule.
func (p Policy) Locked(o Ownership) bool {
	return p.LockCompleted && o.Status == models.TaskStatusDone
}

// CanModify reports whether the actor may update the task.
func (p Policy) CanModify(a Actor, o Ownership) bool {
	if p.Locked(o) {
		return false
	}
	return a.IsManager() || o.isCreator(a) || o.isAssignee(a)
}

// CanDelete reports whether the actor may delete the task. Being the
// assignee is not enough.
func (p Policy) CanDelete(a Actor, o Ownership) bool {
	return a.IsManager() || o.isCreator(a)
}

// CanAssign reports whether the actor may set the assignee to target.
// A nil target unassigns the task.
func (p Policy) CanAssign(a Actor, target *uint64) bool {
	if target == nil || *target == a.ID {
		return true
	}
	return a.IsManager()
}

// ScopeToInvolved reports whether listings for the actor must be limited
// to tasks the actor created or is assigned to.
func (p Policy) ScopeToInvolved(a Actor) bool {
	return p.Visibility == VisibilityInvolved && !a.IsManager()
}
