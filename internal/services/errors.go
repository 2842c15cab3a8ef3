package services

import (
	"errors"
)

// Kind classifies a service error for the HTTP boundary.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindNotFound           Kind = "not_found"
	KindPermissionDenied   Kind = "permission_denied"
	KindConflict           Kind = "conflict"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindStorage            Kind = "storage"
)

// Error is a business outcome returned by the services. Sentinels below are
// compared with errors.Is; storage failures wrap the driver error.
type Error struct {
	Kind Kind
	Msg  string
	// Refresh hints that the client's view of the task is stale.
	Refresh bool
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Msg + ": " + e.cause.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func storageError(op string, err error) error {
	return &Error{Kind: KindStorage, Msg: "failed to " + op, cause: err}
}

// KindOf returns the kind of a service error, or KindStorage for anything else.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindStorage
}

var (
	ErrTitleRequired    = newError(KindValidation, "title is required")
	ErrInvalidStatus    = newError(KindValidation, "status must be one of todo, in_progress, done")
	ErrInvalidDueDate   = newError(KindValidation, "due date is not a valid date")
	ErrDueDateRequired  = newError(KindValidation, "due date is required")
	ErrTaskIDRequired   = newError(KindValidation, "task id is required")
	ErrCommentRequired  = newError(KindValidation, "comment content is required")
	ErrTaskNotFound     = newError(KindNotFound, "task not found")
	ErrAssigneeNotFound = newError(KindNotFound, "assigned user not found")

	ErrViewDenied    = &Error{Kind: KindPermissionDenied, Msg: "you are not allowed to view this task", Refresh: true}
	ErrModifyDenied  = &Error{Kind: KindPermissionDenied, Msg: "only the creator, the assignee or a manager may modify this task", Refresh: true}
	ErrTaskCompleted = &Error{Kind: KindPermissionDenied, Msg: "completed tasks can no longer be modified", Refresh: true}
	ErrDeleteDenied  = newError(KindPermissionDenied, "only the creator or a manager may delete this task")
	ErrAssignDenied  = newError(KindPermissionDenied, "only a manager may assign a task to another user")
)
