package constants

// Session and gin context keys
const (
	SessionCookieName   = "tactache_session"
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyActor     = "actor"
	ContextKeyTask      = "task"
	ContextKeyRequestID = "request_id"
	HeaderRequestID     = "X-Request-ID"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Date layouts used on the wire.
const (
	// DateTimeLocalLayout matches the value of an HTML datetime-local input.
	DateTimeLocalLayout = "2006-01-02T15:04"
	CalendarLayout      = "2006-01-02T15:04:05"
	DisplayLayout       = "2006-01-02 15:04"
	ExportDateLayout    = "02/01/2006"
)
