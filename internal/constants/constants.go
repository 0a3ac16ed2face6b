package constants

// Session
const (
	SessionCookieName  = "todo_session"
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"

	// SessionMaxAge is the session cookie lifetime in seconds (24 hours).
	SessionMaxAge = 24 * 60 * 60
)

// Validation limits
const (
	MinPasswordLength    = 6
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)
