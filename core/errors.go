package core

import "errors"

// Lookup errors
var (
	ErrUserNotFound = errors.New("user not found") // 404 Not Found
	ErrTaskNotFound = errors.New("task not found") // 404 Not Found
	ErrUserExists   = errors.New("user already exists")
)

// Validation errors (client input)
var (
	ErrTitleRequired     = errors.New("task title is required")       // 400
	ErrInvalidTaskID     = errors.New("invalid task id")              // 400
	ErrInvalidStatus     = errors.New("invalid task status")          // 400
	ErrInvalidDifficulty = errors.New("difficulty must be at least 1") // 400
	ErrExternalIDMissing = errors.New("external_id is required")      // 400
	ErrUsernameRequired  = errors.New("username is required")         // 400
)

// Admin errors
var (
	ErrMissingAuthHeader = errors.New("missing authorization header") // 401
	ErrInvalidToken      = errors.New("invalid admin token")          // 401
	ErrAdminDisabled     = errors.New("admin endpoints are disabled") // 403
)

// Notification errors
var (
	ErrChatUnknown = errors.New("no active chat for account")
)

// Config errors (server-side configuration)
var (
	ErrStorageRequired     = errors.New("storage adapter is required") // 500
	ErrHTTPAdapterRequired = errors.New("http adapter is required")    // 500
)
