package taskpulse

import (
	"log/slog"

	"github.com/lborres/taskpulse/core"
	"github.com/lborres/taskpulse/services"
)

// interfaces
type (
	Storage     = core.Storage
	UserStorage = core.UserStorage
	TaskStorage = core.TaskStorage

	HTTPAdapter = core.HTTPAdapter

	TaskHandler   = core.TaskHandler
	TokenVerifier = core.TokenVerifier
	Notifier      = core.Notifier
)

// structs
type (
	App            = core.App
	Config         = core.Config
	RequestContext = core.RequestContext
	Endpoint       = core.Endpoint
)

type (
	User             = core.User
	Task             = core.Task
	TaskStatus       = core.TaskStatus
	TaskInput        = core.TaskInput
	TaskUpdate       = core.TaskUpdate
	ProfileUpdate    = core.ProfileUpdate
	MessengerProfile = core.MessengerProfile
	Quotes           = core.Quotes
)

// Constructors & helpers (convenience re-exports)
var (
	NewArgon2           = core.NewArgon2
	LoadQuotes          = core.LoadQuotes
	NormalizeAccountKey = core.NormalizeAccountKey
	WebAccountKey       = core.WebAccountKey
)

var (
	ErrUserNotFound = core.ErrUserNotFound
	ErrTaskNotFound = core.ErrTaskNotFound
	ErrUserExists   = core.ErrUserExists
)

var (
	ErrTitleRequired     = core.ErrTitleRequired
	ErrInvalidTaskID     = core.ErrInvalidTaskID
	ErrInvalidStatus     = core.ErrInvalidStatus
	ErrInvalidDifficulty = core.ErrInvalidDifficulty
	ErrExternalIDMissing = core.ErrExternalIDMissing
	ErrUsernameRequired  = core.ErrUsernameRequired
)

var (
	ErrMissingAuthHeader = core.ErrMissingAuthHeader
	ErrInvalidToken      = core.ErrInvalidToken
	ErrAdminDisabled     = core.ErrAdminDisabled
	ErrChatUnknown       = core.ErrChatUnknown
)

var (
	ErrStorageRequired     = core.ErrStorageRequired
	ErrHTTPAdapterRequired = core.ErrHTTPAdapterRequired
)

// New validates config, builds the task service and registers the HTTP routes
func New(config Config, opts ...services.Option) (*App, error) {
	if config.Storage == nil {
		return nil, ErrStorageRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	// Set Defaults

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	verifier := config.TokenVerifier
	if verifier == nil && config.AdminTokenHash != "" {
		verifier = core.NewArgon2()
	}

	base := []services.Option{services.WithLogger(logger)}
	if config.Notifier != nil {
		base = append(base, services.WithNotifier(config.Notifier))
	}

	app := &App{
		Tasks:          services.NewTaskService(config.Storage, config.Quotes, append(base, opts...)...),
		Logger:         logger,
		TokenVerifier:  verifier,
		AdminTokenHash: config.AdminTokenHash,
	}

	if err := config.HTTP.RegisterRoutes(app); err != nil {
		return nil, err
	}

	return app, nil
}
