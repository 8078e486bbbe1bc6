package core

import (
	"context"
)

// Ports define interfaces for external dependencies

// ============================================
// TASK HANDLER (for HTTP and chat adapters)
// ============================================

// TaskHandler is everything a front door can ask of the service layer.
// Every key argument is a raw identifier; implementations normalize it.
type TaskHandler interface {
	// Accounts
	GetOrCreateUser(ctx context.Context, key, name string) (*User, error)
	GetUser(ctx context.Context, key string) (*User, error)
	UpdateProfile(ctx context.Context, key string, in ProfileUpdate) (*User, error)
	SyncProfile(ctx context.Context, key string, p MessengerProfile) (*User, error)
	Profile(ctx context.Context, key string) (*Profile, error)

	// Tasks
	AddTask(ctx context.Context, key string, in TaskInput) (*Task, error)
	ListTasks(ctx context.Context, key string) ([]*Task, error)
	CompleteTask(ctx context.Context, key string, id int64) (*Task, error)
	UpdateTask(ctx context.Context, key string, id int64, in TaskUpdate) (*Task, error)
	DeleteTask(ctx context.Context, key string, id int64) error

	// Analytics
	Analyze(ctx context.Context, key string) (*DayAnalysis, error)
	AnalyzeEnhanced(ctx context.Context, key string) (*EnhancedAnalysis, error)
	Productivity(ctx context.Context, key string) (*ProductivityReport, error)
	Stats(ctx context.Context, key string) (*UserSummary, error)
	TodayStats(ctx context.Context, key string) (*TodaySummary, error)
	DailyStats(ctx context.Context, key string) (*DailyReport, error)
	Decompose(title string) []string
	Motivation() string

	// Reconciliation
	SyncTasks(ctx context.Context, sourceKey, targetKey string) (int, error)
	EnsureUserSync(ctx context.Context, chatID, username string) (string, error)
}

// ============================================
// NOTIFICATION PORT
// ============================================

// Notifier pushes a short message to the chat of an account, if the account
// has one. ErrChatUnknown means there is nowhere to send it.
type Notifier interface {
	Notify(ctx context.Context, key, text string) error
}

// ============================================
// ADMIN TOKEN PORT
// ============================================

// TokenVerifier checks a raw admin token against its stored hash
type TokenVerifier interface {
	Hash(token string) (string, error)
	Verify(token, hash string) (bool, error)
}

// ============================================
// HTTP PORT
// ============================================

type HTTPAdapter interface {
	RegisterRoutes(app *App) error
}
