package core

import "context"

// UserStorage defines user-related database operations
type UserStorage interface {
	CreateUser(ctx context.Context, u *User) error

	GetUserByKey(ctx context.Context, key string) (*User, error)

	UpdateUser(ctx context.Context, u *User) error
}

// TaskStorage defines task-related database operations.
// Every lookup is scoped to the owning user.
type TaskStorage interface {
	CreateTask(ctx context.Context, t *Task) error

	// Query methods
	GetTask(ctx context.Context, userID string, id int64) (*Task, error)
	ListTasks(ctx context.Context, userID string) ([]*Task, error) // newest first

	UpdateTask(ctx context.Context, t *Task) error

	DeleteTask(ctx context.Context, userID string, id int64) error
}

type Storage interface {
	UserStorage
	TaskStorage

	// Migrate creates the schema if it does not exist yet
	Migrate(ctx context.Context) error
	Close() error
}
