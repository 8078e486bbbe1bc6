package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/lborres/taskpulse/core"
)

// FakeStorage is a test-only fake implementing core.Storage.
// It keeps users and tasks in maps and exposes error fields for behavior injection.
type FakeStorage struct {
	mu     sync.RWMutex
	users  map[string]*core.User // by key
	tasks  map[int64]*core.Task
	nextID int64

	createUserErr error
	getUserErr    error
	createTaskErr error
	listTasksErr  error
	updateTaskErr error

	// failTitles makes CreateTask fail for the given titles only
	failTitles map[string]error
}

var _ core.Storage = (*FakeStorage)(nil)

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		users:      make(map[string]*core.User),
		tasks:      make(map[int64]*core.Task),
		failTitles: make(map[string]error),
	}
}

func copyUser(u *core.User) *core.User {
	c := *u
	c.ID = strings.Clone(u.ID)
	c.Key = strings.Clone(u.Key)
	c.Name = strings.Clone(u.Name)
	return &c
}

func copyTask(t *core.Task) *core.Task {
	c := *t
	c.UserID = strings.Clone(t.UserID)
	c.Title = strings.Clone(t.Title)
	c.Description = strings.Clone(t.Description)
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}

// UserStorage implementation
func (f *FakeStorage) CreateUser(_ context.Context, u *core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createUserErr != nil {
		return f.createUserErr
	}
	if _, exists := f.users[u.Key]; exists {
		return core.ErrUserExists
	}
	stored := copyUser(u)
	f.users[stored.Key] = stored
	return nil
}

func (f *FakeStorage) GetUserByKey(_ context.Context, key string) (*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	if u, ok := f.users[key]; ok {
		return copyUser(u), nil
	}
	return nil, core.ErrUserNotFound
}

func (f *FakeStorage) UpdateUser(_ context.Context, u *core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[u.Key]; !exists {
		return core.ErrUserNotFound
	}
	stored := copyUser(u)
	f.users[stored.Key] = stored
	return nil
}

// TaskStorage implementation
func (f *FakeStorage) CreateTask(_ context.Context, t *core.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createTaskErr != nil {
		return f.createTaskErr
	}
	if err, ok := f.failTitles[t.Title]; ok {
		return err
	}
	f.nextID++
	t.ID = f.nextID
	f.tasks[t.ID] = copyTask(t)
	return nil
}

func (f *FakeStorage) GetTask(_ context.Context, userID string, id int64) (*core.Task, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.tasks[id]
	if !ok || t.UserID != userID {
		return nil, core.ErrTaskNotFound
	}
	return copyTask(t), nil
}

func (f *FakeStorage) ListTasks(_ context.Context, userID string) ([]*core.Task, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.listTasksErr != nil {
		return nil, f.listTasksErr
	}
	var out []*core.Task
	for _, t := range f.tasks {
		if t.UserID == userID {
			out = append(out, copyTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *FakeStorage) UpdateTask(_ context.Context, t *core.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateTaskErr != nil {
		return f.updateTaskErr
	}
	existing, ok := f.tasks[t.ID]
	if !ok || existing.UserID != t.UserID {
		return core.ErrTaskNotFound
	}
	f.tasks[t.ID] = copyTask(t)
	return nil
}

func (f *FakeStorage) DeleteTask(_ context.Context, userID string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok || t.UserID != userID {
		return core.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *FakeStorage) Migrate(context.Context) error { return nil }
func (f *FakeStorage) Close() error                  { return nil }

// Test helper methods
func (f *FakeStorage) SetCreateUserError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createUserErr = err
}

func (f *FakeStorage) SetGetUserError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getUserErr = err
}

func (f *FakeStorage) SetCreateTaskError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createTaskErr = err
}

func (f *FakeStorage) SetListTasksError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listTasksErr = err
}

func (f *FakeStorage) SetUpdateTaskError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateTaskErr = err
}

// FailTaskTitle makes CreateTask return err for tasks titled title
func (f *FakeStorage) FailTaskTitle(title string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failTitles[title] = err
}

// TaskCount returns the number of stored tasks across all users
func (f *FakeStorage) TaskCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.tasks)
}

// SeedTask stores a task for the user with key as-is, bypassing the service
// validation. The user must exist.
func (f *FakeStorage) SeedTask(key string, t *core.Task) *core.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[key]
	if !ok {
		panic("SeedTask: unknown user " + key)
	}
	f.nextID++
	t.ID = f.nextID
	t.UserID = u.ID
	f.tasks[t.ID] = copyTask(t)
	return t
}
