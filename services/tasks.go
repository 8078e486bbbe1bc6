package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lborres/taskpulse/core"
)

type TaskService struct {
	db       core.Storage
	quotes   *core.Quotes
	logger   *slog.Logger
	notifier core.Notifier
	now      func() time.Time
}

// Ensure TaskService implements TaskHandler
var _ core.TaskHandler = (*TaskService)(nil)

type Option func(*TaskService)

// WithClock overrides the wall clock used for "today" and timestamps
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *TaskService) { s.logger = l }
}

// WithNotifier lets sync operations tell chat users about copied tasks
func WithNotifier(n core.Notifier) Option {
	return func(s *TaskService) { s.notifier = n }
}

func NewTaskService(db core.Storage, quotes *core.Quotes, opts ...Option) *TaskService {
	s := &TaskService{
		db:     db,
		quotes: quotes,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.quotes == nil {
		s.quotes = core.DefaultQuotes()
	}
	return s
}

func (s *TaskService) clock() time.Time {
	return s.now().UTC()
}

// lookup finds an existing account by raw key
func (s *TaskService) lookup(ctx context.Context, key string) (*core.User, error) {
	u, err := s.db.GetUserByKey(ctx, core.NormalizeAccountKey(key))
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return u, nil
}

// ============================================
// ACCOUNTS
// ============================================

// GetOrCreateUser returns the account for key, creating it on first contact.
// An existing account keeps its name.
func (s *TaskService) GetOrCreateUser(ctx context.Context, key, name string) (*core.User, error) {
	key = core.NormalizeAccountKey(key)

	u, err := s.db.GetUserByKey(ctx, key)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, core.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	now := s.clock()
	u = &core.User{
		ID:        uuid.NewString(),
		Key:       key,
		Name:      name,
		Energy:    core.DefaultEnergy,
		Level:     core.DefaultLevel,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.CreateUser(ctx, u); err != nil {
		// Another front door created it first
		if errors.Is(err, core.ErrUserExists) {
			return s.lookup(ctx, key)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", "key", key)
	return u, nil
}

func (s *TaskService) GetUser(ctx context.Context, key string) (*core.User, error) {
	return s.lookup(ctx, key)
}

func (s *TaskService) UpdateProfile(ctx context.Context, key string, in core.ProfileUpdate) (*core.User, error) {
	u, err := s.lookup(ctx, key)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Energy != nil {
		u.Energy = *in.Energy
	}
	if in.Level != nil {
		u.Level = *in.Level
	}
	u.UpdatedAt = s.clock()

	if err := s.db.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

const defaultMessengerName = "MAX user"

// SyncProfile copies the display name from messenger profile data.
// First and last name win over the username.
func (s *TaskService) SyncProfile(ctx context.Context, key string, p core.MessengerProfile) (*core.User, error) {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		name = p.Username
	}
	if name == "" {
		u, err := s.lookup(ctx, key)
		if err != nil {
			return nil, err
		}
		if u.Name != "" {
			return u, nil
		}
		name = defaultMessengerName
	}
	return s.UpdateProfile(ctx, key, core.ProfileUpdate{Name: &name})
}

func (s *TaskService) Profile(ctx context.Context, key string) (*core.Profile, error) {
	u, err := s.GetOrCreateUser(ctx, key, "")
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasksOf(ctx, u)
	if err != nil {
		return nil, err
	}
	p := core.NewProfile(u, tasks)
	return &p, nil
}

// ============================================
// TASKS
// ============================================

// AddTask creates a task, creating the account if needed. Tasks estimated at
// two minutes or less are tagged quick.
func (s *TaskService) AddTask(ctx context.Context, key string, in core.TaskInput) (*core.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, core.ErrTitleRequired
	}
	difficulty := in.Difficulty
	if difficulty == 0 {
		difficulty = 1
	}
	if difficulty < 1 {
		return nil, core.ErrInvalidDifficulty
	}
	estimate := max(in.EstimatedMinutes, 0)

	u, err := s.GetOrCreateUser(ctx, key, "")
	if err != nil {
		return nil, err
	}

	status := core.StatusPending
	if estimate > 0 && estimate <= core.QuickTaskMaxMinutes {
		status = core.StatusQuick
	}

	t := &core.Task{
		UserID:           u.ID,
		Title:            title,
		Description:      in.Description,
		Difficulty:       difficulty,
		Status:           status,
		EstimatedMinutes: estimate,
		CreatedAt:        s.clock(),
	}
	if err := s.db.CreateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return t, nil
}

// ListTasks returns the account's tasks newest first. Unknown accounts have none.
func (s *TaskService) ListTasks(ctx context.Context, key string) ([]*core.Task, error) {
	u, err := s.lookup(ctx, key)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return []*core.Task{}, nil
		}
		return nil, err
	}
	return s.tasksOf(ctx, u)
}

func (s *TaskService) tasksOf(ctx context.Context, u *core.User) ([]*core.Task, error) {
	tasks, err := s.db.ListTasks(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*core.Task{}
	}
	return tasks, nil
}

func (s *TaskService) CompleteTask(ctx context.Context, key string, id int64) (*core.Task, error) {
	done := core.StatusDone
	return s.UpdateTask(ctx, key, id, core.TaskUpdate{Status: &done})
}

func (s *TaskService) UpdateTask(ctx context.Context, key string, id int64, in core.TaskUpdate) (*core.Task, error) {
	if id <= 0 {
		return nil, core.ErrInvalidTaskID
	}
	u, err := s.lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	t, err := s.db.GetTask(ctx, u.ID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, core.ErrTitleRequired
		}
		t.Title = title
	}
	if in.EstimatedMinutes != nil {
		t.EstimatedMinutes = max(*in.EstimatedMinutes, 0)
	}
	if in.Difficulty != nil {
		if *in.Difficulty < 1 {
			return nil, core.ErrInvalidDifficulty
		}
		t.Difficulty = *in.Difficulty
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, core.ErrInvalidStatus
		}
		switch {
		case *in.Status == core.StatusDone && t.CompletedAt == nil:
			now := s.clock()
			t.CompletedAt = &now
		case *in.Status != core.StatusDone:
			t.CompletedAt = nil
		}
		t.Status = *in.Status
	}

	if err := s.db.UpdateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, key string, id int64) error {
	if id <= 0 {
		return core.ErrInvalidTaskID
	}
	u, err := s.lookup(ctx, key)
	if err != nil {
		return err
	}
	return s.db.DeleteTask(ctx, u.ID, id)
}
