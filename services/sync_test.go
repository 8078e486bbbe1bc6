package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/lborres/taskpulse/core"
)

type seed struct {
	title  string
	status core.TaskStatus
}

func seedUser(t *testing.T, storage *FakeStorage, service *TaskService, key string, tasks ...seed) {
	t.Helper()
	if _, err := service.GetOrCreateUser(context.Background(), key, ""); err != nil {
		t.Fatal(err)
	}
	for _, s := range tasks {
		storage.SeedTask(key, &core.Task{Title: s.title, Status: s.status, Difficulty: 1, CreatedAt: fixedNow})
	}
}

// pairs returns the sorted (title, status) pairs of an account
func pairs(t *testing.T, service *TaskService, key string) []string {
	t.Helper()
	tasks, err := service.ListTasks(context.Background(), key)
	if err != nil {
		t.Fatal(err)
	}
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title+"|"+string(task.Status))
	}
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Requirement: SyncTasks copies only the (title, status) pairs the target lacks.
func TestTaskService_SyncTasks(t *testing.T) {
	tests := []struct {
		name       string
		source     []seed
		target     []seed
		wantCopied int
		wantTarget []string
	}{
		{
			name:       "copies missing tasks",
			source:     []seed{{"read", core.StatusPending}, {"gym", core.StatusDone}},
			target:     []seed{{"read", core.StatusPending}},
			wantCopied: 1,
			wantTarget: []string{"gym|done", "read|pending"},
		},
		{
			name:       "same title with another status is a different task",
			source:     []seed{{"read", core.StatusDone}},
			target:     []seed{{"read", core.StatusPending}},
			wantCopied: 1,
			wantTarget: []string{"read|done", "read|pending"},
		},
		{
			name:       "duplicates in the source collapse to one copy",
			source:     []seed{{"water", core.StatusQuick}, {"water", core.StatusQuick}},
			wantCopied: 1,
			wantTarget: []string{"water|quick"},
		},
		{
			name:       "empty source copies nothing",
			target:     []seed{{"read", core.StatusPending}},
			wantCopied: 0,
			wantTarget: []string{"read|pending"},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			storage := NewFakeStorage()
			service := newTestService(storage)
			seedUser(t, storage, service, "max_1", test.source...)
			seedUser(t, storage, service, "user_ann", test.target...)

			// Act
			copied, err := service.SyncTasks(context.Background(), "1", "user_ann")

			// Assert
			if err != nil {
				t.Fatalf("SyncTasks() error = %v", err)
			}
			if copied != test.wantCopied {
				t.Errorf("copied = %d, want %d", copied, test.wantCopied)
			}
			if got := pairs(t, service, "user_ann"); !equalStrings(got, test.wantTarget) {
				t.Errorf("target = %v, want %v", got, test.wantTarget)
			}
		})
	}
}

// Requirement: running the same sync twice changes nothing the second time.
func TestTaskService_SyncTasks_Idempotent(t *testing.T) {
	storage := NewFakeStorage()
	service := newTestService(storage)
	seedUser(t, storage, service, "max_1", seed{"a", core.StatusPending}, seed{"b", core.StatusDone})
	seedUser(t, storage, service, "user_x", seed{"c", core.StatusPending})
	ctx := context.Background()

	if _, err := service.SyncTasks(ctx, "max_1", "user_x"); err != nil {
		t.Fatal(err)
	}
	before := pairs(t, service, "user_x")

	copied, err := service.SyncTasks(ctx, "max_1", "user_x")
	if err != nil {
		t.Fatal(err)
	}
	if copied != 0 {
		t.Errorf("second sync copied %d tasks, want 0", copied)
	}
	if after := pairs(t, service, "user_x"); !equalStrings(before, after) {
		t.Errorf("second sync changed target: %v -> %v", before, after)
	}
}

// Requirement: a two-way reconciliation leaves both accounts with the same
// set of (title, status) pairs regardless of direction order.
func TestTaskService_SyncTasks_BothWaysConverge(t *testing.T) {
	run := func(first, second [2]string) ([]string, []string) {
		storage := NewFakeStorage()
		service := newTestService(storage)
		seedUser(t, storage, service, "max_1", seed{"a", core.StatusPending}, seed{"b", core.StatusDone})
		seedUser(t, storage, service, "user_x", seed{"b", core.StatusPending}, seed{"c", core.StatusQuick})
		ctx := context.Background()
		if _, err := service.SyncTasks(ctx, first[0], first[1]); err != nil {
			t.Fatal(err)
		}
		if _, err := service.SyncTasks(ctx, second[0], second[1]); err != nil {
			t.Fatal(err)
		}
		return pairs(t, service, "max_1"), pairs(t, service, "user_x")
	}

	chatA, webA := run([2]string{"max_1", "user_x"}, [2]string{"user_x", "max_1"})
	chatB, webB := run([2]string{"user_x", "max_1"}, [2]string{"max_1", "user_x"})

	want := []string{"a|pending", "b|done", "b|pending", "c|quick"}
	for _, got := range [][]string{chatA, webA, chatB, webB} {
		if !equalStrings(got, want) {
			t.Errorf("pairs = %v, want %v", got, want)
		}
	}
}

func TestTaskService_SyncTasks_Errors(t *testing.T) {
	storage := NewFakeStorage()
	service := newTestService(storage)
	seedUser(t, storage, service, "max_1", seed{"ok", core.StatusPending}, seed{"broken", core.StatusPending})
	seedUser(t, storage, service, "user_x")
	ctx := context.Background()

	if _, err := service.SyncTasks(ctx, "max_404", "user_x"); !errors.Is(err, core.ErrUserNotFound) {
		t.Errorf("unknown source error = %v, want ErrUserNotFound", err)
	}
	if _, err := service.SyncTasks(ctx, "max_1", "user_nobody"); !errors.Is(err, core.ErrUserNotFound) {
		t.Errorf("unknown target error = %v, want ErrUserNotFound", err)
	}

	insertErr := errors.New("insert failed")
	storage.FailTaskTitle("broken", insertErr)

	copied, err := service.SyncTasks(ctx, "max_1", "user_x")
	if !errors.Is(err, insertErr) {
		t.Fatalf("SyncTasks() error = %v, want wrapped insert error", err)
	}
	if copied != 1 {
		t.Errorf("copied = %d, want 1 (the failed copy must not undo the other)", copied)
	}
	if got := pairs(t, service, "user_x"); !equalStrings(got, []string{"ok|pending"}) {
		t.Errorf("target = %v, want [ok|pending]", got)
	}
}

// Requirement: EnsureUserSync always returns the web key and merges only
// when both accounts exist.
func TestTaskService_EnsureUserSync(t *testing.T) {
	tests := []struct {
		name      string
		chatID    string
		username  string
		setup     func(*testing.T, *FakeStorage, *TaskService)
		wantKey   string
		wantErr   error
		wantChat  []string
		wantWeb   []string
		checkSync bool
	}{
		{
			name:     "missing chat id",
			chatID:   "",
			username: "ann",
			wantErr:  core.ErrExternalIDMissing,
		},
		{
			name:     "missing username",
			chatID:   "1",
			username: "",
			wantErr:  core.ErrUsernameRequired,
		},
		{
			name:     "no accounts yet only derives the key",
			chatID:   "1",
			username: "Ann Lee",
			wantKey:  "user_ann_lee",
		},
		{
			name:     "both accounts exist and get merged",
			chatID:   "1",
			username: "Ann",
			setup: func(t *testing.T, s *FakeStorage, svc *TaskService) {
				seedUser(t, s, svc, "max_1", seed{"chat task", core.StatusPending})
				seedUser(t, s, svc, "user_ann", seed{"web task", core.StatusDone})
			},
			wantKey:   "user_ann",
			wantChat:  []string{"chat task|pending", "web task|done"},
			wantWeb:   []string{"chat task|pending", "web task|done"},
			checkSync: true,
		},
		{
			name:     "only the chat account exists",
			chatID:   "1",
			username: "ann",
			setup: func(t *testing.T, s *FakeStorage, svc *TaskService) {
				seedUser(t, s, svc, "max_1", seed{"chat task", core.StatusPending})
			},
			wantKey:   "user_ann",
			wantChat:  []string{"chat task|pending"},
			wantWeb:   []string{},
			checkSync: true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			storage := NewFakeStorage()
			service := newTestService(storage)
			if test.setup != nil {
				test.setup(t, storage, service)
			}

			// Act
			key, err := service.EnsureUserSync(context.Background(), test.chatID, test.username)

			// Assert
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("EnsureUserSync() error = %v, want %v", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("EnsureUserSync() error = %v", err)
			}
			if key != test.wantKey {
				t.Errorf("key = %q, want %q", key, test.wantKey)
			}
			if !test.checkSync {
				return
			}
			if got := pairs(t, service, "max_"+test.chatID); !equalStrings(got, test.wantChat) {
				t.Errorf("chat tasks = %v, want %v", got, test.wantChat)
			}
			if got := pairs(t, service, test.wantKey); !equalStrings(got, test.wantWeb) {
				t.Errorf("web tasks = %v, want %v", got, test.wantWeb)
			}
		})
	}
}

type recordingNotifier struct {
	keys []string
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, key, _ string) error {
	n.keys = append(n.keys, key)
	return n.err
}

// Requirement: the chat account hears about tasks copied into it; nothing is
// sent when nothing was copied, and notifier failures never fail the sync.
func TestTaskService_SyncNotifications(t *testing.T) {
	notifier := &recordingNotifier{err: core.ErrChatUnknown}
	storage := NewFakeStorage()
	service := NewTaskService(storage, nil,
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithNotifier(notifier),
	)
	seedUser(t, storage, service, "max_1", seed{"chat", core.StatusPending})
	seedUser(t, storage, service, "user_ann", seed{"web", core.StatusPending})
	ctx := context.Background()

	if _, err := service.EnsureUserSync(ctx, "1", "ann"); err != nil {
		t.Fatalf("EnsureUserSync() error = %v", err)
	}
	if len(notifier.keys) != 1 || notifier.keys[0] != "max_1" {
		t.Fatalf("notified %v, want [max_1]", notifier.keys)
	}

	if _, err := service.SyncTasks(ctx, "user_ann", "max_1"); err != nil {
		t.Fatalf("SyncTasks() error = %v", err)
	}
	if len(notifier.keys) != 1 {
		t.Errorf("empty sync should not notify, got %v", notifier.keys)
	}
}
