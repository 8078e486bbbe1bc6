package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lborres/taskpulse/core"
)

// Requirement: Analyze scores today's tasks and creates the account on first use.
func TestTaskService_Analyze(t *testing.T) {
	storage := NewFakeStorage()
	service := newTestService(storage)
	ctx := context.Background()

	a, err := service.Analyze(ctx, "31")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if a.Result != core.OutcomeNeutral || a.Stats.Score != 0 {
		t.Errorf("Analyze() empty day = %+v", a)
	}
	if _, err := service.GetUser(ctx, "max_31"); err != nil {
		t.Errorf("Analyze() should create the account: %v", err)
	}

	storage.SeedTask("max_31", &core.Task{Title: "a", Status: core.StatusDone, Difficulty: 1, CreatedAt: fixedNow})
	storage.SeedTask("max_31", &core.Task{Title: "b", Status: core.StatusDone, Difficulty: 1, CreatedAt: fixedNow})
	// yesterday's open task does not count
	storage.SeedTask("max_31", &core.Task{Title: "c", Status: core.StatusPending, Difficulty: 1, CreatedAt: fixedNow.Add(-24 * time.Hour)})

	a, err = service.Analyze(ctx, "31")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if a.Grade != core.GradeMild || a.Stats.Done != 2 || a.Stats.Pending != 0 {
		t.Errorf("Analyze() = %+v", a)
	}
}

func TestTaskService_AnalyzeEnhanced(t *testing.T) {
	storage := NewFakeStorage()
	service := newTestService(storage)
	ctx := context.Background()

	a, err := service.AnalyzeEnhanced(ctx, "unknown")
	if err != nil {
		t.Fatalf("AnalyzeEnhanced() error = %v", err)
	}
	if a.Stats != nil || a.Result != core.OutcomeNeutral {
		t.Errorf("AnalyzeEnhanced() without tasks = %+v", a)
	}
}

// Requirement: Stats and TodayStats need an existing account; the
// productivity report works for anyone.
func TestTaskService_StatsRequireAccount(t *testing.T) {
	storage := NewFakeStorage()
	service := newTestService(storage)
	ctx := context.Background()

	if _, err := service.Stats(ctx, "ghost"); !errors.Is(err, core.ErrUserNotFound) {
		t.Errorf("Stats() error = %v, want ErrUserNotFound", err)
	}
	if _, err := service.TodayStats(ctx, "ghost"); !errors.Is(err, core.ErrUserNotFound) {
		t.Errorf("TodayStats() error = %v, want ErrUserNotFound", err)
	}
	r, err := service.Productivity(ctx, "ghost")
	if err != nil {
		t.Fatalf("Productivity() error = %v", err)
	}
	if r.ProductivityScore != 0 || r.Temperature != 1 {
		t.Errorf("Productivity() empty = %+v", r)
	}
	d, err := service.DailyStats(ctx, "ghost")
	if err != nil {
		t.Fatalf("DailyStats() error = %v", err)
	}
	if d.TotalToday != 0 || d.Analysis.IsPositive {
		t.Errorf("DailyStats() empty = %+v", d)
	}
}

func TestTaskService_Stats(t *testing.T) {
	storage := NewFakeStorage()
	service := newTestService(storage)
	ctx := context.Background()
	seedUser(t, storage, service, "user_kim")
	storage.SeedTask("user_kim", &core.Task{Title: "a", Status: core.StatusDone, Difficulty: 5, CreatedAt: fixedNow})
	storage.SeedTask("user_kim", &core.Task{Title: "b", Status: core.StatusPending, Difficulty: 3, CreatedAt: fixedNow})
	storage.SeedTask("user_kim", &core.Task{Title: "c", Status: core.StatusPending, Difficulty: 1, CreatedAt: fixedNow})

	s, err := service.Stats(ctx, "user_kim")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if s.TotalTasks != 3 || s.CompletedTasks != 1 || s.PendingTasks != 2 {
		t.Errorf("Stats() counters = %+v", s)
	}
	if s.CompletionRate != 33.3 {
		t.Errorf("CompletionRate = %v, want 33.3", s.CompletionRate)
	}
	if s.DifficultyStats != (core.DifficultyBuckets{High: 1, Medium: 1, Low: 1}) {
		t.Errorf("DifficultyStats = %+v", s.DifficultyStats)
	}

	today, err := service.TodayStats(ctx, "user_kim")
	if err != nil {
		t.Fatalf("TodayStats() error = %v", err)
	}
	if today.TotalToday != 3 || today.CompletedToday != 1 {
		t.Errorf("TodayStats() = %+v", today)
	}
}

func TestTaskService_MotivationAndDecompose(t *testing.T) {
	quotes, err := core.ParseQuotes([]byte("quotes:\n  - only one\n"))
	if err != nil {
		t.Fatal(err)
	}
	service := NewTaskService(NewFakeStorage(), quotes)

	if got := service.Motivation(); got != "only one" {
		t.Errorf("Motivation() = %q, want %q", got, "only one")
	}
	if steps := service.Decompose("buy milk and walk dog"); len(steps) != 2 {
		t.Errorf("Decompose() = %v, want 2 steps", steps)
	}
}
