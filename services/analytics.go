package services

import (
	"context"

	"github.com/lborres/taskpulse/core"
)

// Analyze runs the plain daily score, creating the account on first contact
func (s *TaskService) Analyze(ctx context.Context, key string) (*core.DayAnalysis, error) {
	u, err := s.GetOrCreateUser(ctx, key, "")
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasksOf(ctx, u)
	if err != nil {
		return nil, err
	}
	a := core.AnalyzeDay(tasks, s.clock())
	return &a, nil
}

func (s *TaskService) AnalyzeEnhanced(ctx context.Context, key string) (*core.EnhancedAnalysis, error) {
	tasks, err := s.ListTasks(ctx, key)
	if err != nil {
		return nil, err
	}
	a := core.AnalyzeDayEnhanced(tasks, s.clock())
	return &a, nil
}

func (s *TaskService) Productivity(ctx context.Context, key string) (*core.ProductivityReport, error) {
	tasks, err := s.ListTasks(ctx, key)
	if err != nil {
		return nil, err
	}
	r := core.Temperature(tasks, s.clock())
	return &r, nil
}

// Stats requires an existing account
func (s *TaskService) Stats(ctx context.Context, key string) (*core.UserSummary, error) {
	u, err := s.lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasksOf(ctx, u)
	if err != nil {
		return nil, err
	}
	summary := core.UserStats(u, tasks)
	return &summary, nil
}

// TodayStats requires an existing account
func (s *TaskService) TodayStats(ctx context.Context, key string) (*core.TodaySummary, error) {
	u, err := s.lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasksOf(ctx, u)
	if err != nil {
		return nil, err
	}
	summary := core.TodayStats(tasks, s.clock())
	return &summary, nil
}

func (s *TaskService) DailyStats(ctx context.Context, key string) (*core.DailyReport, error) {
	tasks, err := s.ListTasks(ctx, key)
	if err != nil {
		return nil, err
	}
	r := core.DailyStats(tasks, s.clock())
	return &r, nil
}

func (s *TaskService) Decompose(title string) []string {
	return core.Decompose(title)
}

func (s *TaskService) Motivation() string {
	return s.quotes.Random()
}
