package core

import "time"

// TaskStatus is the lifecycle tag of a task
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusDone      TaskStatus = "done"
	StatusQuick     TaskStatus = "quick"
	StatusScheduled TaskStatus = "scheduled"
)

// Valid reports whether s is one of the known statuses
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusDone, StatusQuick, StatusScheduled:
		return true
	}
	return false
}

// QuickTaskMaxMinutes is the "two-minute rule" threshold
const QuickTaskMaxMinutes = 2

// User represents one logical account
//
// Key is the canonical account key shared by both front doors
type User struct {
	ID        string    `json:"id"`
	Key       string    `json:"external_id"`
	Name      string    `json:"name"`
	Energy    int       `json:"energy"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	DefaultEnergy = 50
	DefaultLevel  = 1
)

// Task is a single item on a user's list
type Task struct {
	ID               int64      `json:"id"`
	UserID           string     `json:"-"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Difficulty       int        `json:"difficulty"`
	Status           TaskStatus `json:"status"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// IsDone reports whether the task counts as completed
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// completionDay is the UTC calendar day a done task counts towards.
// Tasks completed before CompletedAt was tracked fall back to CreatedAt.
func (t *Task) completionDay() time.Time {
	if t.CompletedAt != nil {
		return utcDay(*t.CompletedAt)
	}
	return utcDay(t.CreatedAt)
}

// TaskInput contains the data needed to create a task
type TaskInput struct {
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	Difficulty       int    `json:"difficulty"`
}

// TaskUpdate carries optional task changes; nil fields are left untouched
type TaskUpdate struct {
	Title            *string     `json:"title,omitempty"`
	EstimatedMinutes *int        `json:"estimated_minutes,omitempty"`
	Difficulty       *int        `json:"difficulty,omitempty"`
	Status           *TaskStatus `json:"status,omitempty"`
}

// ProfileUpdate carries optional profile changes; nil fields are left untouched
type ProfileUpdate struct {
	Name   *string `json:"name,omitempty"`
	Energy *int    `json:"energy,omitempty"`
	Level  *int    `json:"level,omitempty"`
}

// MessengerProfile is the user data the MAX client hands to the web app
type MessengerProfile struct {
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
}

// Profile is the user record enriched with task counters
type Profile struct {
	Key            string    `json:"user_id"`
	Name           string    `json:"name"`
	Energy         int       `json:"energy"`
	Level          int       `json:"level"`
	TotalTasks     int       `json:"total_tasks"`
	CompletedTasks int       `json:"completed_tasks"`
	CompletionRate float64   `json:"completion_rate"`
	CreatedAt      time.Time `json:"created_at"`
}
