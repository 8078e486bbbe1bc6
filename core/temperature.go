package core

import (
	"sort"
	"time"
)

// TemperatureLevel classifies the difficulty-weighted completion ratio, 1 to 5
type TemperatureLevel int

type temperatureBand struct {
	min   int
	level TemperatureLevel
	label string
	emoji string
}

// bands are ordered hottest first
var bands = []temperatureBand{
	{min: 80, level: 5, label: "Hot perfectionist", emoji: "🔥"},
	{min: 60, level: 4, label: "Warm professional", emoji: "😎"},
	{min: 40, level: 3, label: "Steady worker", emoji: "😊"},
	{min: 20, level: 2, label: "Warming up", emoji: "🤔"},
	{min: 0, level: 1, label: "Cooled off", emoji: "❄️"},
}

// ProductivityReport backs the temperature map in the web app
type ProductivityReport struct {
	CompletedTasks    int              `json:"completed_tasks"`
	PendingTasks      int              `json:"pending_tasks"`
	TotalTasks        int              `json:"total_tasks"`
	CompletionRate    float64          `json:"completion_rate"`
	ProductivityScore int              `json:"productivity_score"`
	Temperature       TemperatureLevel `json:"temperature"`
	TemperatureLabel  string           `json:"temperature_label"`
	TemperatureEmoji  string           `json:"temperature_emoji"`
	Streak            int              `json:"streak"`
}

// ProductivityScore is the share of difficulty points earned by done tasks,
// as a rounded percentage. An empty history scores 0.
func ProductivityScore(tasks []*Task) int {
	done, _ := splitDone(tasks)
	total := sumDifficulty(tasks)
	if total < 1 {
		total = 1
	}
	return int(round(float64(sumDifficulty(done))/float64(total)*100, 0))
}

// Classify maps a productivity score to its temperature band
func Classify(score int) (TemperatureLevel, string, string) {
	for _, b := range bands {
		if score >= b.min {
			return b.level, b.label, b.emoji
		}
	}
	last := bands[len(bands)-1]
	return last.level, last.label, last.emoji
}

// Temperature computes the productivity report over the whole task history
func Temperature(tasks []*Task, now time.Time) ProductivityReport {
	done, open := splitDone(tasks)
	score := ProductivityScore(tasks)
	level, label, emoji := Classify(score)

	return ProductivityReport{
		CompletedTasks:    len(done),
		PendingTasks:      len(open),
		TotalTasks:        len(tasks),
		CompletionRate:    round(percent(len(done), len(tasks)), 0),
		ProductivityScore: score,
		Temperature:       level,
		TemperatureLabel:  label,
		TemperatureEmoji:  emoji,
		Streak:            Streak(tasks, now),
	}
}

// Streak counts consecutive UTC days, ending today, with at least one
// completed task. The first missing day stops the count.
func Streak(tasks []*Task, now time.Time) int {
	seen := make(map[time.Time]struct{})
	var days []time.Time
	for _, t := range tasks {
		if !t.IsDone() {
			continue
		}
		d := t.completionDay()
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today := utcDay(now)
	streak := 0
	for i, d := range days {
		if !d.Equal(today.AddDate(0, 0, -i)) {
			break
		}
		streak++
	}
	return streak
}

// DifficultyBuckets groups tasks by difficulty
type DifficultyBuckets struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// UserSummary is the full statistics card for one account
type UserSummary struct {
	Key             string            `json:"user_id"`
	Name            string            `json:"name"`
	Energy          int               `json:"energy"`
	Level           int               `json:"level"`
	TotalTasks      int               `json:"total_tasks"`
	CompletedTasks  int               `json:"completed_tasks"`
	PendingTasks    int               `json:"pending_tasks"`
	CompletionRate  float64           `json:"completion_rate"`
	DifficultyStats DifficultyBuckets `json:"difficulty_stats"`
}

// UserStats summarizes a user's whole history. Difficulty 4 and up is high,
// 3 is medium, 2 and below is low.
func UserStats(u *User, tasks []*Task) UserSummary {
	done, open := splitDone(tasks)

	var buckets DifficultyBuckets
	for _, t := range tasks {
		switch {
		case t.Difficulty >= 4:
			buckets.High++
		case t.Difficulty == 3:
			buckets.Medium++
		default:
			buckets.Low++
		}
	}

	return UserSummary{
		Key:             u.Key,
		Name:            u.Name,
		Energy:          u.Energy,
		Level:           u.Level,
		TotalTasks:      len(tasks),
		CompletedTasks:  len(done),
		PendingTasks:    len(open),
		CompletionRate:  round(percent(len(done), len(tasks)), 1),
		DifficultyStats: buckets,
	}
}

// NewProfile builds the profile card shown by the web app
func NewProfile(u *User, tasks []*Task) Profile {
	done, _ := splitDone(tasks)
	return Profile{
		Key:            u.Key,
		Name:           u.Name,
		Energy:         u.Energy,
		Level:          u.Level,
		TotalTasks:     len(tasks),
		CompletedTasks: len(done),
		CompletionRate: round(percent(len(done), len(tasks)), 1),
		CreatedAt:      u.CreatedAt,
	}
}
