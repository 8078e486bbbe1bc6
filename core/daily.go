package core

import (
	"fmt"
	"time"
)

// Grade refines Outcome for the daily score
type Grade string

const (
	GradeHigh    Grade = "success-high"
	GradeMild    Grade = "success-mild"
	GradeNeutral Grade = "neutral"
	GradeFail    Grade = "fail"
)

// Outcome returns the result tag the grade belongs to
func (g Grade) Outcome() Outcome {
	switch g {
	case GradeHigh, GradeMild:
		return OutcomeSuccess
	case GradeNeutral:
		return OutcomeNeutral
	default:
		return OutcomeFail
	}
}

type DayStats struct {
	Done    int `json:"done"`
	Pending int `json:"pending"`
	Score   int `json:"score"`
}

// DayAnalysis is the result of the plain daily score
type DayAnalysis struct {
	Result Outcome  `json:"result"`
	Grade  Grade    `json:"grade"`
	Text   string   `json:"text"`
	Stats  DayStats `json:"stats"`
}

// AnalyzeDay scores the tasks created on now's UTC date as done minus not done.
func AnalyzeDay(tasks []*Task, now time.Time) DayAnalysis {
	done, open := splitDone(createdOn(tasks, utcDay(now)))
	score := len(done) - len(open)

	var grade Grade
	var text string
	switch {
	case score >= 3:
		grade = GradeHigh
		text = fmt.Sprintf("🎉 Great job! %d tasks done today. You are a productivity machine!", len(done))
	case score >= 1:
		grade = GradeMild
		text = fmt.Sprintf("✅ Good! %d tasks done. Keep it up!", len(done))
	case score == 0:
		grade = GradeNeutral
		text = fmt.Sprintf("⚖️ Not bad. You finished %d tasks and postponed %d. Tomorrow will be better!", len(done), len(open))
	default:
		grade = GradeFail
		text = fmt.Sprintf("💀 Hmm... %d tasks done, but %d still open. Don't be a noob, start small!", len(done), len(open))
	}

	return DayAnalysis{
		Result: grade.Outcome(),
		Grade:  grade,
		Text:   text,
		Stats:  DayStats{Done: len(done), Pending: len(open), Score: score},
	}
}

const (
	recommendQuickTask = "Try adding a 2-minute quick task."
	recommendDecompose = " Tasks too hard? Break them down with /decompose."
)

type EnhancedStats struct {
	Completed              int     `json:"completed"`
	Pending                int     `json:"pending"`
	Total                  int     `json:"total"`
	CompletionPercent      float64 `json:"completion_ratio"`
	AvgDifficulty          float64 `json:"avg_difficulty"`
	AvgCompletedDifficulty float64 `json:"avg_completed_difficulty"`
}

// EnhancedAnalysis is the ratio driven daily analysis with a recommendation.
// Stats is nil when there were no tasks today.
type EnhancedAnalysis struct {
	Result         Outcome        `json:"result"`
	Text           string         `json:"text"`
	Recommendation string         `json:"recommendation"`
	Emoji          string         `json:"emoji"`
	Stats          *EnhancedStats `json:"stats,omitempty"`
}

// AnalyzeDayEnhanced grades today by completion ratio instead of raw score
// and appends decomposition advice when the day was both hard and unfinished.
func AnalyzeDayEnhanced(tasks []*Task, now time.Time) EnhancedAnalysis {
	today := createdOn(tasks, utcDay(now))
	if len(today) == 0 {
		return EnhancedAnalysis{
			Result:         OutcomeNeutral,
			Text:           "📝 No tasks today yet. Start with a small step!",
			Recommendation: recommendQuickTask,
			Emoji:          "🤔",
		}
	}

	done, open := splitDone(today)
	ratio := float64(len(done)) / float64(len(today))
	avg := float64(sumDifficulty(today)) / float64(len(today))
	avgDone := 0.0
	if len(done) > 0 {
		avgDone = float64(sumDifficulty(done)) / float64(len(done))
	}

	a := EnhancedAnalysis{}
	switch {
	case ratio >= 0.8:
		a.Result, a.Emoji = OutcomeSuccess, "🎉"
		a.Text = fmt.Sprintf("Excellent! %d of %d tasks done!", len(done), len(today))
		a.Recommendation = "You're on top today! Take on something harder."
	case ratio >= 0.5:
		a.Result, a.Emoji = OutcomeSuccess, "👍"
		a.Text = fmt.Sprintf("Good! %d of %d tasks done.", len(done), len(today))
		a.Recommendation = "Keep going! You're close to an excellent result."
	case ratio > 0:
		a.Result, a.Emoji = OutcomeNeutral, "💪"
		a.Text = fmt.Sprintf("Not bad, but you can do better. %d of %d done.", len(done), len(today))
		a.Recommendation = "Focus on one task at a time. Try a Pomodoro timer!"
	default:
		a.Result, a.Emoji = OutcomeFail, "💀"
		a.Text = fmt.Sprintf("Hey, rookie! 0 of %d tasks done. Pull yourself together!", len(today))
		a.Recommendation = "Start with the easiest task. Even 2 minutes of work is progress!"
	}

	if avg > 3 && ratio < 0.5 {
		a.Recommendation += recommendDecompose
	}

	a.Stats = &EnhancedStats{
		Completed:              len(done),
		Pending:                len(open),
		Total:                  len(today),
		CompletionPercent:      round(ratio*100, 0),
		AvgDifficulty:          round(avg, 1),
		AvgCompletedDifficulty: round(avgDone, 1),
	}
	return a
}

// TodaySummary counts the tasks created on now's UTC date
type TodaySummary struct {
	CompletedToday int `json:"completed_today"`
	PendingToday   int `json:"pending_today"`
	TotalToday     int `json:"total_today"`
}

func TodayStats(tasks []*Task, now time.Time) TodaySummary {
	done, open := splitDone(createdOn(tasks, utcDay(now)))
	return TodaySummary{
		CompletedToday: len(done),
		PendingToday:   len(open),
		TotalToday:     len(done) + len(open),
	}
}

type DailyVerdict struct {
	Message    string `json:"message"`
	Emoji      string `json:"emoji"`
	IsPositive bool   `json:"is_positive"`
}

// DailyReport backs the web app's daily card
type DailyReport struct {
	TodaySummary
	Analysis DailyVerdict `json:"analysis"`
}

// DailyStats compares done against pending tasks for today.
// Twice as many done as pending is the top verdict.
func DailyStats(tasks []*Task, now time.Time) DailyReport {
	s := TodayStats(tasks, now)
	done, pending := s.CompletedToday, s.PendingToday

	var v DailyVerdict
	switch {
	case done == 0 && pending == 0:
		v = DailyVerdict{Message: "No tasks today yet. Start with something small!", Emoji: "🤔"}
	case done >= pending*2:
		v = DailyVerdict{Message: "Great work! You are a productivity machine today!", Emoji: "🎉", IsPositive: true}
	case done > pending:
		v = DailyVerdict{Message: "Good day! Keep it up!", Emoji: "👍", IsPositive: true}
	default:
		v = DailyVerdict{Message: "Hey, rookie! More open tasks than finished ones. Pull yourself together!", Emoji: "💀"}
	}

	return DailyReport{TodaySummary: s, Analysis: v}
}
