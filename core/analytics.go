package core

import (
	"math"
	"time"
)

// Outcome is the coarse result tag shown to users
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeNeutral Outcome = "neutral"
	OutcomeFail    Outcome = "fail"
)

func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createdOn(tasks []*Task, day time.Time) []*Task {
	var out []*Task
	for _, t := range tasks {
		if utcDay(t.CreatedAt).Equal(day) {
			out = append(out, t)
		}
	}
	return out
}

func splitDone(tasks []*Task) (done, open []*Task) {
	for _, t := range tasks {
		if t.IsDone() {
			done = append(done, t)
		} else {
			open = append(open, t)
		}
	}
	return done, open
}

func sumDifficulty(tasks []*Task) int {
	sum := 0
	for _, t := range tasks {
		sum += t.Difficulty
	}
	return sum
}

// round rounds half to even at the given number of decimal places
func round(x float64, places int) float64 {
	p := math.Pow10(places)
	return math.RoundToEven(x*p) / p
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
