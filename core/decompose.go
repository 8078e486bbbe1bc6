package core

import (
	"fmt"
	"strings"
)

const maxDecomposeSteps = 4

// conjunctions that separate sub-steps inside a title, matched with
// surrounding spaces so words like "candle" stay intact
var conjunctions = []string{" and ", " и "}

// Decompose turns a task title into step hints. It is a text aid, not a
// parser: the only guarantee is at least one non-empty hint.
func Decompose(title string) []string {
	normalized := title
	for _, c := range conjunctions {
		normalized = strings.ReplaceAll(normalized, c, ",")
	}

	var parts []string
	for _, p := range strings.Split(normalized, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	if len(parts) > 1 {
		if len(parts) > maxDecomposeSteps {
			parts = parts[:maxDecomposeSteps]
		}
		hints := make([]string, 0, len(parts))
		for i, p := range parts {
			hints = append(hints, fmt.Sprintf("Step %d: %s", i+1, p))
		}
		return hints
	}

	words := strings.Fields(title)
	if len(words) <= 3 {
		return []string{"Try to pick 2-3 concrete steps: preparation, action, verification."}
	}
	return []string{fmt.Sprintf("Break the task into steps: 1) %s 2) ...what comes next?", strings.Join(words[:2], " "))}
}
