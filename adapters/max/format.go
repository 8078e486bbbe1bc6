package max

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lborres/taskpulse"
	"github.com/lborres/taskpulse/core"
)

// maxCompleteButtons caps the task buttons on the complete keyboard
const maxCompleteButtons = 8

// buttonTitleRunes is how much of a title fits on a button
const buttonTitleRunes = 15

func MainKeyboard() Keyboard {
	return Keyboard{
		{callbackButton("📝 Add task", "add_task"), callbackButton("📋 Task list", "list_tasks")},
		{callbackButton("✅ Complete task", "complete_task"), callbackButton("💫 Motivation", "motivation")},
		{callbackButton("🔍 Break down task", "decompose_task"), callbackButton("📊 Day analysis", "analyze_day")},
	}
}

func AddTaskKeyboard() Keyboard {
	return Keyboard{
		{callbackButton("📚 Study", "add_study"), callbackButton("💼 Work", "add_work")},
		{callbackButton("🏠 Home", "add_home"), callbackButton("🎯 Personal", "add_personal")},
		{callbackButton("⬅️ Back", "back_main")},
	}
}

// CompleteKeyboard lists up to eight tasks, one per row, then a back button
func CompleteKeyboard(tasks []*taskpulse.Task) Keyboard {
	kb := Keyboard{}
	for _, t := range tasks[:min(len(tasks), maxCompleteButtons)] {
		label := "✅ " + truncate(t.Title, buttonTitleRunes)
		kb = append(kb, []Button{callbackButton(label, completePrefix+strconv.FormatInt(t.ID, 10))})
	}
	return append(kb, []Button{callbackButton("⬅️ Back", "back_main")})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func statusIcon(s taskpulse.TaskStatus) string {
	switch s {
	case core.StatusDone:
		return "✅"
	case core.StatusPending:
		return "⏳"
	case core.StatusQuick:
		return "⚡"
	default:
		return "📅"
	}
}

// taskInfo renders the "(⏱30m ⚡2)" suffix; empty when there is nothing to say
func taskInfo(estimate, difficulty int) string {
	var parts []string
	if estimate > 0 {
		parts = append(parts, fmt.Sprintf("⏱%dm", estimate))
	}
	if difficulty > 1 {
		parts = append(parts, fmt.Sprintf("⚡%d", difficulty))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, " ") + ")"
}

// FormatTaskList renders tasks as the chat task list
func FormatTaskList(tasks []*taskpulse.Task) string {
	if len(tasks) == 0 {
		return "📝 Task list is empty."
	}

	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, fmt.Sprintf("%s `%02d` %s%s", statusIcon(t.Status), t.ID, t.Title, taskInfo(t.EstimatedMinutes, t.Difficulty)))
	}
	return "📋 **Your tasks:**\n\n" + strings.Join(lines, "\n")
}

var (
	estimateArg   = regexp.MustCompile(`est\s*=\s*(\d+)`)
	difficultyArg = regexp.MustCompile(`difficulty\s*=\s*(\d+)`)
)

// ParseAddArgs splits "/add" arguments into a task input. est=N and
// difficulty=N may appear anywhere; the rest is the title.
func ParseAddArgs(args string) taskpulse.TaskInput {
	in := taskpulse.TaskInput{Difficulty: 1}

	if m := estimateArg.FindStringSubmatch(args); m != nil {
		in.EstimatedMinutes, _ = strconv.Atoi(m[1])
		args = estimateArg.ReplaceAllString(args, "")
	}
	if m := difficultyArg.FindStringSubmatch(args); m != nil {
		in.Difficulty, _ = strconv.Atoi(m[1])
		args = difficultyArg.ReplaceAllString(args, "")
	}

	in.Title = strings.Join(strings.Fields(args), " ")
	return in
}

// splitCommand turns "/add@bot buy milk" into ("add", "buy milk").
// ok is false for text that is not a command.
func splitCommand(text string) (cmd, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	cmd, args, _ = strings.Cut(text[1:], " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd), strings.TrimSpace(args), true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

const helpText = "🤖 **Task bot**\n\n" +
	"💡 *Commands:*\n" +
	"`/start` - sign up\n" +
	"`/add [task]` - add a task\n" +
	"`/list_tasks` - task list\n" +
	"`/complete [id]` - complete a task\n" +
	"`/motivation` - motivation\n" +
	"`/decompose [text/id]` - break a task down\n" +
	"`/analyze` - day analysis\n" +
	"`/stats` - productivity temperature\n\n" +
	"🌐 *Tasks are synced with the web app*\n\n" +
	"Choose an action:"

const addExample = "💡 *Example:*\n`/add do homework est=30 difficulty=2`"
