package max

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lborres/taskpulse"
	"github.com/lborres/taskpulse/core"
)

const completePrefix = "complete_"

const mainMenuText = "🏠 **Main menu**"

var categoryHints = map[string]string{
	"add_study": "📚 **Study tasks**\n\nWrite a study task:\n\n" +
		"💡 *Example:*\n`/add do math homework est=60 difficulty=2`",
	"add_work": "💼 **Work tasks**\n\nWrite a work task:\n\n" +
		"💡 *Example:*\n`/add prepare the report est=45 difficulty=3`",
	"add_home": "🏠 **Home tasks**\n\nWrite a home task:\n\n" +
		"💡 *Example:*\n`/add tidy up the room est=30 difficulty=1`",
	"add_personal": "🎯 **Personal tasks**\n\nWrite a personal task:\n\n" +
		"💡 *Example:*\n`/add go to the gym est=90 difficulty=2`",
}

// handleText dispatches a chat message. Anything that is not a known
// command gets the help text.
func (b *Bot) handleText(ctx context.Context, key, name, text string) reply {
	cmd, args, ok := splitCommand(text)
	if !ok {
		return reply{text: helpText, keyboard: MainKeyboard()}
	}

	switch cmd {
	case "start":
		return b.cmdStart(ctx, key, name)
	case "add":
		return b.cmdAdd(ctx, key, args)
	case "list_tasks":
		return b.cmdList(ctx, key)
	case "complete":
		return b.cmdComplete(ctx, key, args)
	case "motivation":
		return b.motivation()
	case "decompose":
		return b.cmdDecompose(ctx, key, args)
	case "analyze":
		return b.analyze(ctx, key)
	case "stats":
		return b.cmdStats(ctx, key)
	default:
		return reply{text: helpText, keyboard: MainKeyboard()}
	}
}

// handleCallback dispatches an inline button press
func (b *Bot) handleCallback(ctx context.Context, key, payload string) reply {
	switch payload {
	case "add_task":
		return reply{
			text:     "🎯 **Add a task**\n\nPick a category or type the task yourself:\n\n" + addExample,
			keyboard: AddTaskKeyboard(),
		}
	case "list_tasks":
		return b.cbList(ctx, key)
	case "complete_task":
		return b.cbCompletePicker(ctx, key)
	case "motivation":
		return b.motivation()
	case "decompose_task":
		return reply{
			text:     "🔍 **Break down a task**\n\nType the task to break down:\n\n💡 *Example:*\n`/decompose prepare the project report`",
			keyboard: MainKeyboard(),
		}
	case "analyze_day":
		return b.analyze(ctx, key)
	case "back_main":
		return reply{text: mainMenuText, keyboard: MainKeyboard()}
	}

	if hint, ok := categoryHints[payload]; ok {
		return reply{text: hint, keyboard: AddTaskKeyboard()}
	}
	if id, ok := strings.CutPrefix(payload, completePrefix); ok && isDigits(id) {
		return b.cbComplete(ctx, key, id)
	}

	b.logger.Warn("max unknown callback", "key", key, "payload", payload)
	return reply{text: mainMenuText, keyboard: MainKeyboard()}
}

// ============================================
// COMMANDS
// ============================================

func displayName(name string, u *taskpulse.User) string {
	if name != "" {
		return name
	}
	if u != nil && u.Name != "" {
		return u.Name
	}
	return "there"
}

// welcome greets a user who opened the bot for the first time
func (b *Bot) welcome(ctx context.Context, key, name string) reply {
	u, err := b.tasks.GetOrCreateUser(ctx, key, name)
	if err != nil {
		return b.fail(key, "welcome", err, "Could not register you, try /start again")
	}
	b.logger.Info("max user started bot", "key", key)

	return reply{
		text: fmt.Sprintf("🧠 **Hi, %s!**\n\n"+
			"I keep track of your tasks together with the web app.\n\n"+
			"💡 *Tasks created in the web app show up here and vice versa!*\n\n"+
			"Choose an action:", displayName(name, u)),
		keyboard: MainKeyboard(),
	}
}

func (b *Bot) cmdStart(ctx context.Context, key, name string) reply {
	u, err := b.tasks.GetOrCreateUser(ctx, key, name)
	if err != nil {
		return b.fail(key, "start", err, "Could not register you, try again")
	}
	b.logger.Info("max user restarted bot", "key", key)

	return reply{
		text: fmt.Sprintf("✅ **Welcome back, %s!**\n\n"+
			"Tasks are synced with the web app.\n\n"+
			"Choose an action:", displayName(name, u)),
		keyboard: MainKeyboard(),
	}
}

func (b *Bot) cmdAdd(ctx context.Context, key, args string) reply {
	in := ParseAddArgs(args)
	if in.Title == "" {
		return reply{text: "❌ **Put the task title after /add**\n\n" + addExample, keyboard: MainKeyboard()}
	}

	task, err := b.tasks.AddTask(ctx, key, in)
	if err != nil {
		return b.fail(key, "add task", err, "Failed to add the task")
	}
	tasks, err := b.tasks.ListTasks(ctx, key)
	if err != nil {
		return b.fail(key, "list tasks", err, "Task added, but the list is unavailable")
	}
	b.logger.Info("max task added", "key", key, "task_id", task.ID)

	list := FormatTaskList(tasks)
	if task.Status == core.StatusQuick {
		return reply{
			text:     fmt.Sprintf("⚡ **Quick task added!**\n\n\"%s\" (<=2 min)\n\n💡 *Do it right now!*\n\n%s", task.Title, list),
			keyboard: MainKeyboard(),
		}
	}
	return reply{
		text:     fmt.Sprintf("✅ **Task added**\n\n\"%s\"%s\n\n%s", task.Title, taskInfo(task.EstimatedMinutes, task.Difficulty), list),
		keyboard: MainKeyboard(),
	}
}

func (b *Bot) cmdList(ctx context.Context, key string) reply {
	tasks, err := b.tasks.ListTasks(ctx, key)
	if err != nil {
		return b.fail(key, "list tasks", err, "Failed to load the task list")
	}
	if len(tasks) == 0 {
		return reply{
			text: "📝 **Task list is empty**\n\n" +
				"Add tasks with:\n" +
				"• the '📝 Add task' button\n" +
				"• the `/add <task>` command\n" +
				"• the web app",
			keyboard: MainKeyboard(),
		}
	}
	return reply{text: FormatTaskList(tasks), keyboard: MainKeyboard()}
}

func (b *Bot) cmdComplete(ctx context.Context, key, args string) reply {
	if !isDigits(args) {
		return reply{
			text:     "❌ **Give the task ID**\n\n💡 *Example:*\n`/complete 1`\n\nSee IDs with `/list_tasks`",
			keyboard: MainKeyboard(),
		}
	}

	task, err := b.complete(ctx, key, args)
	if notFound(err) {
		return reply{text: "❌ **Task not found**\n\nCheck the ID with `/list_tasks`", keyboard: MainKeyboard()}
	}
	if err != nil {
		return b.fail(key, "complete task", err, "Failed to complete the task")
	}

	return reply{
		text:     fmt.Sprintf("✅ **Task completed!**\n\n'%s' ✅\n\n%s", task.Title, b.listOrEmpty(ctx, key)),
		keyboard: MainKeyboard(),
	}
}

func (b *Bot) motivation() reply {
	return reply{text: "💫 **Motivation:**\n\n" + b.tasks.Motivation(), keyboard: MainKeyboard()}
}

func (b *Bot) cmdDecompose(ctx context.Context, key, args string) reply {
	if args == "" {
		return reply{
			text:     "❌ **Name a task to break down**\n\n💡 *Example:*\n`/decompose prepare the project report`",
			keyboard: MainKeyboard(),
		}
	}

	title := args
	if isDigits(args) {
		id, _ := strconv.ParseInt(args, 10, 64)
		tasks, err := b.tasks.ListTasks(ctx, key)
		if err != nil {
			return b.fail(key, "list tasks", err, "Failed to break down the task")
		}
		title = ""
		for _, t := range tasks {
			if t.ID == id {
				title = t.Title
				break
			}
		}
		if title == "" {
			return reply{text: "❌ No task with that ID", keyboard: MainKeyboard()}
		}
	}

	hints := b.tasks.Decompose(title)
	return reply{
		text:     fmt.Sprintf("🔍 **Task breakdown:**\n'%s'\n\n%s", title, strings.Join(hints, "\n")),
		keyboard: MainKeyboard(),
	}
}

func (b *Bot) analyze(ctx context.Context, key string) reply {
	a, err := b.tasks.Analyze(ctx, key)
	if err != nil {
		return b.fail(key, "analyze", err, "Failed to analyze the day")
	}
	b.logger.Info("max day analysis", "key", key, "score", a.Stats.Score)
	return reply{text: "📊 **Day analysis:**\n\n" + a.Text, keyboard: MainKeyboard()}
}

func (b *Bot) cmdStats(ctx context.Context, key string) reply {
	r, err := b.tasks.Productivity(ctx, key)
	if err != nil {
		return b.fail(key, "stats", err, "Failed to load your stats")
	}
	return reply{
		text: fmt.Sprintf("%s **%s**\n\nProductivity: %d%%\nDone: %d of %d\nStreak: %d day(s)",
			r.TemperatureEmoji, r.TemperatureLabel, r.ProductivityScore, r.CompletedTasks, r.TotalTasks, r.Streak),
		keyboard: MainKeyboard(),
	}
}

// ============================================
// BUTTONS
// ============================================

func (b *Bot) cbList(ctx context.Context, key string) reply {
	tasks, err := b.tasks.ListTasks(ctx, key)
	if err != nil {
		return b.fail(key, "list tasks", err, "Failed to load the task list")
	}
	if len(tasks) == 0 {
		return reply{
			text:     "📝 Task list is empty.\n\nAdd tasks with the '📝 Add task' button or in the web app.",
			keyboard: MainKeyboard(),
		}
	}
	return reply{text: FormatTaskList(tasks), keyboard: MainKeyboard()}
}

func (b *Bot) cbCompletePicker(ctx context.Context, key string) reply {
	tasks, err := b.tasks.ListTasks(ctx, key)
	if err != nil {
		return b.fail(key, "list tasks", err, "Failed to load the task list")
	}

	var open []*taskpulse.Task
	for _, t := range tasks {
		if t.Status != core.StatusDone {
			open = append(open, t)
		}
	}
	if len(open) == 0 {
		return reply{text: "🎉 No active tasks to complete!\n\nEverything is done 🚀", keyboard: MainKeyboard()}
	}
	return reply{text: "✅ **Complete a task**\n\nPick the task to complete:", keyboard: CompleteKeyboard(open)}
}

func (b *Bot) cbComplete(ctx context.Context, key, id string) reply {
	task, err := b.complete(ctx, key, id)
	if notFound(err) {
		return reply{text: "❌ Task not found", keyboard: MainKeyboard()}
	}
	if err != nil {
		return b.fail(key, "complete task", err, "Failed to complete the task")
	}
	return reply{
		text:     fmt.Sprintf("✅ Task '%s' completed! 🎉\n\n%s", task.Title, b.listOrEmpty(ctx, key)),
		keyboard: MainKeyboard(),
	}
}

// complete marks the task with the decimal id done
func (b *Bot) complete(ctx context.Context, key, id string) (*taskpulse.Task, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, taskpulse.ErrTaskNotFound
	}
	task, err := b.tasks.CompleteTask(ctx, key, n)
	if err != nil {
		return nil, err
	}
	b.logger.Info("max task completed", "key", key, "task_id", task.ID)
	return task, nil
}

func (b *Bot) listOrEmpty(ctx context.Context, key string) string {
	tasks, err := b.tasks.ListTasks(ctx, key)
	if err != nil {
		b.logger.Error("max list tasks failed", "key", key, "error", err)
		return ""
	}
	return FormatTaskList(tasks)
}
