package fiber

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	"github.com/lborres/taskpulse"
	"github.com/lborres/taskpulse/core"
)

const serviceName = "TaskPulse API"

// debugTaskLimit caps the tasks shown by the debug endpoint
const debugTaskLimit = 5

type completeTaskRequest struct {
	TaskID int64 `json:"task_id"`
}

type syncWithBotRequest struct {
	MaxUserID string `json:"max_user_id"`
	Username  string `json:"username"`
}

type userView struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Energy     int    `json:"energy"`
	Level      int    `json:"level"`
}

func viewOf(u *taskpulse.User) userView {
	return userView{ExternalID: u.Key, Name: u.Name, Energy: u.Energy, Level: u.Level}
}

func handleRoot(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)
	return fctx.JSON(fiber.Map{"message": serviceName, "status": "running"})
}

func handleHealth(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)
	return fctx.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   serviceName,
	})
}

func handleMotivation(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)
	return fctx.JSON(fiber.Map{"quote": ctx.Tasks.Motivation()})
}

// ============================================
// TASKS
// ============================================

func (a *Adapter) handleListTasks(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)

	tasks, err := ctx.Tasks.ListTasks(fctx.Context(), externalID(fctx))
	if err != nil {
		return a.respondError(fctx, err)
	}

	return fctx.JSON(fiber.Map{"tasks": tasks, "count": len(tasks)})
}

func (a *Adapter) handleCreateTask(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)

	var input taskpulse.TaskInput
	if err := fctx.Bind().Body(&input); err != nil {
		return invalidBody(fctx)
	}

	task, err := ctx.Tasks.AddTask(fctx.Context(), externalID(fctx), input)
	if err != nil {
		return a.respondError(fctx, err)
	}

	return fctx.Status(http.StatusCreated).JSON(fiber.Map{
		"task":    task,
		"message": "Task created successfully",
	})
}

func (a *Adapter) handleCompleteTask(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)

	var input completeTaskRequest
	if err := fctx.Bind().Body(&input); err != nil {
		return invalidBody(fctx)
	}

	task, err := ctx.Tasks.CompleteTask(fctx.Context(), externalID(fctx), input.TaskID)
	if err != nil {
		return a.respondError(fctx, err)
	}

	return fctx.JSON(fiber.Map{
		"task":    task,
		"message": "Task completed successfully",
	})
}

func (a *Adapter) handleUpdateTask(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)

	id, err := taskID(fctx)
	if err != nil {
		return a.respondError(fctx, err)
	}

	var input taskpulse.TaskUpdate
	if err := fctx.Bind().Body(&input); err != nil {
		return invalidBody(fctx)
	}

	task, err := ctx.Tasks.UpdateTask(fctx.Context(), externalID(fctx), id, input)
	if err != nil {
		return a.respondError(fctx, err)
	}

	return fctx.JSON(fiber.Map{"task": task})
}

func (a *Adapter) handleDeleteTask(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)

	id, err := taskID(fctx)
	if err != nil {
		return a.respondError(fctx, err)
	}

	if err := ctx.Tasks.DeleteTask(fctx.Context(), externalID(fctx), id); err != nil {
		return a.respondError(fctx, err)
	}

	return fctx.JSON(fiber.Map{"message": "Task deleted successfully"})
}

func (a *Adapter) handleDecompose(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)

	title := strings.TrimSpace(query(fctx, "title"))
	if title == "" {
		return a.respondError(fctx, taskpulse.ErrTitleRequired)
	}

	return fctx.JSON(fiber.Map{"title": title, "steps": ctx.Tasks.Decompose(title)})
}

// ============================================
// USERS
// ============================================

func (a *Adapter) handleAnalytics(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)

	res, err := ctx.Tasks.Analyze(fctx.Context(), externalID(fctx))
	if err != nil {
		return a.respondError(fctx, err)
	}
	return fctx.JSON(res)
}

func (a *Adapter) handleDailyAnalysis(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)

	res, err := ctx.Tasks.AnalyzeEnhanced(fctx.Context(), externalID(fctx))
	if err != nil {
		return a.respondError(fctx, err)
	}
	return fctx.JSON(res)
}

func (a *Adapter) handleGetProfile(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)

	profile, err := ctx.Tasks.Profile(fctx.Context(), externalID(fctx))
	if err != nil {
		return a.respondError(fctx, err)
	}
	return fctx.JSON(profile)
}

func (a *Adapter) handleUpdateProfile(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)

	var input taskpulse.ProfileUpdate
	if err := fctx.Bind().Body(&input); err != nil {
		return invalidBody(fctx)
	}

	user, err := ctx.Tasks.UpdateProfile(fctx.Context(), externalID(fctx), input)
	if err != nil {
		return a.respondError(fctx, err)
	}

	return fctx.JSON(fiber.Map{
		"user":    viewOf(user),
		"message": "Profile updated successfully",
	})
}

func (a *Adapter) handleCreateUser(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)

	user, err := ctx.Tasks.GetOrCreateUser(fctx.Context(), externalID(fctx), query(fctx, "name"))
	if err != nil {
		return a.respondError(fctx, err)
	}

	return fctx.JSON(fiber.Map{
		"user":    viewOf(user),
		"message": "User created successfully",
	})
}

func (a *Adapter) handleSyncUser(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)

	var input taskpulse.MessengerProfile
	if err := fctx.Bind().Body(&input); err != nil {
		return invalidBody(fctx)
	}

	user, err := ctx.Tasks.SyncProfile(fctx.Context(), externalID(fctx), input)
	if err != nil {
		return a.respondError(fctx, err)
	}

	return fctx.JSON(fiber.Map{
		"user":    viewOf(user),
		"message": "User synchronized successfully",
	})
}

func (a *Adapter) handleUserStats(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)

	stats, err := ctx.Tasks.Stats(fctx.Context(), externalID(fctx))
	if err != nil {
		return a.respondError(fctx, err)
	}
	return fctx.JSON(stats)
}

func (a *Adapter) handleTodayStats(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)

	stats, err := ctx.Tasks.TodayStats(fctx.Context(), externalID(fctx))
	if err != nil {
		return a.respondError(fctx, err)
	}
	return fctx.JSON(stats)
}

func (a *Adapter) handleDailyStats(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)

	stats, err := ctx.Tasks.DailyStats(fctx.Context(), externalID(fctx))
	if err != nil {
		return a.respondError(fctx, err)
	}
	return fctx.JSON(stats)
}

func (a *Adapter) handleProductivityStats(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)

	stats, err := ctx.Tasks.Productivity(fctx.Context(), externalID(fctx))
	if err != nil {
		return a.respondError(fctx, err)
	}
	return fctx.JSON(stats)
}

// ============================================
// BOT RECONCILIATION
// ============================================

func (a *Adapter) handleSyncWithBot(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)

	var input syncWithBotRequest
	if err := fctx.Bind().Body(&input); err != nil {
		return invalidBody(fctx)
	}

	key, err := ctx.Tasks.EnsureUserSync(fctx.Context(), input.MaxUserID, input.Username)
	if err != nil {
		return a.respondError(fctx, err)
	}

	return fctx.JSON(fiber.Map{
		"external_id": key,
		"message":     "User synchronized with bot",
	})
}

func (a *Adapter) handleBotTasks(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)

	id := query(fctx, "max_user_id")
	if id == "" {
		return a.respondError(fctx, taskpulse.ErrExternalIDMissing)
	}
	if !strings.HasPrefix(id, core.ChatKeyPrefix) {
		id = core.ChatKeyPrefix + id
	}

	tasks, err := ctx.Tasks.ListTasks(fctx.Context(), id)
	if err != nil {
		return a.respondError(fctx, err)
	}
	return fctx.JSON(fiber.Map{"tasks": tasks})
}

// ============================================
// ADMIN
// ============================================

func (a *Adapter) handleSyncUsers(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)

	source := query(fctx, "source_external_id")
	target := query(fctx, "target_external_id")
	if source == "" || target == "" {
		return a.respondError(fctx, taskpulse.ErrExternalIDMissing)
	}

	copied, err := ctx.Tasks.SyncTasks(fctx.Context(), source, target)
	if err != nil && mapErrorToStatus(err) != http.StatusInternalServerError {
		return a.respondError(fctx, err)
	}
	if err != nil {
		// copies are independent; report the ones that landed
		a.logger.Error("sync partially failed",
			"request_id", requestid.FromContext(fctx),
			"source", source,
			"target", target,
			"copied", copied,
			"error", err,
		)
		status := http.StatusInternalServerError
		if copied > 0 {
			status = http.StatusMultiStatus
		}
		return fctx.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   "some tasks failed to sync",
			"copied":  copied,
		})
	}

	return fctx.JSON(fiber.Map{
		"success": true,
		"message": "Users synchronized successfully",
		"copied":  copied,
	})
}

type debugTask struct {
	ID     int64                `json:"id"`
	Title  string               `json:"title"`
	Status taskpulse.TaskStatus `json:"status"`
}

func (a *Adapter) handleDebugUser(ctx *taskpulse.RequestContext) error {
	fctx := ctx.Request.(fiber.Ctx)
	key := strings.Clone(fctx.Params("external_id"))

	user, err := ctx.Tasks.GetUser(fctx.Context(), key)
	if err != nil {
		return a.respondError(fctx, err)
	}
	tasks, err := ctx.Tasks.ListTasks(fctx.Context(), key)
	if err != nil {
		return a.respondError(fctx, err)
	}

	preview := make([]debugTask, 0, debugTaskLimit)
	for _, t := range tasks[:min(len(tasks), debugTaskLimit)] {
		preview = append(preview, debugTask{ID: t.ID, Title: t.Title, Status: t.Status})
	}

	return fctx.JSON(fiber.Map{
		"user":        user,
		"tasks_count": len(tasks),
		"tasks":       preview,
	})
}

// ============================================
// HELPERS
// ============================================

// query copies a query value out of the request buffer. Fiber reuses that
// buffer once the handler returns, and keys outlive the request in storage.
func query(c fiber.Ctx, name string) string {
	return strings.Clone(c.Query(name))
}

func externalID(c fiber.Ctx) string {
	return query(c, "external_id")
}

func taskID(c fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, taskpulse.ErrInvalidTaskID
	}
	return id, nil
}

// extractToken extracts the bearer token from the Authorization header
func extractToken(c fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

func invalidBody(c fiber.Ctx) error {
	return c.Status(http.StatusBadRequest).JSON(core.ErrorResponse{
		Error: "invalid request body",
		Code:  http.StatusBadRequest,
	})
}

// respondError maps service errors to HTTP responses. Internal errors are
// logged with the request ID and hidden from the client.
func (a *Adapter) respondError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed",
			"request_id", requestid.FromContext(c),
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		msg = "internal server error"
	}
	return c.Status(status).JSON(core.ErrorResponse{Error: msg, Code: status})
}

// mapErrorToStatus maps taskpulse error types to HTTP status codes
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, taskpulse.ErrUserNotFound),
		errors.Is(err, taskpulse.ErrTaskNotFound):
		return http.StatusNotFound

	case errors.Is(err, taskpulse.ErrTitleRequired),
		errors.Is(err, taskpulse.ErrInvalidTaskID),
		errors.Is(err, taskpulse.ErrInvalidStatus),
		errors.Is(err, taskpulse.ErrInvalidDifficulty),
		errors.Is(err, taskpulse.ErrExternalIDMissing),
		errors.Is(err, taskpulse.ErrUsernameRequired):
		return http.StatusBadRequest

	case errors.Is(err, taskpulse.ErrMissingAuthHeader),
		errors.Is(err, taskpulse.ErrInvalidToken):
		return http.StatusUnauthorized

	case errors.Is(err, taskpulse.ErrAdminDisabled):
		return http.StatusForbidden

	case errors.Is(err, taskpulse.ErrUserExists):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders errors that escape handlers, such as unknown routes
// and recovered panics, in the same shape as handler errors.
func ErrorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(core.ErrorResponse{Error: fe.Message, Code: fe.Code})
	}
	status := mapErrorToStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	return c.Status(status).JSON(core.ErrorResponse{Error: msg, Code: status})
}
