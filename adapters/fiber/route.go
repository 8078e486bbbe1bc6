package fiber

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/lborres/taskpulse"
	"github.com/lborres/taskpulse/services"
)

type handlerFunc = func(*taskpulse.RequestContext) error

type Adapter struct {
	app      *fiber.App
	registry *services.EndpointRegistry
	logger   *slog.Logger
}

var _ taskpulse.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{
		app:      app,
		registry: services.NewEndpointRegistry(),
		logger:   slog.Default(),
	}
}

// Registry exposes the endpoint registry so callers can add plugin
// endpoints before RegisterRoutes runs.
func (a *Adapter) Registry() *services.EndpointRegistry {
	return a.registry
}

func (a *Adapter) handlers() map[string]handlerFunc {
	return map[string]handlerFunc{
		services.OpRoot:              handleRoot,
		services.OpHealth:            handleHealth,
		services.OpListTasks:         a.handleListTasks,
		services.OpCreateTask:        a.handleCreateTask,
		services.OpCompleteTask:      a.handleCompleteTask,
		services.OpUpdateTask:        a.handleUpdateTask,
		services.OpDeleteTask:        a.handleDeleteTask,
		services.OpDecompose:         a.handleDecompose,
		services.OpMotivation:        handleMotivation,
		services.OpAnalytics:         a.handleAnalytics,
		services.OpDailyAnalysis:     a.handleDailyAnalysis,
		services.OpGetProfile:        a.handleGetProfile,
		services.OpUpdateProfile:     a.handleUpdateProfile,
		services.OpCreateUser:        a.handleCreateUser,
		services.OpSyncUser:          a.handleSyncUser,
		services.OpUserStats:         a.handleUserStats,
		services.OpTodayStats:        a.handleTodayStats,
		services.OpDailyStats:        a.handleDailyStats,
		services.OpProductivityStats: a.handleProductivityStats,
		services.OpSyncWithBot:       a.handleSyncWithBot,
		services.OpBotTasks:          a.handleBotTasks,
		services.OpSyncUsers:         a.handleSyncUsers,
		services.OpDebugUser:         a.handleDebugUser,
	}
}

// RegisterRoutes binds every registry endpoint to its handler. Endpoints
// that come with their own Handler keep it; admin endpoints are guarded.
func (a *Adapter) RegisterRoutes(app *taskpulse.App) error {
	if app.Logger != nil {
		a.logger = app.Logger
	}

	byOp := a.handlers()
	for _, ep := range a.registry.Endpoints() {
		h := ep.Handler
		if h == nil {
			var ok bool
			if h, ok = byOp[ep.Metadata.OperationID]; !ok {
				return fmt.Errorf("no handler for %s %s (operation %q)", ep.Method, ep.Path, ep.Metadata.OperationID)
			}
			ep.Handler = h
		}

		route := a.bind(app, h)
		if ep.Metadata.Admin {
			a.app.Add([]string{ep.Method}, ep.Path, a.requireAdmin(app), route)
			continue
		}
		a.app.Add([]string{ep.Method}, ep.Path, route)
	}

	return nil
}

// bind adapts a framework-agnostic handler to a fiber handler
func (a *Adapter) bind(app *taskpulse.App, h handlerFunc) fiber.Handler {
	return func(c fiber.Ctx) error {
		return h(&taskpulse.RequestContext{Request: c, Tasks: app.Tasks})
	}
}
