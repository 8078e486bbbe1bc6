package fiber

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	"github.com/lborres/taskpulse"
	"github.com/lborres/taskpulse/pkg/crypto"
)

// MiddlewareConfig selects the stock middleware installed by UseMiddleware
type MiddlewareConfig struct {
	AllowOrigins []string
	AccessLog    bool
	TimeZone     string
}

func logFormat() string {
	format := []string{
		// Timestamp & Request ID
		"${time}|${requestid}",

		// Response metadata
		"${status}|${latency}",

		// Client info
		"${ip}",

		// Request details
		"${method}|${path}",

		// errors
		"${error}",
	}
	return strings.Join(format, "|") + "\n"
}

// UseMiddleware installs request IDs, panic recovery, the access log and CORS
func UseMiddleware(app *fiber.App, cfg MiddlewareConfig) {
	app.Use(requestid.New(requestid.Config{
		Generator: crypto.RequestIDGenerator(),
	}))

	app.Use(recoverer.New())

	if cfg.AccessLog {
		tz := cfg.TimeZone
		if tz == "" {
			tz = "UTC"
		}
		app.Use(logger.New(logger.Config{
			Format:     logFormat(),
			TimeFormat: "2006/01/02 15:04:05",
			TimeZone:   tz,
		}))
	}

	if len(cfg.AllowOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowOrigins,
			AllowMethods: []string{
				fiber.MethodGet,
				fiber.MethodPost,
				fiber.MethodPut,
				fiber.MethodPatch,
				fiber.MethodDelete,
				fiber.MethodOptions,
			},
			AllowHeaders: []string{
				fiber.HeaderOrigin,
				fiber.HeaderContentType,
				fiber.HeaderAccept,
				fiber.HeaderAuthorization,
			},
			// credentials cannot be combined with a wildcard origin
			AllowCredentials: !slices.Contains(cfg.AllowOrigins, "*"),
		}))
	}
}

// requireAdmin validates the bearer token against the configured admin hash
func (a *Adapter) requireAdmin(app *taskpulse.App) fiber.Handler {
	return func(c fiber.Ctx) error {
		if !app.AdminEnabled() {
			return a.respondError(c, taskpulse.ErrAdminDisabled)
		}

		token := extractToken(c)
		if token == "" {
			return a.respondError(c, taskpulse.ErrMissingAuthHeader)
		}

		fingerprint := crypto.Fingerprint(token)
		ok, err := app.TokenVerifier.Verify(token, app.AdminTokenHash)
		if err != nil {
			a.logger.Error("admin token verification failed", "error", err)
			return a.respondError(c, taskpulse.ErrInvalidToken)
		}
		if !ok {
			a.logger.Warn("admin token rejected", "token", fingerprint, "path", c.Path(), "ip", c.IP())
			return a.respondError(c, taskpulse.ErrInvalidToken)
		}

		a.logger.Info("admin request", "token", fingerprint, "method", c.Method(), "path", c.Path())
		c.Locals("admin_token", fingerprint)
		return c.Next()
	}
}
