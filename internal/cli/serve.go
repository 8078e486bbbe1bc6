package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lborres/taskpulse"
	fiberadapter "github.com/lborres/taskpulse/adapters/fiber"
	maxbot "github.com/lborres/taskpulse/adapters/max"
	"github.com/lborres/taskpulse/internal/config"
	"github.com/lborres/taskpulse/pkg/cache"
	"github.com/lborres/taskpulse/services"
)

const shutdownTimeout = 10 * time.Second

// process is what every long-running command needs before it starts
type process struct {
	cfg    *config.Config
	logger *slog.Logger
	db     taskpulse.Storage
	quotes *taskpulse.Quotes
}

func setup(ctx context.Context, flags *rootFlags, logOut io.Writer) (*process, error) {
	cfg, err := flags.load()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}
	quotes, err := loadQuotes(cfg.QuotesFile)
	if err != nil {
		return nil, err
	}
	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	logger.Info("database ready", "driver", cfg.Database.Driver)

	return &process{cfg: cfg, logger: logger, db: db, quotes: quotes}, nil
}

// newHTTPServer builds the fiber app with middleware and every API route
func newHTTPServer(rt *process, notifier taskpulse.Notifier) (*fiber.App, *taskpulse.App, error) {
	app := fiber.New(fiber.Config{
		AppName:      "taskpulse",
		ErrorHandler: fiberadapter.ErrorHandler,
		Immutable:    true,
	})

	fiberadapter.UseMiddleware(app, fiberadapter.MiddlewareConfig{
		AllowOrigins: rt.cfg.HTTP.AllowOrigins,
		AccessLog:    rt.cfg.HTTP.AccessLog,
		TimeZone:     rt.cfg.HTTP.TimeZone,
	})

	tp, err := taskpulse.New(taskpulse.Config{
		Storage:        rt.db,
		HTTP:           fiberadapter.New(app),
		Quotes:         rt.quotes,
		Logger:         rt.logger,
		Notifier:       notifier,
		AdminTokenHash: rt.cfg.Admin.TokenHash,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not create taskpulse instance: %w", err)
	}
	if !tp.AdminEnabled() {
		rt.logger.Warn("admin routes disabled, set admin.token_hash to enable them")
	}
	return app, tp, nil
}

func newMaxClient(rt *process) (*maxbot.Client, *maxbot.ChatRegistry) {
	client := maxbot.NewClient(rt.cfg.Bot.Token, maxbot.WithBaseURL(rt.cfg.Bot.BaseURL))
	return client, maxbot.NewChatRegistry(client, cache.Config{})
}

func newBot(rt *process, client *maxbot.Client, tasks taskpulse.TaskHandler, chats *maxbot.ChatRegistry) *maxbot.Bot {
	return maxbot.New(client, tasks, chats, maxbot.Config{
		PollTimeout: rt.cfg.Bot.PollTimeout,
		Logger:      rt.logger.With("component", "bot"),
	})
}

// listen serves app until ctx is done, then shuts it down gracefully
func listen(ctx context.Context, app *fiber.App, addr string, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	logger.Info("http server listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return <-errCh
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()

			rt, err := setup(ctx, flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.db.Close()

			app, _, err := newHTTPServer(rt, nil)
			if err != nil {
				return err
			}
			return listen(ctx, app, rt.cfg.HTTP.Addr, rt.logger)
		},
	}
}

func newBotCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the MAX chat bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()

			rt, err := setup(ctx, flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.db.Close()
			if err := rt.cfg.RequireBot(); err != nil {
				return err
			}

			client, chats := newMaxClient(rt)
			tasks := services.NewTaskService(rt.db, rt.quotes, services.WithLogger(rt.logger))
			return newBot(rt, client, tasks, chats).Run(ctx)
		},
	}
}

// newRunCmd serves the API and the bot from one process. The bot's chat
// registry becomes the service notifier, so web syncs reach the chat.
func newRunCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Serve the HTTP API and run the MAX chat bot together",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()

			rt, err := setup(ctx, flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.db.Close()
			if err := rt.cfg.RequireBot(); err != nil {
				return err
			}

			client, chats := newMaxClient(rt)
			app, tp, err := newHTTPServer(rt, chats)
			if err != nil {
				return err
			}
			bot := newBot(rt, client, tp.Tasks, chats)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return listen(gctx, app, rt.cfg.HTTP.Addr, rt.logger) })
			g.Go(func() error { return bot.Run(gctx) })
			return g.Wait()
		},
	}
}
