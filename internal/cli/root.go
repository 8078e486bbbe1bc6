package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lborres/taskpulse/internal/config"
)

// rootFlags are shared by every subcommand
type rootFlags struct {
	configFile string
	envFile    string
}

func (f *rootFlags) load() (*config.Config, error) {
	return config.Load(config.Options{File: f.configFile, EnvFile: f.envFile})
}

// NewRootCmd builds the taskpulse command tree
func NewRootCmd(version string) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "taskpulse",
		Short: "Task tracker with a web API and a MAX chat bot",
		Long: `taskpulse keeps one task list per person and serves it over an HTTP API
and a MAX messenger bot. Both front-ends share the same storage, so a task
added in the web app shows up in the chat and vice versa.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newBotCmd(flags))
	root.AddCommand(newRunCmd(flags))
	root.AddCommand(newMigrateCmd(flags))
	root.AddCommand(newAdminTokenCmd())

	return root
}

// Execute runs the root command
func Execute(version string) error {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// newLogger builds the process logger and makes it the slog default
func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}
