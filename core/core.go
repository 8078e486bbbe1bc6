package core

import "log/slog"

type Config struct {
	Storage Storage

	HTTP HTTPAdapter

	// Optional config
	Quotes         *Quotes
	Logger         *slog.Logger
	Notifier       Notifier
	TokenVerifier  TokenVerifier
	AdminTokenHash string // argon2id encoded; empty disables admin routes
}

type App struct {
	Tasks          TaskHandler
	Logger         *slog.Logger
	TokenVerifier  TokenVerifier
	AdminTokenHash string
}

// AdminEnabled reports whether admin routes accept tokens at all
func (a *App) AdminEnabled() bool {
	return a.AdminTokenHash != "" && a.TokenVerifier != nil
}
