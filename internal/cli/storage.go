package cli

import (
	"context"
	"fmt"

	"github.com/lborres/taskpulse"
	pgxadapter "github.com/lborres/taskpulse/adapters/pgx"
	sqliteadapter "github.com/lborres/taskpulse/adapters/sqlite"
	"github.com/lborres/taskpulse/internal/config"
)

// openDatabase connects to the configured database and brings its schema up
// to date.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (taskpulse.Storage, error) {
	var (
		db  taskpulse.Storage
		err error
	)

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err = pgxadapter.Open(ctx, cfg.DSN)
	case config.DriverSQLite:
		db, err = sqliteadapter.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: got %q", config.ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate %s database: %w", cfg.Driver, err)
	}
	return db, nil
}

func loadQuotes(path string) (*taskpulse.Quotes, error) {
	if path == "" {
		return nil, nil
	}
	q, err := taskpulse.LoadQuotes(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load quotes: %w", err)
	}
	return q, nil
}
