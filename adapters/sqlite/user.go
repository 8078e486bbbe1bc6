package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lborres/taskpulse"
)

func (a *Adapter) CreateUser(ctx context.Context, user *taskpulse.User) error {
	query := `INSERT INTO users (id, key, name, energy, level, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := a.db.ExecContext(ctx, query,
		user.ID, user.Key, user.Name, user.Energy, user.Level,
		user.CreatedAt.UTC(), user.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return taskpulse.ErrUserExists
		}
		return err
	}
	return nil
}

func (a *Adapter) GetUserByKey(ctx context.Context, key string) (*taskpulse.User, error) {
	q := `SELECT id, key, name, energy, level, created_at, updated_at FROM users WHERE key = ?`

	user := &taskpulse.User{}
	err := a.db.QueryRowContext(ctx, q, key).Scan(&user.ID, &user.Key, &user.Name, &user.Energy, &user.Level, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, taskpulse.ErrUserNotFound
		}
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return user, nil
}

func (a *Adapter) UpdateUser(ctx context.Context, user *taskpulse.User) error {
	q := `UPDATE users SET name = ?, energy = ?, level = ?, updated_at = ? WHERE id = ?`

	res, err := a.db.ExecContext(ctx, q, user.Name, user.Energy, user.Level, user.UpdatedAt.UTC(), user.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return taskpulse.ErrUserNotFound
	}
	return nil
}
