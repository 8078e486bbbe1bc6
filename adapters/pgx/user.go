package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/lborres/taskpulse"
)

func (a *Adapter) CreateUser(ctx context.Context, user *taskpulse.User) error {
	query := `INSERT INTO public.users (id, key, name, energy, level, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := a.pool.Exec(ctx, query, user.ID, user.Key, user.Name, user.Energy, user.Level, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return taskpulse.ErrUserExists
		}
		return err
	}
	return nil
}

func (a *Adapter) GetUserByKey(ctx context.Context, key string) (*taskpulse.User, error) {
	q := `SELECT id, key, name, energy, level, created_at, updated_at FROM public.users WHERE key = $1`

	user := &taskpulse.User{}
	err := a.pool.QueryRow(ctx, q, key).Scan(&user.ID, &user.Key, &user.Name, &user.Energy, &user.Level, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, taskpulse.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (a *Adapter) UpdateUser(ctx context.Context, user *taskpulse.User) error {
	q := `UPDATE public.users SET name = $1, energy = $2, level = $3, updated_at = $4 WHERE id = $5`

	tag, err := a.pool.Exec(ctx, q, user.Name, user.Energy, user.Level, user.UpdatedAt, user.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return taskpulse.ErrUserNotFound
	}
	return nil
}
