package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/lborres/taskpulse"
)

const taskColumns = `id, user_id, title, description, difficulty, status, estimated_minutes, created_at, completed_at`

func scanTask(row pgx.Row) (*taskpulse.Task, error) {
	t := &taskpulse.Task{}
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Difficulty, &t.Status, &t.EstimatedMinutes, &t.CreatedAt, &t.CompletedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (a *Adapter) CreateTask(ctx context.Context, task *taskpulse.Task) error {
	query := `INSERT INTO public.tasks (user_id, title, description, difficulty, status, estimated_minutes, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	return a.pool.QueryRow(ctx, query,
		task.UserID, task.Title, task.Description, task.Difficulty,
		task.Status, task.EstimatedMinutes, task.CreatedAt, task.CompletedAt,
	).Scan(&task.ID)
}

func (a *Adapter) GetTask(ctx context.Context, userID string, id int64) (*taskpulse.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM public.tasks WHERE id = $1 AND user_id = $2`

	t, err := scanTask(a.pool.QueryRow(ctx, q, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, taskpulse.ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

func (a *Adapter) ListTasks(ctx context.Context, userID string) ([]*taskpulse.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM public.tasks WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := a.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []*taskpulse.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (a *Adapter) UpdateTask(ctx context.Context, task *taskpulse.Task) error {
	q := `UPDATE public.tasks SET title = $1, description = $2, difficulty = $3, status = $4, estimated_minutes = $5, completed_at = $6
		WHERE id = $7 AND user_id = $8`

	tag, err := a.pool.Exec(ctx, q,
		task.Title, task.Description, task.Difficulty, task.Status,
		task.EstimatedMinutes, task.CompletedAt, task.ID, task.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return taskpulse.ErrTaskNotFound
	}
	return nil
}

func (a *Adapter) DeleteTask(ctx context.Context, userID string, id int64) error {
	tag, err := a.pool.Exec(ctx, `DELETE FROM public.tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return taskpulse.ErrTaskNotFound
	}
	return nil
}
