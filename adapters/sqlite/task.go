package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lborres/taskpulse"
)

const taskColumns = `id, user_id, title, description, difficulty, status, estimated_minutes, created_at, completed_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*taskpulse.Task, error) {
	t := &taskpulse.Task{}
	var status string
	var completedAt sql.NullTime
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Difficulty, &status, &t.EstimatedMinutes, &t.CreatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	t.Status = taskpulse.TaskStatus(status)
	t.CreatedAt = t.CreatedAt.UTC()
	if completedAt.Valid {
		at := completedAt.Time.UTC()
		t.CompletedAt = &at
	}
	return t, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func (a *Adapter) CreateTask(ctx context.Context, task *taskpulse.Task) error {
	query := `INSERT INTO tasks (user_id, title, description, difficulty, status, estimated_minutes, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := a.db.ExecContext(ctx, query,
		task.UserID, task.Title, task.Description, task.Difficulty,
		string(task.Status), task.EstimatedMinutes, task.CreatedAt.UTC(), nullTime(task.CompletedAt),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	task.ID = id
	return nil
}

func (a *Adapter) GetTask(ctx context.Context, userID string, id int64) (*taskpulse.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND user_id = ?`

	t, err := scanTask(a.db.QueryRowContext(ctx, q, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, taskpulse.ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

func (a *Adapter) ListTasks(ctx context.Context, userID string) ([]*taskpulse.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ? ORDER BY created_at DESC, id DESC`

	rows, err := a.db.QueryContext(ctx, q, userID)
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
	q := `UPDATE tasks SET title = ?, description = ?, difficulty = ?, status = ?, estimated_minutes = ?, completed_at = ?
		WHERE id = ? AND user_id = ?`

	res, err := a.db.ExecContext(ctx, q,
		task.Title, task.Description, task.Difficulty, string(task.Status),
		task.EstimatedMinutes, nullTime(task.CompletedAt), task.ID, task.UserID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return taskpulse.ErrTaskNotFound
	}
	return nil
}

func (a *Adapter) DeleteTask(ctx context.Context, userID string, id int64) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return taskpulse.ErrTaskNotFound
	}
	return nil
}
