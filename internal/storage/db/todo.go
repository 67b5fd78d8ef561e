package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/itchan-dev/scoula/shared/domain"
)

const todoColumns = "id, title, description, done, created_at, updated_at"

func scanTodo(row scanner) (domain.TodoRecord, error) {
	var t domain.TodoRecord
	err := row.Scan(&t.Id, &t.Title, &t.Description, &t.Done, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (s *Storage) ListTodos(ctx context.Context) ([]domain.TodoRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+todoColumns+` FROM todo ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	todos := []domain.TodoRecord{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo row: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return todos, nil
}

func (s *Storage) GetTodo(ctx context.Context, id domain.TodoId) (*domain.TodoRecord, error) {
	t, err := scanTodo(s.db.QueryRowContext(ctx, s.q(`SELECT `+todoColumns+` FROM todo WHERE id = $1`), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get todo %d: %w", id, err)
	}
	return &t, nil
}

func (s *Storage) CreateTodo(ctx context.Context, t *domain.TodoRecord) error {
	ts := now()
	err := s.db.QueryRowContext(ctx, s.q(`
	INSERT INTO todo(title, description, done, created_at, updated_at)
	VALUES($1, $2, $3, $4, $5)
	RETURNING id`),
		t.Title, t.Description, t.Done, ts, ts).Scan(&t.Id)
	if err != nil {
		return fmt.Errorf("failed to insert todo: %w", err)
	}
	t.CreatedAt = ts
	t.UpdatedAt = ts
	return nil
}

func (s *Storage) UpdateTodo(ctx context.Context, t *domain.TodoRecord) (int64, error) {
	ts := now()
	result, err := s.db.ExecContext(ctx, s.q(`
	UPDATE todo SET
		title = $1,
		description = $2,
		done = $3,
		updated_at = $4
	WHERE id = $5`),
		t.Title, t.Description, t.Done, ts, t.Id)
	if err != nil {
		return 0, fmt.Errorf("failed to update todo %d: %w", t.Id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 1 {
		t.UpdatedAt = ts
	}
	return affected, nil
}

// ToggleTodo flips the done flag.
func (s *Storage) ToggleTodo(ctx context.Context, id domain.TodoId) (int64, error) {
	result, err := s.db.ExecContext(ctx, s.q(`UPDATE todo SET done = NOT done, updated_at = $1 WHERE id = $2`), now(), id)
	if err != nil {
		return 0, fmt.Errorf("failed to toggle todo %d: %w", id, err)
	}
	return result.RowsAffected()
}

func (s *Storage) DeleteTodo(ctx context.Context, id domain.TodoId) (int64, error) {
	result, err := s.db.ExecContext(ctx, s.q(`DELETE FROM todo WHERE id = $1`), id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete todo %d: %w", id, err)
	}
	return result.RowsAffected()
}
