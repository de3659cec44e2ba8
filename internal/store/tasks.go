package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateTask inserts a new task and returns it with generated fields set.
func (s *Store) CreateTask(ctx context.Context, t Task) (Task, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, due_date, priority, completed, goal_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, t.DueDate, t.Priority, t.Completed, t.GoalID, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// GetTask fetches one task by ID.
func (s *Store) GetTask(ctx context.Context, id string) (Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, due_date, priority, completed, goal_id, created_at, updated_at
		FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

// SearchTasksBySubject matches the subject against task titles and
// descriptions, most recently updated first.
func (s *Store) SearchTasksBySubject(ctx context.Context, subject string, limit int) ([]Task, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + subject + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, due_date, priority, completed, goal_id, created_at, updated_at
		FROM tasks
		WHERE title LIKE ? OR description LIKE ?
		ORDER BY updated_at DESC
		LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}
	return collectTasks(rows)
}

// ListTasksByDateRange returns tasks whose due date falls inside
// [start, end]. Dates are ISO strings, so lexicographic comparison holds;
// tasks without a due date are excluded.
func (s *Store) ListTasksByDateRange(ctx context.Context, start, end string) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, due_date, priority, completed, goal_id, created_at, updated_at
		FROM tasks
		WHERE due_date != '' AND due_date >= ? AND due_date <= ?
		ORDER BY due_date ASC`, start, end)
	if err != nil {
		return nil, fmt.Errorf("list tasks by date range: %w", err)
	}
	return collectTasks(rows)
}

// ListRecentTasks returns the most recently updated tasks.
func (s *Store) ListRecentTasks(ctx context.Context, limit int) ([]Task, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, due_date, priority, completed, goal_id, created_at, updated_at
		FROM tasks
		ORDER BY updated_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent tasks: %w", err)
	}
	return collectTasks(rows)
}

// ListTasksByGoal returns all tasks linked to the given goal.
func (s *Store) ListTasksByGoal(ctx context.Context, goalID string) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, due_date, priority, completed, goal_id, created_at, updated_at
		FROM tasks
		WHERE goal_id = ?
		ORDER BY updated_at DESC`, goalID)
	if err != nil {
		return nil, fmt.Errorf("list tasks by goal: %w", err)
	}
	return collectTasks(rows)
}

// UpdateTask applies the non-nil fields of u to the task and returns the
// updated record.
func (s *Store) UpdateTask(ctx context.Context, id string, u TaskUpdate) (Task, error) {
	sets := []string{}
	args := []any{}

	if u.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *u.Title)
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if u.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, *u.DueDate)
	}
	if u.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *u.Priority)
	}
	if u.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *u.Completed)
	}
	if u.GoalID != nil {
		sets = append(sets, "goal_id = ?")
		args = append(args, *u.GoalID)
	}
	if len(sets) == 0 {
		return s.GetTask(ctx, id)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return Task{}, fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Task{}, ErrNotFound
	}
	return s.GetTask(ctx, id)
}

// DeleteTask removes a task by ID.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.DueDate, &t.Priority,
		&t.Completed, &t.GoalID, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return Task{}, ErrNotFound
	}
	if err != nil {
		return Task{}, fmt.Errorf("scan task: %w", err)
	}
	return t, nil
}

func collectTasks(rows *sql.Rows) ([]Task, error) {
	defer rows.Close()
	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
