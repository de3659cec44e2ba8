package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateGoal inserts a new goal and returns it with generated fields set.
func (s *Store) CreateGoal(ctx context.Context, g Goal) (Goal, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (id, title, description, completed, target_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Title, g.Description, g.Completed, g.TargetDate, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return Goal{}, fmt.Errorf("create goal: %w", err)
	}
	return g, nil
}

// GetGoal fetches one goal by ID.
func (s *Store) GetGoal(ctx context.Context, id string) (Goal, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, completed, target_date, created_at, updated_at
		FROM goals WHERE id = ?`, id)
	return scanGoal(row)
}

// ListGoals returns every goal, most recently updated first.
func (s *Store) ListGoals(ctx context.Context) ([]Goal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, completed, target_date, created_at, updated_at
		FROM goals
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return collectGoals(rows)
}

// SearchGoalsBySubject matches the subject against goal titles and
// descriptions, most recently updated first.
func (s *Store) SearchGoalsBySubject(ctx context.Context, subject string, limit int) ([]Goal, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + subject + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, completed, target_date, created_at, updated_at
		FROM goals
		WHERE title LIKE ? OR description LIKE ?
		ORDER BY updated_at DESC
		LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search goals: %w", err)
	}
	return collectGoals(rows)
}

// UpdateGoal applies the non-nil fields of u to the goal and returns the
// updated record.
func (s *Store) UpdateGoal(ctx context.Context, id string, u GoalUpdate) (Goal, error) {
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
	if u.TargetDate != nil {
		sets = append(sets, "target_date = ?")
		args = append(args, *u.TargetDate)
	}
	if u.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *u.Completed)
	}
	if len(sets) == 0 {
		return s.GetGoal(ctx, id)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE goals SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return Goal{}, fmt.Errorf("update goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Goal{}, ErrNotFound
	}
	return s.GetGoal(ctx, id)
}

// DeleteGoal removes a goal by ID. Linked tasks keep their goal_id.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM goals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanGoal(row rowScanner) (Goal, error) {
	var g Goal
	err := row.Scan(&g.ID, &g.Title, &g.Description, &g.Completed,
		&g.TargetDate, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return Goal{}, ErrNotFound
	}
	if err != nil {
		return Goal{}, fmt.Errorf("scan goal: %w", err)
	}
	return g, nil
}

func collectGoals(rows *sql.Rows) ([]Goal, error) {
	defer rows.Close()
	var goals []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}
