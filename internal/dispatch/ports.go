package dispatch

import (
	"context"

	"github.com/alfred-ai/alfred/internal/store"
)

// TaskStore is the task persistence surface the dispatcher consumes.
type TaskStore interface {
	CreateTask(ctx context.Context, t store.Task) (store.Task, error)
	GetTask(ctx context.Context, id string) (store.Task, error)
	SearchTasksBySubject(ctx context.Context, subject string, limit int) ([]store.Task, error)
	ListTasksByDateRange(ctx context.Context, start, end string) ([]store.Task, error)
	ListRecentTasks(ctx context.Context, limit int) ([]store.Task, error)
	UpdateTask(ctx context.Context, id string, u store.TaskUpdate) (store.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// GoalStore is the goal persistence surface the dispatcher consumes.
type GoalStore interface {
	CreateGoal(ctx context.Context, g store.Goal) (store.Goal, error)
	GetGoal(ctx context.Context, id string) (store.Goal, error)
	ListGoals(ctx context.Context) ([]store.Goal, error)
	SearchGoalsBySubject(ctx context.Context, subject string, limit int) ([]store.Goal, error)
	UpdateGoal(ctx context.Context, id string, u store.GoalUpdate) (store.Goal, error)
	DeleteGoal(ctx context.Context, id string) error
}
