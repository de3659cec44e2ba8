package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTaskCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateTask(ctx, Task{
		Title:    "Write report",
		DueDate:  "2025-03-14",
		Priority: "high",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write report", got.Title)
	assert.Equal(t, "2025-03-14", got.DueDate)
	assert.False(t, got.Completed)

	completed := true
	title := "Write quarterly report"
	updated, err := s.UpdateTask(ctx, created.ID, TaskUpdate{
		Title:     &title,
		Completed: &completed,
	})
	require.NoError(t, err)
	assert.Equal(t, "Write quarterly report", updated.Title)
	assert.True(t, updated.Completed)
	assert.Equal(t, "2025-03-14", updated.DueDate, "untouched fields survive")

	require.NoError(t, s.DeleteTask(ctx, created.ID))
	_, err = s.GetTask(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskUpdateMissing(t *testing.T) {
	s := newTestStore(t)
	done := true
	_, err := s.UpdateTask(context.Background(), "no-such-id", TaskUpdate{Completed: &done})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchTasksBySubject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateTask(ctx, Task{Title: "Dentist appointment"})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, Task{Title: "Groceries", Description: "pick up after dentist"})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, Task{Title: "Unrelated"})
	require.NoError(t, err)

	tasks, err := s.SearchTasksBySubject(ctx, "dentist", 10)
	require.NoError(t, err)
	assert.Len(t, tasks, 2, "matches title and description")

	tasks, err = s.SearchTasksBySubject(ctx, "dentist", 1)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	tasks, err = s.SearchTasksBySubject(ctx, "plumber", 10)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestListTasksByDateRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, tc := range []struct{ title, due string }{
		{"before", "2025-03-01"},
		{"start edge", "2025-03-10"},
		{"inside", "2025-03-12"},
		{"end edge", "2025-03-16"},
		{"after", "2025-03-20"},
		{"no due date", ""},
	} {
		_, err := s.CreateTask(ctx, Task{Title: tc.title, DueDate: tc.due})
		require.NoError(t, err)
	}

	tasks, err := s.ListTasksByDateRange(ctx, "2025-03-10", "2025-03-16")
	require.NoError(t, err)
	require.Len(t, tasks, 3, "range is inclusive, undated tasks excluded")
	assert.Equal(t, "start edge", tasks[0].Title)
	assert.Equal(t, "end edge", tasks[2].Title)
}

func TestListRecentTasks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three"} {
		_, err := s.CreateTask(ctx, Task{Title: title})
		require.NoError(t, err)
	}

	tasks, err := s.ListRecentTasks(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestGoalCRUDAndLinking(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	goal, err := s.CreateGoal(ctx, Goal{Title: "Get Fit", TargetDate: "2025-12-31"})
	require.NoError(t, err)

	got, err := s.GetGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Get Fit", got.Title)

	task, err := s.CreateTask(ctx, Task{Title: "Morning run"})
	require.NoError(t, err)

	linked, err := s.UpdateTask(ctx, task.ID, TaskUpdate{GoalID: &goal.ID})
	require.NoError(t, err)
	assert.Equal(t, goal.ID, linked.GoalID)

	byGoal, err := s.ListTasksByGoal(ctx, goal.ID)
	require.NoError(t, err)
	require.Len(t, byGoal, 1)
	assert.Equal(t, "Morning run", byGoal[0].Title)

	desc := "run 5k three times a week"
	updated, err := s.UpdateGoal(ctx, goal.ID, GoalUpdate{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, updated.Description)

	require.NoError(t, s.DeleteGoal(ctx, goal.ID))
	_, err = s.GetGoal(ctx, goal.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchGoalsBySubject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateGoal(ctx, Goal{Title: "Learn Spanish"})
	require.NoError(t, err)
	_, err = s.CreateGoal(ctx, Goal{Title: "Save money"})
	require.NoError(t, err)

	goals, err := s.SearchGoalsBySubject(ctx, "spanish", 10)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "Learn Spanish", goals[0].Title)
}

func TestListGoalsEmpty(t *testing.T) {
	s := newTestStore(t)
	goals, err := s.ListGoals(context.Background())
	require.NoError(t, err)
	assert.Empty(t, goals)
}
