// Package dispatch executes parsed decisions against the task and goal
// stores and renders user-facing result messages.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alfred-ai/alfred/internal/decision"
	"github.com/alfred-ai/alfred/internal/session"
	"github.com/alfred-ai/alfred/internal/store"
)

const recentTaskFallbackLimit = 5

// Dispatcher routes a Decision to the matching store operation. Every path
// returns a user-facing message; store errors are folded into the message
// rather than propagated.
type Dispatcher struct {
	tasks   TaskStore
	goals   GoalStore
	pending session.Store
	log     *zap.Logger
}

// New creates a Dispatcher.
func New(tasks TaskStore, goals GoalStore, pending session.Store, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{tasks: tasks, goals: goals, pending: pending, log: log}
}

// Execute runs the decision for the given session and returns the reply.
func (d *Dispatcher) Execute(ctx context.Context, sessionKey string, dec *decision.Decision) string {
	d.log.Info("dispatching tool",
		zap.String("session", sessionKey),
		zap.String("tool", string(dec.Tool)))

	switch in := dec.Input.(type) {
	case *decision.CreateTask:
		return d.createTask(ctx, sessionKey, dec, in)
	case *decision.SearchTasks:
		return d.searchTasks(ctx, in)
	case *decision.GetTask:
		return d.getTask(ctx, in)
	case *decision.ListTasksByDateRange:
		return d.listTasksByDateRange(ctx, in)
	case *decision.UpdateTask:
		return d.updateTask(ctx, in)
	case *decision.DeleteTask:
		return d.deleteTask(ctx, in)
	case *decision.CreateGoal:
		return d.createGoal(ctx, dec, in)
	case *decision.GetGoal:
		return d.getGoal(ctx, in)
	case *decision.UpdateGoal:
		return d.updateGoal(ctx, in)
	case *decision.DeleteGoal:
		return d.deleteGoal(ctx, in)
	case *decision.ListGoals:
		return d.listGoals(ctx)
	case *decision.SearchGoals:
		return d.searchGoals(ctx, in)
	default:
		return "Unknown tool. Be more specific with your request."
	}
}

// LinkGoal attaches a goal to a task. Used when a pending goal-link
// confirmation resolves to a goal choice.
func (d *Dispatcher) LinkGoal(ctx context.Context, taskID, goalID string) error {
	_, err := d.tasks.UpdateTask(ctx, taskID, store.TaskUpdate{GoalID: &goalID})
	return err
}

func (d *Dispatcher) createTask(ctx context.Context, sessionKey string, dec *decision.Decision, in *decision.CreateTask) string {
	if in.DueDate == "" && !dec.Time.Empty() {
		in.DueDate = dec.Time.Date()
	}

	task, err := d.tasks.CreateTask(ctx, store.Task{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Completed:   in.Completed,
	})
	if err != nil {
		d.log.Error("create task failed", zap.Error(err))
		return fmt.Sprintf("Error creating task: %s", err)
	}

	goals, err := d.goals.ListGoals(ctx)
	if err != nil {
		d.log.Warn("listing goals for link prompt failed", zap.Error(err))
		goals = nil
	}
	if len(goals) > 0 {
		refs := make([]session.GoalRef, len(goals))
		for i, g := range goals {
			refs[i] = session.GoalRef{ID: g.ID, Title: g.Title}
		}
		d.pending.Put(session.PendingConfirmation{
			SessionKey: sessionKey,
			TaskID:     task.ID,
			TaskTitle:  task.Title,
			Goals:      refs,
		})
		return GoalLinkPrompt(task.Title, refs)
	}

	if task.DueDate != "" {
		return fmt.Sprintf("Created task '%s' with due date %s", task.Title, task.DueDate)
	}
	return fmt.Sprintf("Created task '%s'", task.Title)
}

// GoalLinkPrompt renders the confirmation question offering to link a just
// created task to one of the existing goals.
func GoalLinkPrompt(taskTitle string, goals []session.GoalRef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Created task '%s'. Would you like to link it to a goal?\n", taskTitle)
	for i, g := range goals {
		fmt.Fprintf(&b, " %d. %s\n", i+1, g.Title)
	}
	b.WriteString("\nPlease respond with the goal title or 'No'.")
	return b.String()
}

func (d *Dispatcher) searchTasks(ctx context.Context, in *decision.SearchTasks) string {
	tasks, err := d.tasks.SearchTasksBySubject(ctx, in.Subject, 10)
	if err != nil {
		return fmt.Sprintf("Error searching tasks: %s", err)
	}
	if len(tasks) > 0 {
		return fmt.Sprintf("Found %d tasks: %s", len(tasks), taskTitles(tasks))
	}

	recent, err := d.tasks.ListRecentTasks(ctx, recentTaskFallbackLimit)
	if err != nil || len(recent) == 0 {
		return "The specified task was not found."
	}
	return fmt.Sprintf("The specified task was not found. Here are the recent tasks: %s", taskTitles(recent))
}

func (d *Dispatcher) getTask(ctx context.Context, in *decision.GetTask) string {
	task, err := d.tasks.GetTask(ctx, in.ID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Sprintf("No task found with ID '%s'", in.ID)
	}
	if err != nil {
		return fmt.Sprintf("Error getting task: %s", err)
	}
	return describeTask(task)
}

func (d *Dispatcher) listTasksByDateRange(ctx context.Context, in *decision.ListTasksByDateRange) string {
	tasks, err := d.tasks.ListTasksByDateRange(ctx, in.StartDate, in.EndDate)
	if err != nil {
		return fmt.Sprintf("Error listing tasks: %s", err)
	}
	if len(tasks) == 0 {
		return "No tasks found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d tasks between %s and %s:\n", len(tasks), in.StartDate, in.EndDate)
	for _, t := range tasks {
		fmt.Fprintf(&b, "- %s (due %s)\n", t.Title, t.DueDate)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (d *Dispatcher) updateTask(ctx context.Context, in *decision.UpdateTask) string {
	if in.Subject == "" {
		return "Cannot update task: No subject provided"
	}

	matches, err := d.tasks.SearchTasksBySubject(ctx, in.Subject, 1)
	if err != nil {
		return fmt.Sprintf("Error updating task: %s", err)
	}
	if len(matches) == 0 {
		return fmt.Sprintf("No task found matching '%s'", in.Subject)
	}
	target := matches[0]

	update := store.TaskUpdate{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Completed:   in.Completed,
		GoalID:      in.GoalID,
	}

	var changes []string
	if in.Title != nil {
		changes = append(changes, fmt.Sprintf("title to '%s'", *in.Title))
	}
	if in.Description != nil {
		changes = append(changes, "description")
	}
	if in.DueDate != nil {
		changes = append(changes, fmt.Sprintf("due date to %s", *in.DueDate))
	}
	if in.Priority != nil {
		changes = append(changes, fmt.Sprintf("priority to %s", *in.Priority))
	}
	if in.Completed != nil {
		if *in.Completed {
			changes = append(changes, "marked complete")
		} else {
			changes = append(changes, "marked incomplete")
		}
	}
	if in.GoalID != nil {
		changes = append(changes, "linked goal")
	}
	if len(changes) == 0 {
		return fmt.Sprintf("No changes specified for task '%s'", target.Title)
	}

	updated, err := d.tasks.UpdateTask(ctx, target.ID, update)
	if err != nil {
		return fmt.Sprintf("Error updating task: %s", err)
	}
	return fmt.Sprintf("Updated task '%s' (%s)", updated.Title, strings.Join(changes, ", "))
}

func (d *Dispatcher) deleteTask(ctx context.Context, in *decision.DeleteTask) string {
	if in.Subject == "" {
		return "Cannot delete task: No subject provided"
	}

	matches, err := d.tasks.SearchTasksBySubject(ctx, in.Subject, 1)
	if err != nil {
		return fmt.Sprintf("Error deleting task: %s", err)
	}
	if len(matches) == 0 {
		return fmt.Sprintf("No task found matching '%s'", in.Subject)
	}

	if err := d.tasks.DeleteTask(ctx, matches[0].ID); err != nil {
		return fmt.Sprintf("Error deleting task: %s", err)
	}
	return fmt.Sprintf("Deleted task '%s'", matches[0].Title)
}

func (d *Dispatcher) createGoal(ctx context.Context, dec *decision.Decision, in *decision.CreateGoal) string {
	if in.TargetDate == "" && !dec.Time.Empty() {
		in.TargetDate = dec.Time.Date()
	}

	goal, err := d.goals.CreateGoal(ctx, store.Goal{
		Title:       in.Title,
		Description: in.Description,
		TargetDate:  in.TargetDate,
		Completed:   in.Completed,
	})
	if err != nil {
		return fmt.Sprintf("Error creating goal: %s", err)
	}
	if goal.TargetDate != "" {
		return fmt.Sprintf("Created goal '%s' with target date %s", goal.Title, goal.TargetDate)
	}
	return fmt.Sprintf("Created goal '%s'", goal.Title)
}

func (d *Dispatcher) getGoal(ctx context.Context, in *decision.GetGoal) string {
	goal, err := d.goals.GetGoal(ctx, in.ID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Sprintf("No goal found with ID '%s'", in.ID)
	}
	if err != nil {
		return fmt.Sprintf("Error getting goal: %s", err)
	}
	return describeGoal(goal)
}

func (d *Dispatcher) updateGoal(ctx context.Context, in *decision.UpdateGoal) string {
	if in.Subject == "" {
		return "Cannot update goal: No subject provided"
	}

	matches, err := d.goals.SearchGoalsBySubject(ctx, in.Subject, 1)
	if err != nil {
		return fmt.Sprintf("Error updating goal: %s", err)
	}
	if len(matches) == 0 {
		return fmt.Sprintf("No goal found matching '%s'", in.Subject)
	}
	target := matches[0]

	var changes []string
	if in.Title != nil {
		changes = append(changes, fmt.Sprintf("title to '%s'", *in.Title))
	}
	if in.Description != nil {
		changes = append(changes, "description")
	}
	if in.TargetDate != nil {
		changes = append(changes, fmt.Sprintf("target date to %s", *in.TargetDate))
	}
	if in.Completed != nil {
		if *in.Completed {
			changes = append(changes, "marked complete")
		} else {
			changes = append(changes, "marked incomplete")
		}
	}
	if len(changes) == 0 {
		return fmt.Sprintf("No changes specified for goal '%s'", target.Title)
	}

	updated, err := d.goals.UpdateGoal(ctx, target.ID, store.GoalUpdate{
		Title:       in.Title,
		Description: in.Description,
		TargetDate:  in.TargetDate,
		Completed:   in.Completed,
	})
	if err != nil {
		return fmt.Sprintf("Error updating goal: %s", err)
	}
	return fmt.Sprintf("Updated goal '%s' (%s)", updated.Title, strings.Join(changes, ", "))
}

func (d *Dispatcher) deleteGoal(ctx context.Context, in *decision.DeleteGoal) string {
	switch {
	case in.Subject != "":
		matches, err := d.goals.SearchGoalsBySubject(ctx, in.Subject, 1)
		if err != nil {
			return fmt.Sprintf("Error deleting goal: %s", err)
		}
		if len(matches) == 0 {
			return fmt.Sprintf("No goal found matching '%s'", in.Subject)
		}
		if err := d.goals.DeleteGoal(ctx, matches[0].ID); err != nil {
			return fmt.Sprintf("Error deleting goal: %s", err)
		}
		return fmt.Sprintf("Deleted goal '%s'", matches[0].Title)
	case in.ID != "":
		goal, err := d.goals.GetGoal(ctx, in.ID)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Sprintf("No goal found with ID '%s'", in.ID)
		}
		if err != nil {
			return fmt.Sprintf("Error deleting goal: %s", err)
		}
		if err := d.goals.DeleteGoal(ctx, in.ID); err != nil {
			return fmt.Sprintf("Error deleting goal: %s", err)
		}
		return fmt.Sprintf("Deleted goal '%s'", goal.Title)
	default:
		return "Cannot delete goal: No goal ID or subject provided"
	}
}

func (d *Dispatcher) listGoals(ctx context.Context) string {
	goals, err := d.goals.ListGoals(ctx)
	if err != nil {
		return fmt.Sprintf("Error listing goals: %s", err)
	}
	if len(goals) == 0 {
		return "You don't have any goals yet."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d goals:\n", len(goals))
	for _, g := range goals {
		if g.TargetDate != "" {
			fmt.Fprintf(&b, "- %s (target %s)\n", g.Title, g.TargetDate)
		} else {
			fmt.Fprintf(&b, "- %s\n", g.Title)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (d *Dispatcher) searchGoals(ctx context.Context, in *decision.SearchGoals) string {
	goals, err := d.goals.SearchGoalsBySubject(ctx, in.Subject, 10)
	if err != nil {
		return fmt.Sprintf("Error searching goals: %s", err)
	}
	if len(goals) == 0 {
		return fmt.Sprintf("No goals found matching '%s'", in.Subject)
	}

	titles := make([]string, len(goals))
	for i, g := range goals {
		titles[i] = g.Title
	}
	return fmt.Sprintf("Found %d goals: %s", len(goals), strings.Join(titles, ", "))
}

func taskTitles(tasks []store.Task) string {
	titles := make([]string, len(tasks))
	for i, t := range tasks {
		titles[i] = t.Title
	}
	return strings.Join(titles, ", ")
}

func describeTask(t store.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task '%s'", t.Title)
	if t.DueDate != "" {
		fmt.Fprintf(&b, ", due %s", t.DueDate)
	}
	if t.Priority != "" {
		fmt.Fprintf(&b, ", priority %s", t.Priority)
	}
	if t.Completed {
		b.WriteString(", completed")
	}
	if t.Description != "" {
		fmt.Fprintf(&b, ": %s", t.Description)
	}
	return b.String()
}

func describeGoal(g store.Goal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Goal '%s'", g.Title)
	if g.TargetDate != "" {
		fmt.Fprintf(&b, ", target %s", g.TargetDate)
	}
	if g.Completed {
		b.WriteString(", completed")
	}
	if g.Description != "" {
		fmt.Fprintf(&b, ": %s", g.Description)
	}
	return b.String()
}
