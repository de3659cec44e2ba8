// Package decision maps a command utterance to a typed tool invocation plus
// a resolved time reference.
package decision

import (
	"fmt"

	"github.com/alfred-ai/alfred/internal/timeref"
)

// ToolName identifies one operation in the dispatch enumeration.
type ToolName string

const (
	ToolCreateTask           ToolName = "create_task"
	ToolSearchTasks          ToolName = "search_tasks_by_subject"
	ToolGetTask              ToolName = "get_task"
	ToolListTasksByDateRange ToolName = "list_tasks_by_date_range"
	ToolUpdateTask           ToolName = "update_task"
	ToolDeleteTask           ToolName = "delete_task"
	ToolCreateGoal           ToolName = "create_goal"
	ToolGetGoal              ToolName = "get_goal"
	ToolUpdateGoal           ToolName = "update_goal"
	ToolDeleteGoal           ToolName = "delete_goal"
	ToolListGoals            ToolName = "list_goals"
	ToolSearchGoals          ToolName = "search_goals_by_subject"
)

// ToolInput is the tagged union of tool argument payloads. Exactly one
// concrete variant corresponds to each ToolName; the dispatcher switches on
// the variant, so an input/name mismatch cannot reach execution.
type ToolInput interface {
	toolInput()
}

// CreateTask creates a new task. DueDate stays empty when the utterance has
// no explicit date; the dispatcher merges the resolved time context then.
type CreateTask struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Completed   bool   `json:"completed,omitempty"`
}

// SearchTasks finds tasks by free-text subject.
type SearchTasks struct {
	Subject string `json:"subject"`
}

// GetTask fetches one task by stored identifier.
type GetTask struct {
	ID string `json:"id"`
}

// ListTasksByDateRange lists tasks due inside [StartDate, EndDate].
type ListTasksByDateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// UpdateTask updates the task referenced by Subject. The model never fills
// ID; the dispatcher resolves Subject to an identifier first. Nil fields are
// left untouched.
type UpdateTask struct {
	Subject     string  `json:"subject"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
	GoalID      *string `json:"goal_id,omitempty"`
}

// DeleteTask removes the task referenced by Subject.
type DeleteTask struct {
	Subject string `json:"subject"`
}

// CreateGoal creates a new goal.
type CreateGoal struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	TargetDate  string `json:"target_date,omitempty"`
	Completed   bool   `json:"completed,omitempty"`
}

// GetGoal fetches one goal by stored identifier.
type GetGoal struct {
	ID string `json:"id"`
}

// UpdateGoal updates the goal referenced by Subject. Same resolution rules
// as UpdateTask.
type UpdateGoal struct {
	Subject     string  `json:"subject"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	TargetDate  *string `json:"target_date,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// DeleteGoal removes a goal by subject, or by id as a fallback.
type DeleteGoal struct {
	Subject string `json:"subject,omitempty"`
	ID      string `json:"id,omitempty"`
}

// ListGoals lists every goal.
type ListGoals struct{}

// SearchGoals finds goals by free-text subject.
type SearchGoals struct {
	Subject string `json:"subject"`
}

func (CreateTask) toolInput()           {}
func (SearchTasks) toolInput()          {}
func (GetTask) toolInput()              {}
func (ListTasksByDateRange) toolInput() {}
func (UpdateTask) toolInput()           {}
func (DeleteTask) toolInput()           {}
func (CreateGoal) toolInput()           {}
func (GetGoal) toolInput()              {}
func (UpdateGoal) toolInput()           {}
func (DeleteGoal) toolInput()           {}
func (ListGoals) toolInput()            {}
func (SearchGoals) toolInput()          {}

// Decision is the structured output naming a tool and its validated payload.
// Time carries the utterance's resolved time context forward unchanged for
// the dispatcher.
type Decision struct {
	Tool  ToolName
	Input ToolInput
	Time  timeref.Context
}

// ParseError reports generation output that does not validate against any
// known tool schema.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decision parse: %s: %v", e.Reason, e.Err)
	}
	return "decision parse: " + e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
