package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alfred-ai/alfred/internal/dispatch"
	"github.com/alfred-ai/alfred/internal/session"
)

// resolvePending interprets the user's answer to an open goal-link question.
// The state clears on a decline, a successful link, or a link error; an
// unrecognized answer keeps the question open and re-asks it.
func (a *Agent) resolvePending(ctx context.Context, p session.PendingConfirmation, raw string) string {
	answer := strings.ToLower(strings.TrimSpace(raw))
	answer = strings.TrimSuffix(answer, ".")

	if answer == "no" || answer == "nope" {
		a.pending.Clear(p.SessionKey)
		return fmt.Sprintf("Okay, task '%s' created without linking a goal.", p.TaskTitle)
	}

	for _, g := range p.Goals {
		if strings.ToLower(g.Title) != answer {
			continue
		}
		if err := a.dispatcher.LinkGoal(ctx, p.TaskID, g.ID); err != nil {
			a.log.Error("goal link failed",
				zap.String("task_id", p.TaskID),
				zap.String("goal_id", g.ID),
				zap.Error(err))
			a.pending.Clear(p.SessionKey)
			return fmt.Sprintf("An error occurred while linking the goal: %s", err)
		}
		a.pending.Clear(p.SessionKey)
		return fmt.Sprintf("Linked task '%s' to goal '%s'.", p.TaskTitle, g.Title)
	}

	return "Invalid response. " + dispatch.GoalLinkPrompt(p.TaskTitle, p.Goals)
}
