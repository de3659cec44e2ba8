package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alfred-ai/alfred/internal/convo"
	"github.com/alfred-ai/alfred/internal/intent"
	"github.com/alfred-ai/alfred/internal/model"
)

// enhancedResponse is the JSON shape a conversational generation returns.
type enhancedResponse struct {
	Response             string              `json:"response"`
	DetectedIntent       intent.Intent       `json:"detected_intent"`
	SuggestedActions     []string            `json:"suggested_actions"`
	RequiresConfirmation bool                `json:"requires_confirmation"`
	TopicDetails         map[string][]string `json:"topic_details"`
}

// planPointTypes are the discussion point tags that describe actionable plan
// steps.
var planPointTypes = map[string]bool{
	"strategy_step":        true,
	"market_research":      true,
	"objectives":           true,
	"data_analysis":        true,
	"strategy_development": true,
	"testing":              true,
	"monitoring":           true,
}

// respond produces a conversational reply for non-action intents. A plan
// breakdown takes precedence when the conversation is mid-plan; model
// failures degrade to a canned reply instead of surfacing an error.
func (a *Agent) respond(ctx context.Context, query string, in intent.Intent, conv *convo.Context) string {
	if reply, ok := planBreakdown(query, conv); ok {
		return reply
	}

	if a.model == nil {
		return fallbackReply(in, conv)
	}

	resp, err := a.model.Generate(ctx, &model.Request{
		System: fmt.Sprintf(conversationPrompt,
			strings.ToUpper(string(in.Primary)), contextSection(conv)),
		Prompt: query,
		JSON:   true,
	})
	if err != nil {
		a.log.Warn("conversational generation failed", zap.Error(err))
		return fallbackReply(in, conv)
	}

	var er enhancedResponse
	if err := model.Decode(resp, &er); err != nil || er.Response == "" {
		a.log.Warn("conversational output malformed", zap.Error(err))
		return fallbackReply(in, conv)
	}

	conv.UpdateFromResponse(convo.ResponseUpdate{
		SuggestedActions: er.SuggestedActions,
		Intent:           string(in.Primary),
		TopicDetails:     er.TopicDetails,
	})

	return appendNextSteps(er.Response, er.SuggestedActions)
}

func contextSection(conv *convo.Context) string {
	if conv == nil {
		return "(none)"
	}
	if p := conv.ToPrompt(); p != "" {
		return p
	}
	return "(none)"
}

// planBreakdown renders the accumulated plan steps as a numbered task list
// when the user asks to turn the active plan into tasks.
func planBreakdown(query string, conv *convo.Context) (string, bool) {
	if conv == nil || !convo.IsPlanTopic(conv.CurrentTopic) {
		return "", false
	}
	lower := strings.ToLower(query)
	if !strings.Contains(lower, "task") &&
		!strings.Contains(lower, "step") &&
		!strings.Contains(lower, "plan") {
		return "", false
	}

	var steps []string
	seen := make(map[string]bool)
	for _, p := range conv.DiscussionPoints {
		if !planPointTypes[p.Type] || seen[p.Content] {
			continue
		}
		seen[p.Content] = true
		steps = append(steps, p.Content)
	}
	if len(steps) == 0 {
		return "", false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here are the %s steps we can turn into tasks:\n", conv.CurrentTopic)
	for i, s := range steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	b.WriteString("\nSay 'create a task for <step>' to add any of these.")
	return b.String(), true
}

func fallbackReply(in intent.Intent, conv *convo.Context) string {
	if conv != nil && conv.CurrentTopic != "" {
		return fmt.Sprintf("I understand we're discussing %s. Could you clarify your last point?", conv.CurrentTopic)
	}
	switch in.Primary {
	case intent.Plan:
		return "I can help you plan that. What would you like to start with?"
	case intent.Query:
		return "I can look that up for you. Could you be more specific about what you'd like to see?"
	default:
		return "I'm happy to discuss that. Could you tell me more?"
	}
}

// appendNextSteps adds suggested actions the reply text does not already
// mention.
func appendNextSteps(reply string, actions []string) string {
	lower := strings.ToLower(reply)
	var missing []string
	for _, action := range actions {
		if action != "" && !strings.Contains(lower, strings.ToLower(action)) {
			missing = append(missing, action)
		}
	}
	if len(missing) == 0 {
		return reply
	}

	var b strings.Builder
	b.WriteString(reply)
	b.WriteString("\n\nNext steps:")
	for _, m := range missing {
		b.WriteString("\n- " + m)
	}
	return b.String()
}

const conversationPrompt = `You are a helpful personal productivity assistant operating in %s mode.

Current Conversation Context:
%s

RESPONSE GUIDELINES:
1. Stay on the current topic and build on earlier discussion points
2. For planning, propose concrete, ordered next steps
3. Keep responses concise and actionable
4. Suggest follow-up actions only when they naturally extend the conversation

Return ONLY a JSON object:
{
  "response": "<your reply to the user>",
  "detected_intent": {"primary_intent": "discuss|plan|action|query", "confidence": 0.0, "action_words": [], "requires_confirmation": false},
  "suggested_actions": [],
  "requires_confirmation": false,
  "topic_details": {}
}`
