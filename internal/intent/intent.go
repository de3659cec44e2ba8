// Package intent classifies a conversational turn as discussion, planning,
// query, or an explicit action.
//
// Classification flow:
// 1. Rule-based patterns (instant, free)
// 2. Plan-topic context bias
// 3. Model fallback for ambiguous phrasing
//
// This component never aborts a turn: any failure degrades to the default
// DISCUSS intent.
package intent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alfred-ai/alfred/internal/convo"
	"github.com/alfred-ai/alfred/internal/model"
)

// Type is the coarse classification of a turn.
type Type string

const (
	Discuss Type = "discuss" // General discussion or information gathering
	Plan    Type = "plan"    // Planning or strategizing
	Action  Type = "action"  // Explicit action request
	Query   Type = "query"   // Information request
)

// Intent is the classified intent of one turn.
type Intent struct {
	Primary              Type     `json:"primary_intent"`
	Confidence           float64  `json:"confidence"`
	ActionWords          []string `json:"action_words"`
	RequiresConfirmation bool     `json:"requires_confirmation"`
}

// Default is the fail-soft intent returned when classification cannot run.
func Default() Intent {
	return Intent{
		Primary:     Discuss,
		Confidence:  0.5,
		ActionWords: []string{},
	}
}

// Classifier classifies user intents.
type Classifier struct {
	model         model.Model
	patterns      []*Pattern
	minConfidence float64
	log           *zap.Logger
}

// NewClassifier creates a new intent classifier.
func NewClassifier(m model.Model, log *zap.Logger) *Classifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Classifier{
		model:         m,
		patterns:      defaultPatterns(),
		minConfidence: 0.7,
		log:           log,
	}
}

// Classify determines the intent of the latest utterance. It never returns
// an error; the caller always gets a usable Intent.
func (c *Classifier) Classify(ctx context.Context, query string, history []convo.Message, conv *convo.Context) Intent {
	if in := c.matchPatterns(query); in != nil && in.Confidence >= c.minConfidence {
		return *in
	}

	// When the active topic is a multi-step plan and the utterance talks
	// about steps or tasks without an imperative aimed at the assistant,
	// prefer PLAN over ACTION.
	if biasesToPlan(query, conv) {
		return Intent{Primary: Plan, Confidence: 0.7, ActionWords: []string{}}
	}

	if c.model == nil {
		return Default()
	}
	return c.classifyWithModel(ctx, query, conv)
}

func (c *Classifier) classifyWithModel(ctx context.Context, query string, conv *convo.Context) Intent {
	contextSection := "(none)"
	if conv != nil {
		if p := conv.ToPrompt(); p != "" {
			contextSection = p
		}
	}

	resp, err := c.model.Generate(ctx, &model.Request{
		System: fmt.Sprintf(classificationPrompt, contextSection),
		Prompt: query,
		JSON:   true,
	})
	if err != nil {
		c.log.Warn("intent classification failed, using default", zap.Error(err))
		return Default()
	}

	var in Intent
	if err := model.Decode(resp, &in); err != nil {
		c.log.Warn("intent output malformed, using default", zap.Error(err))
		return Default()
	}

	in.Primary = Type(strings.ToLower(string(in.Primary)))
	switch in.Primary {
	case Discuss, Plan, Action, Query:
	default:
		return Default()
	}
	if in.ActionWords == nil {
		in.ActionWords = []string{}
	}
	return in
}

func biasesToPlan(query string, conv *convo.Context) bool {
	if conv == nil || !convo.IsPlanTopic(conv.CurrentTopic) {
		return false
	}
	lower := strings.ToLower(query)
	mentionsStep := strings.Contains(lower, "task") ||
		strings.Contains(lower, "step") ||
		strings.Contains(lower, "plan")
	return mentionsStep && !imperativeRe.MatchString(lower)
}

const classificationPrompt = `You are an intent classifier for a project management assistant.

Current Conversation Context:
%s

INTENT GUIDELINES:
1. DISCUSS - User wants to talk about, explore, or understand something
2. PLAN - User wants to strategize, organize, or prepare something
3. ACTION - User explicitly wants to create, update, or delete something
4. QUERY - User wants to retrieve information

Consider the conversation context when determining intent. If the active
topic is a multi-step plan and the user mentions tasks or steps, classify
as PLAN unless there is an explicit command telling the assistant to do
something.

Examples:
- "Let's talk about my goals" -> discuss
- "I want to plan my tasks" -> plan
- "Create a new goal called Project X" -> action
- "What are my current tasks?" -> query
- "Let's set tasks for these steps" -> plan (when discussing strategy steps)

Return ONLY a JSON object:
{"primary_intent": "discuss|plan|action|query", "confidence": 0.0-1.0, "action_words": [], "requires_confirmation": false}`
