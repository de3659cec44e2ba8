// Package agent orchestrates one assistant step: pending confirmation
// resolution, intent classification, then either tool dispatch or a
// conversational reply.
package agent

import (
	"context"

	"go.uber.org/zap"

	"github.com/alfred-ai/alfred/internal/convo"
	"github.com/alfred-ai/alfred/internal/decision"
	"github.com/alfred-ai/alfred/internal/dispatch"
	"github.com/alfred-ai/alfred/internal/intent"
	"github.com/alfred-ai/alfred/internal/model"
	"github.com/alfred-ai/alfred/internal/session"
)

const rephraseMessage = "I'm having trouble processing your action request. Could you please rephrase it more explicitly? For example: 'Create a goal called X' or 'Update task Y'"

// Config collects the agent's collaborators.
type Config struct {
	Model      model.Model
	Intents    *intent.Classifier
	Parser     *decision.Parser
	Dispatcher *dispatch.Dispatcher
	Pending    session.Store
	Log        *zap.Logger
}

// Agent runs the per-turn decision loop.
type Agent struct {
	model      model.Model
	intents    *intent.Classifier
	parser     *decision.Parser
	dispatcher *dispatch.Dispatcher
	pending    session.Store
	locks      *session.KeyedMutex
	log        *zap.Logger
}

// New creates an Agent.
func New(cfg Config) *Agent {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Agent{
		model:      cfg.Model,
		intents:    cfg.Intents,
		parser:     cfg.Parser,
		dispatcher: cfg.Dispatcher,
		pending:    cfg.Pending,
		locks:      session.NewKeyedMutex(),
		log:        log,
	}
}

// Step processes the latest user message in history and returns the reply.
// Steps for the same session key run one at a time.
func (a *Agent) Step(ctx context.Context, sessionKey string, history []convo.Message) string {
	unlock := a.locks.Lock(sessionKey)
	defer unlock()

	query := latestUserMessage(history)
	if query == "" {
		return "How can I help you today?"
	}

	// An unanswered confirmation consumes the turn before anything else.
	if p, ok := a.pending.Get(sessionKey); ok {
		return a.resolvePending(ctx, p, query)
	}

	conv := convo.Extract(history)
	in := a.intents.Classify(ctx, query, history, conv)

	a.log.Info("classified step",
		zap.String("session", sessionKey),
		zap.String("intent", string(in.Primary)),
		zap.Float64("confidence", in.Confidence))

	if in.Primary != intent.Action {
		return a.respond(ctx, query, in, conv)
	}

	dec, err := a.parser.Parse(ctx, query)
	if err != nil {
		a.log.Warn("decision parse failed", zap.Error(err))
		return rephraseMessage
	}
	return a.dispatcher.Execute(ctx, sessionKey, dec)
}

func latestUserMessage(history []convo.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == convo.RoleUser {
			return history[i].Content
		}
	}
	return ""
}
