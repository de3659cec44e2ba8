package decision

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/alfred-ai/alfred/internal/model"
	"github.com/alfred-ai/alfred/internal/timeref"
)

// Parser turns a command utterance into a Decision.
type Parser struct {
	model model.Model
	times *timeref.Resolver
	log   *zap.Logger
}

// NewParser creates a decision parser.
func NewParser(m model.Model, times *timeref.Resolver, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{model: m, times: times, log: log}
}

// envelope is the JSON shape the model returns.
type envelope struct {
	ToolName  ToolName        `json:"tool_name"`
	ToolInput json.RawMessage `json:"tool_input"`
}

// Parse resolves the utterance's time context, asks the model for a tool
// decision grounded on it, and decodes the result into a typed Decision.
// Transport failures pass through; invalid output becomes a *ParseError.
func (p *Parser) Parse(ctx context.Context, query string) (*Decision, error) {
	tc := p.times.Resolve(query)

	resp, err := p.model.Generate(ctx, &model.Request{
		System: systemPrompt(tc),
		Prompt: query,
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := model.Decode(resp, &env); err != nil {
		return nil, &ParseError{Reason: "output is not a decision object", Err: err}
	}

	input, err := decodeInput(env.ToolName, env.ToolInput)
	if err != nil {
		return nil, err
	}

	d := &Decision{Tool: env.ToolName, Input: input, Time: tc}
	if err := validate(d); err != nil {
		return nil, err
	}

	p.log.Debug("parsed decision",
		zap.String("tool", string(d.Tool)),
		zap.String("time_context", tc.Formatted))
	return d, nil
}

func decodeInput(name ToolName, raw json.RawMessage) (ToolInput, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}

	unmarshal := func(v ToolInput) (ToolInput, error) {
		if err := json.Unmarshal(raw, v); err != nil {
			return nil, &ParseError{
				Reason: fmt.Sprintf("tool_input does not match %q schema", name),
				Err:    err,
			}
		}
		return v, nil
	}

	switch name {
	case ToolCreateTask:
		return unmarshal(&CreateTask{})
	case ToolSearchTasks:
		return unmarshal(&SearchTasks{})
	case ToolGetTask:
		return unmarshal(&GetTask{})
	case ToolListTasksByDateRange:
		return unmarshal(&ListTasksByDateRange{})
	case ToolUpdateTask:
		return unmarshal(&UpdateTask{})
	case ToolDeleteTask:
		return unmarshal(&DeleteTask{})
	case ToolCreateGoal:
		return unmarshal(&CreateGoal{})
	case ToolGetGoal:
		return unmarshal(&GetGoal{})
	case ToolUpdateGoal:
		return unmarshal(&UpdateGoal{})
	case ToolDeleteGoal:
		return unmarshal(&DeleteGoal{})
	case ToolListGoals:
		return unmarshal(&ListGoals{})
	case ToolSearchGoals:
		return unmarshal(&SearchGoals{})
	default:
		return nil, &ParseError{Reason: fmt.Sprintf("unknown tool %q", name)}
	}
}

// validate enforces the required fields each tool cannot run without.
// Subject resolution rules (update/delete) are the dispatcher's concern and
// surface as user-facing messages there instead.
func validate(d *Decision) error {
	missing := func(field string) error {
		return &ParseError{Reason: fmt.Sprintf("%s requires %s", d.Tool, field)}
	}

	switch in := d.Input.(type) {
	case *CreateTask:
		if in.Title == "" {
			return missing("title")
		}
	case *SearchTasks:
		if in.Subject == "" {
			return missing("subject")
		}
	case *GetTask:
		if in.ID == "" {
			return missing("id")
		}
	case *ListTasksByDateRange:
		if in.StartDate == "" || in.EndDate == "" {
			return missing("start_date and end_date")
		}
	case *CreateGoal:
		if in.Title == "" {
			return missing("title")
		}
	case *GetGoal:
		if in.ID == "" {
			return missing("id")
		}
	case *SearchGoals:
		if in.Subject == "" {
			return missing("subject")
		}
	}
	return nil
}
