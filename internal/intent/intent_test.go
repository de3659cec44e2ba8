package intent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfred-ai/alfred/internal/convo"
	"github.com/alfred-ai/alfred/internal/model"
)

func TestClassifyImperativeIsAction(t *testing.T) {
	c := NewClassifier(nil, nil)

	in := c.Classify(context.Background(), "Create a task to write the report due Friday", nil, nil)
	assert.Equal(t, Action, in.Primary)
	assert.GreaterOrEqual(t, in.Confidence, 0.7)
	assert.Contains(t, in.ActionWords, "create")
}

func TestClassifyQuestionIsQuery(t *testing.T) {
	c := NewClassifier(nil, nil)

	in := c.Classify(context.Background(), "What are my tasks this week?", nil, nil)
	assert.Equal(t, Query, in.Primary)
}

func TestClassifyModelPath(t *testing.T) {
	m := model.NewMock(`{"primary_intent": "plan", "confidence": 0.82, "action_words": [], "requires_confirmation": false}`)
	c := NewClassifier(m, nil)

	in := c.Classify(context.Background(), "maybe we should get organized somehow", nil, convo.NewContext())
	assert.Equal(t, Plan, in.Primary)
	assert.InDelta(t, 0.82, in.Confidence, 0.001)
	require.Len(t, m.Calls, 1)
	assert.True(t, m.Calls[0].JSON)
}

func TestClassifyFailSoftOnTransportError(t *testing.T) {
	m := model.NewMock()
	m.Err = &model.APIError{StatusCode: 503, Message: "unavailable"}
	c := NewClassifier(m, nil)

	in := c.Classify(context.Background(), "hmm, not sure what I need", nil, nil)
	assert.Equal(t, Default(), in)
}

func TestClassifyFailSoftOnMalformedOutput(t *testing.T) {
	m := model.NewMock(`I think the user wants to plan something`)
	c := NewClassifier(m, nil)

	in := c.Classify(context.Background(), "hmm, not sure what I need", nil, nil)
	assert.Equal(t, Default(), in)
}

func TestClassifyFailSoftOnUnknownCategory(t *testing.T) {
	m := model.NewMock(`{"primary_intent": "daydream", "confidence": 0.9}`)
	c := NewClassifier(m, nil)

	in := c.Classify(context.Background(), "whatever comes to mind", nil, nil)
	assert.Equal(t, Default(), in)
}

func TestClassifyPlanTopicBias(t *testing.T) {
	conv := convo.NewContext()
	conv.CurrentTopic = "algorithmic trading strategy"
	c := NewClassifier(nil, nil)

	in := c.Classify(context.Background(), "let's set tasks for these steps", nil, conv)
	assert.Equal(t, Plan, in.Primary)

	// An explicit imperative still wins over the bias.
	in = c.Classify(context.Background(), "create a task for the backtesting step", nil, conv)
	assert.Equal(t, Action, in.Primary)
}
