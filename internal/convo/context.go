// Package convo tracks conversation history and the accumulated context
// (topic, discussion points, next steps) used to ground classification and
// generation across turns.
package convo

import (
	"fmt"
	"strings"
)

// Role tags who produced an utterance.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single utterance in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// DiscussionPoint is one extracted point with its type tag.
type DiscussionPoint struct {
	Content string `json:"content"`
	Type    string `json:"type"`
	Order   int    `json:"order,omitempty"`
}

// Context is the per-conversation accumulated state. Created empty at
// conversation start and folded forward after every conversational turn.
type Context struct {
	CurrentTopic     string
	CurrentStep      string
	DiscussionPoints []DiscussionPoint
	NextSteps        []string
	LastIntent       string
	TopicDetails     map[string][]string
}

// NewContext returns an empty context.
func NewContext() *Context {
	return &Context{
		TopicDetails: make(map[string][]string),
	}
}

// AddPoint appends a discussion point.
func (c *Context) AddPoint(content, pointType string, order int) {
	c.DiscussionPoints = append(c.DiscussionPoints, DiscussionPoint{
		Content: content,
		Type:    pointType,
		Order:   order,
	})
}

// ResponseUpdate is the slice of a generated response that feeds back into
// the context.
type ResponseUpdate struct {
	SuggestedActions []string
	Intent           string
	TopicDetails     map[string][]string
}

// UpdateFromResponse folds the latest assistant response into the context.
// Next steps are replaced wholesale; topic details are appended per topic.
func (c *Context) UpdateFromResponse(u ResponseUpdate) {
	if len(u.SuggestedActions) > 0 {
		c.NextSteps = u.SuggestedActions
	}
	if u.Intent != "" {
		c.LastIntent = u.Intent
	}
	for topic, details := range u.TopicDetails {
		c.TopicDetails[topic] = append(c.TopicDetails[topic], details...)
	}
}

// ToPrompt renders a bounded view of the context for grounding a generation
// call. The window is fixed: the 5 most recent detail lines and points.
func (c *Context) ToPrompt() string {
	var parts []string

	if c.CurrentTopic != "" {
		parts = append(parts, "Current Topic: "+c.CurrentTopic)
		if details, ok := c.TopicDetails[c.CurrentTopic]; ok && len(details) > 0 {
			var b strings.Builder
			b.WriteString("Topic Details:")
			for _, d := range lastN(details, 5) {
				b.WriteString("\n  - " + d)
			}
			parts = append(parts, b.String())
		}
	}

	if c.CurrentStep != "" {
		parts = append(parts, "Current Step: "+c.CurrentStep)
	}

	if len(c.DiscussionPoints) > 0 {
		var b strings.Builder
		b.WriteString("Recent Discussion Points:")
		recent := c.DiscussionPoints
		if len(recent) > 5 {
			recent = recent[len(recent)-5:]
		}
		for _, p := range recent {
			fmt.Fprintf(&b, "\n- %s (%s)", p.Content, p.Type)
		}
		parts = append(parts, b.String())
	}

	if len(c.NextSteps) > 0 {
		var b strings.Builder
		b.WriteString("Planned Next Steps:")
		for _, s := range c.NextSteps {
			b.WriteString("\n- " + s)
		}
		parts = append(parts, b.String())
	}

	return strings.Join(parts, "\n\n")
}

func lastN(s []string, n int) []string {
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}
