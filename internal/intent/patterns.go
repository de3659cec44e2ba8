package intent

import (
	"regexp"
	"strings"
)

// Pattern is a rule for matching obvious intents without a model call.
type Pattern struct {
	ID         string
	Type       Type
	Keywords   []string
	Regex      *regexp.Regexp
	Confidence float64
}

// Matches checks if the pattern matches the given message.
func (p *Pattern) Matches(message string) bool {
	msg := strings.ToLower(message)

	if len(p.Keywords) > 0 {
		matched := false
		for _, kw := range p.Keywords {
			if strings.Contains(msg, strings.ToLower(kw)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if p.Regex != nil {
		return p.Regex.MatchString(msg)
	}
	return true
}

// imperativeRe detects a command aimed directly at the assistant.
var imperativeRe = regexp.MustCompile(`^\s*(create|add|make|delete|remove|update|change|set|mark|complete|finish)\b`)

// defaultPatterns returns the rule layer evaluated before the model.
// Only unambiguous phrasings belong here; everything else goes to the model.
func defaultPatterns() []*Pattern {
	return []*Pattern{
		{
			ID:         "action_imperative",
			Type:       Action,
			Regex:      imperativeRe,
			Confidence: 0.9,
		},
		{
			ID:         "query_question",
			Type:       Query,
			Keywords:   []string{"task", "goal"},
			Regex:      regexp.MustCompile(`^\s*(what|which|show me|list|how many|do i have)\b`),
			Confidence: 0.85,
		},
		{
			ID:         "plan_explicit",
			Type:       Plan,
			Regex:      regexp.MustCompile(`^\s*(let'?s plan|help me plan|plan my|i want to plan)\b`),
			Confidence: 0.8,
		},
		{
			ID:         "discuss_explicit",
			Type:       Discuss,
			Regex:      regexp.MustCompile(`^\s*(let'?s talk|tell me about|i'?m thinking about)\b`),
			Confidence: 0.75,
		},
	}
}

func (c *Classifier) matchPatterns(message string) *Intent {
	for _, p := range c.patterns {
		if p.Matches(message) {
			return &Intent{
				Primary:     p.Type,
				Confidence:  p.Confidence,
				ActionWords: actionWords(message),
			}
		}
	}
	return nil
}

var actionWordRe = regexp.MustCompile(`\b(create|add|delete|remove|update|change|set|mark|complete|finish|link)\b`)

func actionWords(message string) []string {
	words := actionWordRe.FindAllString(strings.ToLower(message), -1)
	if words == nil {
		return []string{}
	}
	return words
}
