package convo

import (
	"regexp"
	"strings"
)

// planTopics maps a detection substring to its canonical topic name. Once a
// topic is detected it persists as the current topic for the rest of the scan.
var planTopics = map[string]string{
	"algorithmic trading": "algorithmic trading strategy",
	"product launch":      "product launch plan",
	"marketing plan":      "marketing plan",
	"business plan":       "business plan",
}

// IsPlanTopic reports whether topic is a known multi-step plan topic.
func IsPlanTopic(topic string) bool {
	for _, canonical := range planTopics {
		if topic == canonical {
			return true
		}
	}
	return false
}

// pointTypes tags bullet lines by keyword. The tag persists as a running
// state across subsequent lines until another keyword changes it.
var pointTypes = []struct {
	keyword string
	tag     string
}{
	{"market research", "market_research"},
	{"define objectives", "objectives"},
	{"analyze data", "data_analysis"},
	{"test", "testing"},
	{"monitor", "monitoring"},
}

var bulletRe = regexp.MustCompile(`^(?:[•*-]|\d{1,2}\.)\s*`)

// Extract scans the conversation history and builds the accumulated context:
// topic detection by substring, bullet/numbered lines from assistant turns as
// typed discussion points, and topic details for the active topic.
func Extract(history []Message) *Context {
	c := NewContext()

	for _, m := range history {
		content := strings.ToLower(m.Content)
		for needle, topic := range planTopics {
			if strings.Contains(content, needle) {
				c.CurrentTopic = topic
			}
		}

		if m.Role != RoleAssistant {
			continue
		}

		currentType := "general"
		for _, raw := range strings.Split(m.Content, "\n") {
			line := strings.TrimSpace(raw)
			if t, ok := lineType(line); ok {
				currentType = t
			}

			if !bulletRe.MatchString(line) {
				continue
			}
			point := strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
			if point == "" {
				continue
			}

			c.AddPoint(point, currentType, 0)
			if c.CurrentTopic != "" {
				c.TopicDetails[c.CurrentTopic] = append(c.TopicDetails[c.CurrentTopic], point)
			}
		}
	}

	return c
}

func lineType(line string) (string, bool) {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "develop") && strings.Contains(lower, "strategy") {
		return "strategy_development", true
	}
	for _, pt := range pointTypes {
		if strings.Contains(lower, pt.keyword) {
			return pt.tag, true
		}
	}
	return "", false
}
