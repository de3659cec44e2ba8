package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedOutput marks generation output that arrived but did not
// validate against the expected schema. Distinct from *APIError so callers
// can pick the right fallback.
var ErrMalformedOutput = errors.New("malformed model output")

// Decode parses the response text into v. Markdown code fences are stripped
// first, since models wrap JSON in them even when told not to.
func Decode(resp *Response, v any) error {
	text := stripFences(strings.TrimSpace(resp.Text))
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return nil
}

func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
