// Package model provides the generation interface and clients for LLM access.
package model

import (
	"context"
	"fmt"
)

// Model is the generation collaborator. Implementations must return an
// *APIError for transport/provider failures; schema validation of the output
// text is the caller's concern (see Decode).
type Model interface {
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// Request represents a generation request.
type Request struct {
	System      string  `json:"system,omitempty"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	JSON        bool    `json:"json,omitempty"` // Request JSON output
}

// Response represents a generation response.
type Response struct {
	Text       string `json:"text"`
	TokensUsed int    `json:"tokens_used"`
	Model      string `json:"model"`
	DurationMs int64  `json:"duration_ms"`
}

// APIError is a transport or provider failure, as opposed to output that
// arrived but failed validation.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("model API error (status %d): %s", e.StatusCode, e.Message)
	}
	return "model API error: " + e.Message
}
