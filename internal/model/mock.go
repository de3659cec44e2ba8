package model

import (
	"context"
	"sync"
)

// Mock is a deterministic Model for development and tests.
//
// Scripted responses are returned in order; the last one repeats once the
// script runs out. With no script it returns "{}", which JSON-schema callers
// treat as an empty object and fall back on.
type Mock struct {
	mu        sync.Mutex
	responses []string
	next      int

	// Err, when set, is returned from every Generate call.
	Err error

	// Calls records every request for assertions.
	Calls []*Request
}

// NewMock creates a mock with an optional response script.
func NewMock(responses ...string) *Mock {
	return &Mock{responses: responses}
}

// Generate returns the next scripted response.
func (m *Mock) Generate(ctx context.Context, req *Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}

	text := "{}"
	if len(m.responses) > 0 {
		if m.next < len(m.responses) {
			text = m.responses[m.next]
			m.next++
		} else {
			text = m.responses[len(m.responses)-1]
		}
	}
	return &Response{Text: text, Model: "mock"}, nil
}
