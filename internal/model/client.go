// OpenAI-compatible chat completions client.
package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ClientConfig configures the chat completions client.
type ClientConfig struct {
	APIKey     string
	BaseURL    string // Default: https://api.openai.com/v1
	Model      string // e.g., "gpt-4o-mini"
	Timeout    time.Duration
	MaxRetries int
}

// DefaultClientConfig returns default configuration.
func DefaultClientConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:     apiKey,
		BaseURL:    "https://api.openai.com/v1",
		Model:      "gpt-4o-mini",
		Timeout:    120 * time.Second,
		MaxRetries: 3,
	}
}

// Client implements Model against any OpenAI-compatible endpoint.
type Client struct {
	cfg    *ClientConfig
	client *http.Client
}

// NewClient creates a new client.
func NewClient(cfg *ClientConfig) *Client {
	if cfg == nil {
		return nil
	}
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Generate sends a prompt to the provider and returns the response.
func (c *Client) Generate(ctx context.Context, req *Request) (*Response, error) {
	if c == nil {
		return nil, &APIError{Message: "client not initialized"}
	}
	start := time.Now()

	messages := []map[string]string{}
	if req.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": req.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": req.Prompt})

	body := map[string]any{
		"model":    c.cfg.Model,
		"messages": messages,
	}
	if req.JSON {
		body["response_format"] = map[string]string{"type": "json_object"}
	}
	if req.MaxTokens > 0 {
		body["max_tokens"] = req.MaxTokens
	}
	if req.Temperature > 0 {
		body["temperature"] = req.Temperature
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("failed to marshal request: %v", err)}
	}

	// Make request with retries
	var lastErr *APIError
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff
			select {
			case <-ctx.Done():
				return nil, &APIError{Message: ctx.Err().Error()}
			case <-time.After(time.Duration(1<<uint(attempt-1)) * time.Second):
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/chat/completions", bytes.NewReader(jsonBody))
		if err != nil {
			return nil, &APIError{Message: fmt.Sprintf("failed to create request: %v", err)}
		}

		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

		resp, err := c.client.Do(httpReq)
		if err != nil {
			lastErr = &APIError{Message: err.Error()}
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = &APIError{Message: "failed to read response: " + err.Error()}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
			continue
		}

		var cr chatCompletionResponse
		if err := json.Unmarshal(respBody, &cr); err != nil {
			lastErr = &APIError{Message: "failed to parse response: " + err.Error()}
			continue
		}

		if len(cr.Choices) == 0 {
			lastErr = &APIError{Message: "no choices in response"}
			continue
		}

		return &Response{
			Text:       cr.Choices[0].Message.Content,
			TokensUsed: cr.Usage.TotalTokens,
			Model:      cr.Model,
			DurationMs: time.Since(start).Milliseconds(),
		}, nil
	}

	return nil, lastErr
}
