package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePlainJSON(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	err := Decode(&Response{Text: `{"name": "alfred"}`}, &out)
	require.NoError(t, err)
	assert.Equal(t, "alfred", out.Name)
}

func TestDecodeStripsFences(t *testing.T) {
	var out struct {
		N int `json:"n"`
	}
	err := Decode(&Response{Text: "```json\n{\"n\": 3}\n```"}, &out)
	require.NoError(t, err)
	assert.Equal(t, 3, out.N)
}

func TestDecodeMalformed(t *testing.T) {
	var out map[string]any
	err := Decode(&Response{Text: "sorry, I cannot help with that"}, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedOutput))
}

func TestMockScript(t *testing.T) {
	m := NewMock(`{"a":1}`, `{"a":2}`)

	r1, err := m.Generate(context.Background(), &Request{Prompt: "one"})
	require.NoError(t, err)
	r2, _ := m.Generate(context.Background(), &Request{Prompt: "two"})
	r3, _ := m.Generate(context.Background(), &Request{Prompt: "three"})

	assert.Equal(t, `{"a":1}`, r1.Text)
	assert.Equal(t, `{"a":2}`, r2.Text)
	assert.Equal(t, `{"a":2}`, r3.Text, "last response repeats")
	assert.Len(t, m.Calls, 3)
}

func TestMockError(t *testing.T) {
	m := NewMock()
	m.Err = &APIError{StatusCode: 500, Message: "boom"}

	_, err := m.Generate(context.Background(), &Request{Prompt: "x"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
}
