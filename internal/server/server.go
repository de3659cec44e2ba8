// Package server exposes the agent over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/alfred-ai/alfred/internal/convo"
)

// Stepper runs one agent step for a session.
type Stepper interface {
	Step(ctx context.Context, sessionKey string, history []convo.Message) string
}

// Server is the HTTP front for the agent.
type Server struct {
	agent Stepper
	log   *zap.Logger
	mux   *http.ServeMux
}

// New creates a Server with its routes registered.
func New(agent Stepper, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{agent: agent, log: log, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /v1/chat", s.handleChat)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

// Handler returns the server's handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return chain(s.mux, s.logging, cors)
}

// chatRequest is the POST /v1/chat payload.
type chatRequest struct {
	SessionID string          `json:"session_id"`
	Messages  []convo.Message `json:"messages"`
}

// chatResponse is the POST /v1/chat reply.
type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages is required")
		return
	}

	reply := s.agent.Step(r.Context(), req.SessionID, req.Messages)
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
