// Package server exposes the conversational agent over HTTP for UI
// clients. The transport owns the session lifecycle: it holds the single
// server-side dialog session, threads it through the controller on every
// turn, and persists the transcript around each exchange. The process
// serves one conversation at a time, matching the single-session design of
// the UI it backs.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/dannysmp/genai-customer-support-agent/internal/agent"
	"github.com/dannysmp/genai-customer-support-agent/internal/chat"
	errx "github.com/dannysmp/genai-customer-support-agent/internal/core/error"
	logx "github.com/dannysmp/genai-customer-support-agent/pkg/logger"
)

// Renderer produces the user-facing text for an envelope.
type Renderer interface {
	Reply(ctx context.Context, env *agent.Envelope, userText, chatHistory string) string
}

// Server handles the /chat, /reset, and /health endpoints.
type Server struct {
	controller *agent.Controller
	renderer   Renderer
	transcript chat.Repository

	mu             sync.Mutex
	session        *agent.Session
	conversationID string

	httpSrv *http.Server
}

func New(addr string, controller *agent.Controller, renderer Renderer, transcript chat.Repository) *Server {
	s := &Server{
		controller:     controller,
		renderer:       renderer,
		transcript:     transcript,
		session:        agent.NewSession(),
		conversationID: uuid.NewString(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /reset", s.handleReset)

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Run serves until the context is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logx.Info().Str("addr", s.httpSrv.Addr).Msg("http server listening")
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

type chatRequest struct {
	Prompt string `json:"prompt"`
}

// chatResponse is the envelope plus the running transcript for the UI.
type chatResponse struct {
	*agent.Envelope
	Transcript []chat.Turn `json:"transcript"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleChat runs one dialog turn: record the user message, advance the
// state machine, synthesize text when the envelope asks for it, and return
// the envelope with the transcript. Session end clears the transcript and
// rotates the conversation ID after the final payload is built.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := r.Context()
	prompt := req.Prompt

	if strings.TrimSpace(prompt) != "" {
		s.appendTranscript(ctx, schema.UserMessage(prompt))
	}

	env := s.controller.Handle(s.session, prompt)

	msg := env.UserMessage
	if msg == "" || env.Nlg {
		msg = s.renderer.Reply(ctx, env, prompt, s.promptHistory(ctx))
	}
	env.UserMessage = msg

	s.appendTranscript(ctx, schema.AssistantMessage(msg, nil))

	resp := chatResponse{Envelope: env, Transcript: s.loadTranscript(ctx)}

	if env.EndSession {
		if err := s.transcript.ClearHistory(ctx, s.conversationID); err != nil {
			logx.Error().Err(err).Str("conversationID", s.conversationID).Msg("failed to clear transcript")
		}
		s.session.Reset()
		s.conversationID = uuid.NewString()
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleReset discards the dialog state and transcript. Safe to call at
// any time, including before any /chat turn.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transcript.ClearHistory(r.Context(), s.conversationID); err != nil {
		logx.Error().Err(err).Str("conversationID", s.conversationID).Msg("failed to clear transcript")
		writeError(w, errx.StatusOf(err, http.StatusInternalServerError), "reset operation failed")
		return
	}
	s.session.Reset()
	s.conversationID = uuid.NewString()

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"message": "Server-side session successfully reset.",
	})
}

func (s *Server) appendTranscript(ctx context.Context, message *schema.Message) {
	if err := s.transcript.AddMessage(ctx, s.conversationID, message); err != nil {
		logx.Error().Err(err).Str("conversationID", s.conversationID).Msg("failed to append transcript")
	}
}

// promptHistory renders the recent transcript window for the generation
// prompt. Transcript failures degrade to an empty history.
func (s *Server) promptHistory(ctx context.Context) string {
	history, err := s.transcript.LoadHistory(ctx, s.conversationID)
	if err != nil {
		logx.Error().Err(err).Str("conversationID", s.conversationID).Msg("failed to load transcript")
		return ""
	}
	return chat.RenderForPrompt(history.Messages, chat.DefaultPromptTurns)
}

func (s *Server) loadTranscript(ctx context.Context) []chat.Turn {
	history, err := s.transcript.LoadHistory(ctx, s.conversationID)
	if err != nil {
		logx.Error().Err(err).Str("conversationID", s.conversationID).Msg("failed to load transcript")
		return []chat.Turn{}
	}
	return chat.Transcript(history.Messages)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]any{"detail": detail})
}
