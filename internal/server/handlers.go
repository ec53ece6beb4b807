package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kabalen/tanong/internal/assistant"
	"github.com/kabalen/tanong/internal/session"
)

// maxMessageLen caps accepted utterance length. Campus questions are short;
// anything longer is abuse or an accident.
const maxMessageLen = 2048

// chatRequest is the body of POST /v1/chat and of websocket text frames.
type chatRequest struct {
	// SessionID ties consecutive turns to one conversation context. When
	// empty, the server mints a fresh session and returns its ID.
	SessionID string `json:"session_id"`

	// Message is the raw user utterance.
	Message string `json:"message"`
}

// chatResponse is the reply for one turn.
type chatResponse struct {
	SessionID   string              `json:"session_id"`
	Text        string              `json:"text"`
	Suggestions []string            `json:"suggestions,omitempty"`
	Intent      string              `json:"intent"`
	Confidence  float64             `json:"confidence"`
	Sentiment   string              `json:"sentiment"`
	Entities    map[string][]string `json:"entities,omitempty"`
	Turn        int                 `json:"turn"`
}

// errorResponse is the JSON body for 4xx replies.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	msg, errMsg := validateMessage(req.Message)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = newSessionID()
	}

	writeJSON(w, http.StatusOK, s.runTurn(r.Context(), sessionID, msg))
}

// validateMessage trims and bounds-checks one utterance. A non-empty errMsg
// means the message is rejected.
func validateMessage(raw string) (msg, errMsg string) {
	msg = strings.TrimSpace(raw)
	if msg == "" {
		return "", "message must not be empty"
	}
	if len(msg) > maxMessageLen {
		return "", "message too long"
	}
	return msg, ""
}

// runTurn executes one conversational turn under the session manager's
// per-session serialisation.
func (s *Server) runTurn(ctx context.Context, sessionID, msg string) chatResponse {
	var reply assistant.Reply
	// The closure never returns an error.
	_ = s.sessions.Turn(sessionID, func(c session.Context) (session.Context, error) {
		reply = s.asst.Turn(ctx, msg, c)
		return reply.NewContext, nil
	})

	return chatResponse{
		SessionID:   sessionID,
		Text:        reply.Text,
		Suggestions: reply.Suggestions,
		Intent:      string(reply.Intent),
		Confidence:  reply.Confidence,
		Sentiment:   string(reply.Sentiment),
		Entities:    entityMap(reply),
		Turn:        reply.NewContext.TurnCount,
	}
}

// entityMap flattens the typed entity bag into plain JSON keys.
func entityMap(r assistant.Reply) map[string][]string {
	if len(r.Entities) == 0 {
		return nil
	}
	out := make(map[string][]string, len(r.Entities))
	for typ, vals := range r.Entities {
		out[string(typ)] = vals
	}
	return out
}

// newSessionID mints a 128-bit random session identifier.
func newSessionID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "err", err)
	}
}
