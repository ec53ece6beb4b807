package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/kabalen/tanong/internal/observe"
)

// wsError is the error frame sent for invalid websocket requests. The
// connection stays open; only protocol violations close it.
type wsError struct {
	Error string `json:"error"`
}

// handleWS upgrades to a websocket and processes one chat turn per inbound
// JSON frame. A single connection may interleave multiple sessions by
// varying session_id; frames without one share a connection-scoped session.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		// Accept already wrote the HTTP error.
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	s.metrics.ActiveWebsockets.Add(ctx, 1)
	defer s.metrics.ActiveWebsockets.Add(ctx, -1)

	log := observe.Logger(ctx)
	log.Info("websocket connected", "remote", r.RemoteAddr)

	// Fallback session for frames that carry no session_id.
	connSession := newSessionID()

	for {
		var req chatRequest
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				log.Info("websocket closed", "remote", r.RemoteAddr)
				return
			}
			log.Warn("websocket read", "err", err)
			return
		}

		resp, errMsg := s.wsTurn(ctx, req, connSession)
		if errMsg != "" {
			if err := wsjson.Write(ctx, conn, wsError{Error: errMsg}); err != nil {
				return
			}
			continue
		}
		if err := wsjson.Write(ctx, conn, resp); err != nil {
			return
		}
	}
}

// wsTurn runs one turn for a websocket frame. A non-empty errMsg means the
// frame was invalid and no turn ran.
func (s *Server) wsTurn(ctx context.Context, req chatRequest, connSession string) (resp chatResponse, errMsg string) {
	msg, errMsg := validateMessage(req.Message)
	if errMsg != "" {
		return chatResponse{}, errMsg
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = connSession
	}
	return s.runTurn(ctx, sessionID, msg), ""
}
