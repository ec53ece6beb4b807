package server_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/kabalen/tanong/internal/directory/mock"
	"github.com/kabalen/tanong/internal/lexicon"
)

type wsFrame struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

type wsReply struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	Intent    string `json:"intent"`
	Turn      int    `json:"turn"`
	Error     string `json:"error"`
}

func dialWS(t *testing.T) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(newHandler(t, &mock.Store{}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/chat/ws"
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func TestWS_TurnPerFrame(t *testing.T) {
	t.Parallel()
	conn := dialWS(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := wsjson.Write(ctx, conn, wsFrame{Message: "hello"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var reply wsReply
	if err := wsjson.Read(ctx, conn, &reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Intent != string(lexicon.IntentGreeting) {
		t.Errorf("intent = %q, want GREETING", reply.Intent)
	}
	if reply.SessionID == "" {
		t.Error("no connection-scoped session id")
	}

	// A second frame without a session id reuses the connection session.
	if err := wsjson.Write(ctx, conn, wsFrame{Message: "any announcements"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var second wsReply
	if err := wsjson.Read(ctx, conn, &second); err != nil {
		t.Fatalf("read: %v", err)
	}
	if second.SessionID != reply.SessionID {
		t.Errorf("session id changed across frames: %q vs %q", second.SessionID, reply.SessionID)
	}
	if second.Turn != 2 {
		t.Errorf("turn = %d, want 2", second.Turn)
	}

	if err := conn.Close(websocket.StatusNormalClosure, ""); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestWS_InvalidFrameKeepsConnection(t *testing.T) {
	t.Parallel()
	conn := dialWS(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Empty message yields an error frame, not a close.
	if err := wsjson.Write(ctx, conn, wsFrame{Message: "   "}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var errFrame wsReply
	if err := wsjson.Read(ctx, conn, &errFrame); err != nil {
		t.Fatalf("read: %v", err)
	}
	if errFrame.Error == "" {
		t.Fatalf("frame = %+v, want an error field", errFrame)
	}

	// The connection still serves turns.
	if err := wsjson.Write(ctx, conn, wsFrame{Message: "salamat"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var reply wsReply
	if err := wsjson.Read(ctx, conn, &reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Intent != string(lexicon.IntentThanks) {
		t.Errorf("intent = %q, want THANKS", reply.Intent)
	}
}
