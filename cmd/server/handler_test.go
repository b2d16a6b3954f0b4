package main

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nmehta-dev/weatherchat/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type pipelineFunc func(ctx context.Context, message string) string

func (f pipelineFunc) Respond(ctx context.Context, message string) string {
	return f(ctx, message)
}

func newWSTestServer(t *testing.T, handler *ChatHandler) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/ws", handler.HandleWebSocket)
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestWebSocket_OneReplyPerMessage(t *testing.T) {
	sink := store.NewMemorySink()
	echo := pipelineFunc(func(ctx context.Context, message string) string {
		return "reply to: " + message
	})
	srv := newWSTestServer(t, NewChatHandler(echo, sink))

	conn := dialWS(t, srv)
	defer conn.Close()

	const n = 5
	for i := 0; i < n; i++ {
		msg := fmt.Sprintf("message %d", i)
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, reply, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if string(reply) != "reply to: "+msg {
			t.Errorf("reply %d = %q", i, reply)
		}
	}

	// No extra replies pending.
	conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("got an unexpected extra reply")
	}
}

func TestWebSocket_PersistsBothSidesOfEachTurn(t *testing.T) {
	sink := store.NewMemorySink()
	echo := pipelineFunc(func(ctx context.Context, message string) string {
		return "ok"
	})
	srv := newWSTestServer(t, NewChatHandler(echo, sink))

	conn := dialWS(t, srv)
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("what's the weather")); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("read: %v", err)
	}

	// The session ID is generated server-side; find it through the sink.
	ids := sink.SessionIDs()
	if len(ids) != 1 {
		t.Fatalf("session ids = %v, want exactly one", ids)
	}
	records := sink.Messages(ids[0])
	if len(records) != 2 {
		t.Fatalf("records = %d, want user + assistant", len(records))
	}
	if records[0].Role != "user" || records[0].Content != "what's the weather" {
		t.Errorf("first record = %+v", records[0])
	}
	if records[1].Role != "assistant" || records[1].Content != "ok" {
		t.Errorf("second record = %+v", records[1])
	}
}

func TestWebSocket_AbruptDisconnectLeavesServerHealthy(t *testing.T) {
	sink := store.NewMemorySink()
	slow := pipelineFunc(func(ctx context.Context, message string) string {
		time.Sleep(50 * time.Millisecond)
		return "late reply"
	})
	srv := newWSTestServer(t, NewChatHandler(slow, sink))

	// First client drops mid-processing.
	conn := dialWS(t, srv)
	if err := conn.WriteMessage(websocket.TextMessage, []byte("hi")); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.Close()

	// A second, independent connection must be unaffected.
	conn2 := dialWS(t, srv)
	defer conn2.Close()
	if err := conn2.WriteMessage(websocket.TextMessage, []byte("still there?")); err != nil {
		t.Fatalf("write on second connection: %v", err)
	}
	conn2.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, reply, err := conn2.ReadMessage()
	if err != nil {
		t.Fatalf("read on second connection: %v", err)
	}
	if string(reply) != "late reply" {
		t.Errorf("reply = %q", reply)
	}
}

func TestWebSocket_IndependentSessionsPerConnection(t *testing.T) {
	sink := store.NewMemorySink()
	echo := pipelineFunc(func(ctx context.Context, message string) string {
		return "ok"
	})
	srv := newWSTestServer(t, NewChatHandler(echo, sink))

	for i := 0; i < 2; i++ {
		conn := dialWS(t, srv)
		if err := conn.WriteMessage(websocket.TextMessage, []byte("hello")); err != nil {
			t.Fatalf("write: %v", err)
		}
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := conn.ReadMessage(); err != nil {
			t.Fatalf("read: %v", err)
		}
		conn.Close()
	}

	ids := sink.SessionIDs()
	if len(ids) != 2 {
		t.Errorf("session ids = %v, want 2 distinct sessions", ids)
	}
}
