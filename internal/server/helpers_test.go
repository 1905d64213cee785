package server_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/Tyrowin/chatroom/internal/config"
	"github.com/Tyrowin/chatroom/internal/server"
)

const testOriginURL = "http://localhost:8080"

type wireEvent struct {
	Type    string          `json:"type"`
	Message string          `json:"message"`
	User    string          `json:"user"`
	Text    string          `json:"text"`
	Data    json.RawMessage `json:"data"`
}

func (ev wireEvent) names(t *testing.T) []string {
	t.Helper()
	var names []string
	require.NoError(t, json.Unmarshal(ev.Data, &names))
	return names
}

type historyEntry struct {
	User string `json:"user"`
	Text string `json:"text"`
}

func (ev wireEvent) history(t *testing.T) []historyEntry {
	t.Helper()
	var entries []historyEntry
	require.NoError(t, json.Unmarshal(ev.Data, &entries))
	return entries
}

// startTestServer runs a full server on httptest and returns it with the
// WebSocket URL.
func startTestServer(t *testing.T, mutate func(*config.Config)) (*server.Server, *httptest.Server, string) {
	t.Helper()

	cfg := config.Default()
	cfg.GracePeriod = 200 * time.Millisecond
	cfg.RateLimit.Burst = 100
	if mutate != nil {
		mutate(cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	chatServer := server.New(cfg, logger)
	chatServer.Start()

	testServer := httptest.NewServer(chatServer.Routes())
	t.Cleanup(func() {
		testServer.Close()
		_ = chatServer.Shutdown(2 * time.Second)
	})

	return chatServer, testServer, "ws" + strings.TrimPrefix(testServer.URL, "http") + "/ws"
}

func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	headers := http.Header{}
	headers.Set("Origin", testOriginURL)

	conn, resp, err := dialer.Dial(wsURL, headers)
	if resp != nil {
		_ = resp.Body.Close()
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sendJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(v))
}

func login(t *testing.T, conn *websocket.Conn, username, token string) {
	t.Helper()
	sendJSON(t, conn, map[string]string{"type": "login", "username": username, "sessionId": token})
}

func sendChat(t *testing.T, conn *websocket.Conn, text string) {
	t.Helper()
	sendJSON(t, conn, map[string]string{"type": "chat", "text": text})
}

func readEvent(t *testing.T, conn *websocket.Conn) wireEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev wireEvent
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

// expectEvents reads len(types) events and checks their types in order.
func expectEvents(t *testing.T, conn *websocket.Conn, types ...string) []wireEvent {
	t.Helper()
	events := make([]wireEvent, 0, len(types))
	for _, want := range types {
		ev := readEvent(t, conn)
		require.Equal(t, want, ev.Type, "unexpected event %+v", ev)
		events = append(events, ev)
	}
	return events
}

// drainEvents collects whatever arrives until the connection is quiet for
// the given duration.
func drainEvents(conn *websocket.Conn, quiet time.Duration) []wireEvent {
	var events []wireEvent
	for {
		if err := conn.SetReadDeadline(time.Now().Add(quiet)); err != nil {
			return events
		}
		var ev wireEvent
		if err := conn.ReadJSON(&ev); err != nil {
			return events
		}
		events = append(events, ev)
	}
}

func expectNoMessage(t *testing.T, conn *websocket.Conn, wait time.Duration) {
	t.Helper()
	events := drainEvents(conn, wait)
	require.Empty(t, events)
}
