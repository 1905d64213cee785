package chat

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var errRecipientGone = errors.New("recipient gone")

// recordingConn captures every frame offered to it.
type recordingConn struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
	broken bool
}

func (c *recordingConn) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken || c.closed {
		return errRecipientGone
	}
	c.frames = append(c.frames, append([]byte(nil), payload...))
	return nil
}

func (c *recordingConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *recordingConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type wireEvent struct {
	Type    string          `json:"type"`
	Message string          `json:"message"`
	User    string          `json:"user"`
	Text    string          `json:"text"`
	Data    json.RawMessage `json:"data"`
}

func (c *recordingConn) events(t *testing.T) []wireEvent {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]wireEvent, 0, len(c.frames))
	for _, f := range c.frames {
		var ev wireEvent
		require.NoError(t, json.Unmarshal(f, &ev))
		out = append(out, ev)
	}
	return out
}

func (c *recordingConn) types(t *testing.T) []string {
	t.Helper()
	events := c.events(t)
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}

func (c *recordingConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

func (c *recordingConn) systemMessages(t *testing.T) []string {
	t.Helper()
	var out []string
	for _, ev := range c.events(t) {
		if ev.Type == TypeSystem {
			out = append(out, ev.Message)
		}
	}
	return out
}

func decodeOnline(t *testing.T, ev wireEvent) []string {
	t.Helper()
	require.Equal(t, TypeOnline, ev.Type)
	var names []string
	require.NoError(t, json.Unmarshal(ev.Data, &names))
	return names
}

func decodeHistory(t *testing.T, ev wireEvent) []Message {
	t.Helper()
	require.Equal(t, TypeHistory, ev.Type)
	var msgs []Message
	require.NoError(t, json.Unmarshal(ev.Data, &msgs))
	return msgs
}
