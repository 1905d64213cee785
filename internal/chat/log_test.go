package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageLogAppendAndSnapshot(t *testing.T) {
	l := NewMessageLog()
	assert.Empty(t, l.Snapshot())

	l.Append(Message{Author: "alice", Text: "one"})
	l.Append(Message{Author: "bob", Text: "two"})

	snap := l.Snapshot()
	assert.Equal(t, []Message{{"alice", "one"}, {"bob", "two"}}, snap)
	assert.Equal(t, 2, l.Len())

	snap[0].Text = "changed"
	assert.Equal(t, "one", l.Snapshot()[0].Text, "snapshot must not alias the log")
}

func TestEventEncoding(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected string
	}{
		{name: "ok", event: okEvent(), expected: `{"type":"ok"}`},
		{name: "error", event: errorEvent("Username invalid"), expected: `{"type":"error","message":"Username invalid"}`},
		{name: "empty history", event: historyEvent(nil), expected: `{"type":"history","data":[]}`},
		{name: "history", event: historyEvent([]Message{{"alice", "hi"}}), expected: `{"type":"history","data":[{"user":"alice","text":"hi"}]}`},
		{name: "online", event: onlineEvent([]string{"alice", "bob"}), expected: `{"type":"online","data":["alice","bob"]}`},
		{name: "empty online", event: onlineEvent(nil), expected: `{"type":"online","data":[]}`},
		{name: "system", event: systemEvent("bob وارد شد"), expected: `{"type":"system","message":"bob وارد شد"}`},
		{name: "chat", event: chatEvent(Message{"alice", "hi"}), expected: `{"type":"chat","user":"alice","text":"hi"}`},
		{name: "empty chat", event: chatEvent(Message{"alice", ""}), expected: `{"type":"chat","user":"alice","text":""}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := tc.event.Encode()
			assert.NoError(t, err)
			assert.JSONEq(t, tc.expected, string(payload))
		})
	}
}

func TestDecodeInbound(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected Inbound
	}{
		{
			name:     "login",
			raw:      `{"type":"login","username":"alice","sessionId":"t1"}`,
			expected: Inbound{Type: TypeLogin, Username: "alice", SessionID: "t1"},
		},
		{
			name:     "numeric fields",
			raw:      `{"type":"login","username":123,"sessionId":42}`,
			expected: Inbound{Type: TypeLogin, Username: "123", SessionID: "42"},
		},
		{
			name:     "boolean and null",
			raw:      `{"type":"chat","text":true,"username":null}`,
			expected: Inbound{Type: TypeChat, Text: "true"},
		},
		{
			name:     "missing fields",
			raw:      `{"type":"chat"}`,
			expected: Inbound{Type: TypeChat},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in, err := DecodeInbound([]byte(tc.raw))
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, in)
		})
	}
}

func TestDecodeInboundMalformed(t *testing.T) {
	for _, raw := range []string{
		`{oops`,
		`[1,2]`,
		`{"type":"login","username":{"a":1}}`,
		`{"type":"chat","text":["x"]}`,
		`{"type":5}`,
	} {
		_, err := DecodeInbound([]byte(raw))
		assert.ErrorIs(t, err, ErrMalformedPayload, raw)
	}
}
