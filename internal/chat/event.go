// Package chat holds the transport independent core of the chat room:
// presence tracking, the message log, fan-out delivery and the per-connection
// state machine that ties them together.
package chat

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Inbound event types.
const (
	TypeLogin = "login"
	TypeChat  = "chat"
)

// Outbound event types.
const (
	TypeOK      = "ok"
	TypeError   = "error"
	TypeHistory = "history"
	TypeOnline  = "online"
	TypeSystem  = "system"
)

// Inbound is the union of every frame a client may send. Which fields are
// meaningful depends on Type.
type Inbound struct {
	Type      string
	Username  string
	SessionID string
	Text      string
}

// inboundFrame is the wire form of Inbound. Field values may be any JSON
// scalar; they are read as text.
type inboundFrame struct {
	Type      string          `json:"type"`
	Username  json.RawMessage `json:"username"`
	SessionID json.RawMessage `json:"sessionId"`
	Text      json.RawMessage `json:"text"`
}

// Event is a frame sent from the server to a client.
type Event struct {
	Type    string  `json:"type"`
	Message string  `json:"message,omitempty"`
	User    string  `json:"user,omitempty"`
	Text    *string `json:"text,omitempty"`
	Data    any     `json:"data,omitempty"`
}

// DecodeInbound parses a raw client frame. Anything that is not a JSON object,
// or carries an object or array where text is expected, yields
// ErrMalformedPayload. Numbers and booleans are taken by their literal text;
// null and absent fields are empty.
func DecodeInbound(raw []byte) (Inbound, error) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	in := Inbound{Type: frame.Type}
	fields := []struct {
		name string
		raw  json.RawMessage
		dst  *string
	}{
		{"username", frame.Username, &in.Username},
		{"sessionId", frame.SessionID, &in.SessionID},
		{"text", frame.Text, &in.Text},
	}
	for _, f := range fields {
		text, err := scalarText(f.raw)
		if err != nil {
			return Inbound{}, fmt.Errorf("%w: field %s: %v", ErrMalformedPayload, f.name, err)
		}
		*f.dst = text
	}
	return in, nil
}

func scalarText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("expected a scalar, got %T", v)
	}
}

// Encode serializes the event for the wire.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

func okEvent() Event {
	return Event{Type: TypeOK}
}

func errorEvent(message string) Event {
	return Event{Type: TypeError, Message: message}
}

func historyEvent(messages []Message) Event {
	if messages == nil {
		messages = []Message{}
	}
	return Event{Type: TypeHistory, Data: messages}
}

func onlineEvent(usernames []string) Event {
	if usernames == nil {
		usernames = []string{}
	}
	return Event{Type: TypeOnline, Data: usernames}
}

func systemEvent(message string) Event {
	return Event{Type: TypeSystem, Message: message}
}

func chatEvent(msg Message) Event {
	text := msg.Text
	return Event{Type: TypeChat, User: msg.Author, Text: &text}
}
