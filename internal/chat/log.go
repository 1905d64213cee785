package chat

// Message is one chat line. It is never modified after being appended.
type Message struct {
	Author string `json:"user"`
	Text   string `json:"text"`
}

// MessageLog is the append-only history replayed to newly authenticated
// connections. It grows for the lifetime of the process.
//
// MessageLog is not safe for concurrent use; Room serializes access.
type MessageLog struct {
	messages []Message
}

// NewMessageLog returns an empty log.
func NewMessageLog() *MessageLog {
	return &MessageLog{messages: make([]Message, 0, 64)}
}

// Append adds msg to the end of the log.
func (l *MessageLog) Append(msg Message) {
	l.messages = append(l.messages, msg)
}

// Snapshot returns a copy of the log in arrival order.
func (l *MessageLog) Snapshot() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len reports the number of stored messages.
func (l *MessageLog) Len() int {
	return len(l.messages)
}
