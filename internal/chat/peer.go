package chat

import (
	"errors"
	"log/slog"
)

// State is the lifecycle stage of a Peer.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Peer interprets the frames of one connection and drives the Room.
// Handle and Close must be called from a single goroutine, which keeps the
// frames of a connection in arrival order.
type Peer struct {
	room   *Room
	conn   Conn
	logger *slog.Logger
	state  State
	user   string
}

// NewPeer binds a fresh, unauthenticated peer to conn.
func NewPeer(room *Room, conn Conn, logger *slog.Logger) *Peer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Peer{room: room, conn: conn, logger: logger}
}

// State reports the current lifecycle stage.
func (p *Peer) State() State {
	return p.state
}

// Username is the bound username, or "" before a successful login.
func (p *Peer) Username() string {
	return p.user
}

// Handle processes one inbound frame. Malformed frames, unknown types and
// frames that do not fit the current state are discarded.
func (p *Peer) Handle(raw []byte) {
	if p.state == StateClosed {
		return
	}

	in, err := DecodeInbound(raw)
	if err != nil {
		p.logger.Debug("discarding frame", "error", err)
		return
	}

	switch in.Type {
	case TypeLogin:
		p.handleLogin(in)
	case TypeChat:
		p.handleChat(in)
	default:
		p.logger.Debug("discarding frame with unknown type", "type", in.Type)
	}
}

func (p *Peer) handleLogin(in Inbound) {
	if p.state != StateUnauthenticated {
		p.logger.Debug("discarding login on authenticated connection", "user", p.user)
		return
	}

	username, err := p.room.Login(p.conn, in.Username, in.SessionID)
	switch {
	case err == nil:
		p.state = StateAuthenticated
		p.user = username
		p.logger = p.logger.With("user", username)
	case errors.Is(err, ErrInvalidUsername):
		p.send(errorEvent(invalidUsernameText))
	case errors.Is(err, ErrUsernameInUse):
		p.send(errorEvent(usernameInUseText))
		p.state = StateClosed
		p.conn.Close()
	default:
		p.logger.Error("unexpected login failure", "error", err)
	}
}

func (p *Peer) handleChat(in Inbound) {
	if p.state != StateAuthenticated {
		p.logger.Debug("discarding chat before login")
		return
	}
	p.room.Chat(p.user, in.Text)
}

// Close is called once the transport is gone. A bound username enters its
// grace period.
func (p *Peer) Close() {
	if p.state == StateAuthenticated {
		p.room.Disconnect(p.user, p.conn)
	}
	p.state = StateClosed
}

func (p *Peer) send(ev Event) {
	payload, err := ev.Encode()
	if err != nil {
		p.logger.Error("failed to encode event", "type", ev.Type, "error", err)
		return
	}
	if err := p.conn.Send(payload); err != nil {
		p.logger.Debug("dropped event", "type", ev.Type, "error", err)
	}
}
