package chat

import (
	"time"
	"unicode/utf8"
)

// MinUsernameLength is the shortest accepted username, counted in code points
// after sanitization.
const MinUsernameLength = 3

// Conn is the outbound side of a live client connection. Send must not block;
// a connection that cannot accept the payload returns an error.
type Conn interface {
	Send(payload []byte) error
	Close()
}

// Session binds a username to the connection currently serving it.
type Session struct {
	Username string
	Token    string
	// Conn is nil while the session waits out its grace period.
	Conn     Conn
	LastSeen time.Time

	generation uint64
}

// LoginOutcome tells a fresh login apart from a reconnect.
type LoginOutcome int

const (
	// LoginCreated means a new session was registered.
	LoginCreated LoginOutcome = iota + 1
	// LoginReconnected means an existing session was rebound to a new connection.
	LoginReconnected
)

func (o LoginOutcome) String() string {
	switch o {
	case LoginCreated:
		return "created"
	case LoginReconnected:
		return "reconnected"
	default:
		return "unknown"
	}
}

// NormalizeUsername sanitizes a raw username and checks its length.
func NormalizeUsername(raw string) (string, error) {
	username := Sanitize(raw)
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return "", ErrInvalidUsername
	}
	return username, nil
}

// Registry maps usernames to sessions and remembers insertion order so that
// presence listings are deterministic.
//
// Registry is not safe for concurrent use; Room serializes access.
type Registry struct {
	sessions map[string]*Session
	order    []string
	now      func() time.Time
	nextGen  uint64
}

// NewRegistry returns an empty registry. A nil now uses time.Now.
func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		sessions: make(map[string]*Session),
		now:      now,
	}
}

// Login registers username on conn, or rebinds an existing session when the
// token matches. username must already be normalized.
func (r *Registry) Login(username, token string, conn Conn) (LoginOutcome, error) {
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return 0, ErrInvalidUsername
	}

	if s, ok := r.sessions[username]; ok {
		if s.Token != token {
			return 0, ErrUsernameInUse
		}
		s.Conn = conn
		s.LastSeen = r.now()
		s.generation = r.bump()
		return LoginReconnected, nil
	}

	r.sessions[username] = &Session{
		Username:   username,
		Token:      token,
		Conn:       conn,
		LastSeen:   r.now(),
		generation: r.bump(),
	}
	r.order = append(r.order, username)
	return LoginCreated, nil
}

// TouchLastSeen refreshes the session's last seen time.
func (r *Registry) TouchLastSeen(username string) {
	if s, ok := r.sessions[username]; ok {
		s.LastSeen = r.now()
	}
}

// Detach records that conn stopped serving username. It refreshes LastSeen and
// returns the session generation the caller must present to RemoveIfStale.
// It reports false when username is unknown or already rebound to another
// connection.
func (r *Registry) Detach(username string, conn Conn) (uint64, bool) {
	s, ok := r.sessions[username]
	if !ok || s.Conn != conn {
		return 0, false
	}
	s.Conn = nil
	r.TouchLastSeen(username)
	return s.generation, true
}

// RemoveIfStale deletes the session for username only if it was not rebound
// since generation was handed out and it has been unseen for at least grace.
func (r *Registry) RemoveIfStale(username string, generation uint64, grace time.Duration) bool {
	s, ok := r.sessions[username]
	if !ok || s.generation != generation || s.Conn != nil {
		return false
	}
	if r.now().Sub(s.LastSeen) < grace {
		return false
	}

	delete(r.sessions, username)
	for i, name := range r.order {
		if name == username {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Lookup returns a copy of the session for username.
func (r *Registry) Lookup(username string) (Session, bool) {
	s, ok := r.sessions[username]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Usernames lists registered usernames in insertion order.
func (r *Registry) Usernames() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Conns returns the attached connections in insertion order.
func (r *Registry) Conns() []Conn {
	conns := make([]Conn, 0, len(r.order))
	for _, name := range r.order {
		if c := r.sessions[name].Conn; c != nil {
			conns = append(conns, c)
		}
	}
	return conns
}

// Len reports the number of sessions.
func (r *Registry) Len() int {
	return len(r.sessions)
}

func (r *Registry) bump() uint64 {
	r.nextGen++
	return r.nextGen
}
