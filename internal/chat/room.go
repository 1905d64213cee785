package chat

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Tyrowin/chatroom/internal/metrics"
)

// DefaultGracePeriod is how long a dropped session may be reclaimed before
// its user is announced as gone.
const DefaultGracePeriod = 5 * time.Second

// Options configures a Room.
type Options struct {
	GracePeriod time.Duration
	Logger      *slog.Logger
	// Now overrides the clock used for LastSeen bookkeeping.
	Now func() time.Time
}

// Room owns the session registry, the message log and the reaper. Every
// mutation and every broadcast happens under one lock, so peers observe
// events in the same order the log records them.
type Room struct {
	mu       sync.Mutex
	registry *Registry
	log      *MessageLog
	reaper   *Reaper
	grace    time.Duration
	logger   *slog.Logger
}

// NewRoom creates an empty room.
func NewRoom(opts Options) *Room {
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = DefaultGracePeriod
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Room{
		registry: NewRegistry(opts.Now),
		log:      NewMessageLog(),
		reaper:   NewReaper(),
		grace:    opts.GracePeriod,
		logger:   opts.Logger,
	}
}

// Login authenticates conn as username. On success the connection receives
// ok and the history, every session receives the updated presence list, and
// a first login is announced as a join. The normalized username is returned.
func (r *Room) Login(conn Conn, rawUsername, token string) (string, error) {
	username, err := NormalizeUsername(rawUsername)
	if err != nil {
		metrics.Logins.WithLabelValues("invalid").Inc()
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	outcome, err := r.registry.Login(username, token, conn)
	if err != nil {
		metrics.Logins.WithLabelValues("in_use").Inc()
		r.logger.Info("login rejected", "user", username, "error", err)
		return "", err
	}
	metrics.Logins.WithLabelValues(outcome.String()).Inc()

	if outcome == LoginReconnected {
		r.reaper.Cancel(username)
		r.logger.Info("session reconnected", "user", username)
	} else {
		r.logger.Info("session created", "user", username, "online", r.registry.Len())
	}
	metrics.OnlineSessions.Set(float64(r.registry.Len()))

	r.unicast(conn, okEvent())
	r.unicast(conn, historyEvent(r.log.Snapshot()))
	if outcome == LoginCreated {
		r.broadcast(systemEvent(username + joinedSuffix))
	}
	r.broadcast(onlineEvent(r.registry.Usernames()))
	return username, nil
}

// Chat appends a message from author and delivers it to every session.
func (r *Room) Chat(author, text string) {
	msg := Message{Author: author, Text: Sanitize(text)}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.Append(msg)
	metrics.ChatMessages.Inc()
	r.broadcast(chatEvent(msg))
}

// Disconnect records that conn, bound to username, has closed and starts the
// grace period. Closing a connection that was already replaced by a reconnect
// has no effect.
func (r *Room) Disconnect(username string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	generation, ok := r.registry.Detach(username, conn)
	if !ok {
		r.logger.Debug("ignoring close of replaced connection", "user", username)
		return
	}
	r.logger.Info("session detached", "user", username, "grace", r.grace)
	r.reaper.Schedule(username, generation, r.grace, func() {
		r.expire(username, generation)
	})
}

func (r *Room) expire(username string, generation uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.registry.RemoveIfStale(username, generation, r.grace) {
		return
	}
	metrics.SessionsReaped.Inc()
	metrics.OnlineSessions.Set(float64(r.registry.Len()))
	r.logger.Info("session removed", "user", username, "online", r.registry.Len())

	r.broadcast(systemEvent(username + leftSuffix))
	r.broadcast(onlineEvent(r.registry.Usernames()))
}

// Online returns the registered usernames in insertion order.
func (r *Room) Online() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry.Usernames()
}

// History returns the message log in arrival order.
func (r *Room) History() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.Snapshot()
}

// Session returns a copy of the session registered for username.
func (r *Room) Session(username string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry.Lookup(username)
}

// Close cancels pending reaper checks.
func (r *Room) Close() {
	r.reaper.Stop()
}

// broadcast serializes ev once and offers it to every attached connection.
// A failing recipient is skipped; it stays registered until the reaper
// decides otherwise. Callers hold r.mu.
func (r *Room) broadcast(ev Event) {
	payload, err := ev.Encode()
	if err != nil {
		r.logger.Error("failed to encode broadcast", "type", ev.Type, "error", err)
		return
	}
	metrics.Broadcasts.WithLabelValues(ev.Type).Inc()

	for _, conn := range r.registry.Conns() {
		if err := conn.Send(payload); err != nil {
			metrics.DeliveryFailures.Inc()
			r.logger.Debug("dropped broadcast for recipient", "type", ev.Type, "error", err)
		}
	}
}

func (r *Room) unicast(conn Conn, ev Event) {
	payload, err := ev.Encode()
	if err != nil {
		r.logger.Error("failed to encode event", "type", ev.Type, "error", err)
		return
	}
	if err := conn.Send(payload); err != nil {
		metrics.DeliveryFailures.Inc()
		r.logger.Debug("dropped event for connection", "type", ev.Type, "error", err)
	}
}
