// Package metrics declares the Prometheus collectors exported by the chat
// server and the handler that serves them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Transport
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_connections_active",
		Help: "The current number of open WebSocket connections.",
	})
	TotalConnections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_connections_total",
		Help: "The total number of WebSocket connections accepted.",
	})
	FramesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_frames_dropped_total",
		Help: "Inbound frames discarded before reaching the room.",
	}, []string{"reason"})

	// Presence
	OnlineSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_sessions_online",
		Help: "The number of registered sessions, including those in their grace period.",
	})
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})
	SessionsReaped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_sessions_reaped_total",
		Help: "Sessions removed after their grace period expired.",
	})

	// Traffic
	ChatMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_total",
		Help: "Chat messages appended to the log.",
	})
	Broadcasts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_broadcasts_total",
		Help: "Events fanned out to every session, by event type.",
	}, []string{"type"})
	DeliveryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_delivery_failures_total",
		Help: "Per-recipient deliveries that were dropped.",
	})
)

// Handler returns the HTTP handler for the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
