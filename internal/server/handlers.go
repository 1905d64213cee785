package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// WebSocketHandler upgrades the request and hands the new client to the hub.
func (s *Server) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	client := NewClient(conn, s.hub, s.room, uuid.NewString(), r.RemoteAddr, s.clientOptions())
	if !s.hub.Register(client) {
		client.logger.Info("rejecting connection during shutdown")
		_ = conn.Close()
	}
}

// HealthHandler reports that the process is serving.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprint(w, "chat server is running")
}
