package server

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Tyrowin/chatroom/internal/chat"
	"github.com/Tyrowin/chatroom/internal/config"
)

// Server wires the chat room to its WebSocket transport.
type Server struct {
	cfg      *config.Config
	hub      *Hub
	room     *chat.Room
	origins  *originPolicy
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// New builds a Server from cfg. Call Start before serving requests.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:     cfg,
		hub:     NewHub(logger),
		origins: newOriginPolicy(cfg.AllowedOrigins, logger),
		logger:  logger,
		room: chat.NewRoom(chat.Options{
			GracePeriod: cfg.GracePeriod,
			Logger:      logger,
		}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.origins.checkOrigin,
	}
	return s
}

// Start launches the hub loop.
func (s *Server) Start() {
	go s.hub.Run()
	s.logger.Info("hub started and ready to manage WebSocket connections")
}

// Room exposes the chat room, mainly for inspection in tests.
func (s *Server) Room() *chat.Room {
	return s.room
}

// Hub exposes the connection supervisor.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Shutdown drops pending grace period checks and closes every connection.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.room.Close()
	return s.hub.Shutdown(timeout)
}

func (s *Server) clientOptions() ClientOptions {
	return ClientOptions{
		MaxMessageSize: s.cfg.MaxMessageSize,
		SendBuffer:     s.cfg.SendBuffer,
		RateBurst:      s.cfg.RateLimit.Burst,
		RateInterval:   s.cfg.RateLimit.RefillInterval,
		Logger:         s.logger,
	}
}
