package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Tyrowin/chatroom/internal/metrics"
	"github.com/Tyrowin/chatroom/web"
)

// Routes returns the HTTP handler for every endpoint the server exposes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	landing := web.IndexHandler()
	r.Method(http.MethodGet, "/", landing)
	r.Method(http.MethodGet, "/index.html", landing)
	r.HandleFunc("/ws", s.WebSocketHandler)
	r.Get("/health", HealthHandler)
	if s.cfg.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	return r
}
