// Package web embeds the landing page served at the site root.
package web

import (
	_ "embed"
	"log/slog"
	"net/http"
)

//go:embed index.html
var indexHTML []byte

// IndexHandler serves the embedded landing page verbatim.
func IndexHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(indexHTML); err != nil {
			slog.Debug("web: failed to write landing page", "error", err)
		}
	})
}
