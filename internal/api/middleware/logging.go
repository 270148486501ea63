package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/unogame/internal/middleware"
)

// Logging creates request logging middleware that also records the caller's
// player id when one was sent
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger, func(r *http.Request) []slog.Attr {
		if id := r.Header.Get(PlayerHeader); id != "" {
			return []slog.Attr{slog.String("player_id", id)}
		}
		return nil
	})
}
