package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/unogame/internal/api/apierr"
	"github.com/mcoot/unogame/internal/model"
)

// PlayerHeader carries the caller's player id. Authenticating it is the
// job of whatever sits in front of this service.
const PlayerHeader = "X-Player-ID"

type contextKey string

const playerContextKey contextKey = "player"

// Player requires the player header and stores its value in the request context
func Player() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(PlayerHeader))
			if id == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			ctx := context.WithValue(r.Context(), playerContextKey, model.PlayerID(id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPlayerID returns the caller's player id, or "" if the middleware did not run
func GetPlayerID(ctx context.Context) model.PlayerID {
	id, _ := ctx.Value(playerContextKey).(model.PlayerID)
	return id
}

// MustGetPlayerID returns the caller's player id or panics
func MustGetPlayerID(ctx context.Context) model.PlayerID {
	id := GetPlayerID(ctx)
	if id == "" {
		panic("no player in context - player middleware not applied?")
	}
	return id
}
