package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/unogame/internal/api/handler"
	"github.com/mcoot/unogame/internal/api/middleware"
	"github.com/mcoot/unogame/internal/api/response"
	"github.com/mcoot/unogame/internal/events"
	"github.com/mcoot/unogame/internal/services/bot"
	"github.com/mcoot/unogame/internal/services/game"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController *game.Controller
	BotService     *bot.Service
	HubManager     *events.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.BotService)
	playerHandler := handler.NewPlayerHandler(cfg.GameController)
	eventsHandler := handler.NewEventsHandler(cfg.GameController, cfg.HubManager)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Reads that reveal nothing private need no identity
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/result", gameHandler.Result).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}/stats", playerHandler.Stats).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}/results", playerHandler.Results).Methods(http.MethodGet)

	games := api.PathPrefix("/games").Subrouter()
	games.Use(middleware.Player())
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{id}/join", gameHandler.Join).Methods(http.MethodPost)
	games.HandleFunc("/{id}/bots", gameHandler.AddBot).Methods(http.MethodPost)
	games.HandleFunc("/{id}/start", gameHandler.Start).Methods(http.MethodPost)
	games.HandleFunc("/{id}/actions", gameHandler.Act).Methods(http.MethodPost)
	games.HandleFunc("/{id}/uno", gameHandler.CallUno).Methods(http.MethodPost)
	games.HandleFunc("/{id}/uno/challenge", gameHandler.ChallengeUno).Methods(http.MethodPost)
	games.HandleFunc("/{id}/hand", gameHandler.Hand).Methods(http.MethodGet)
	games.HandleFunc("/{id}/events", eventsHandler.Stream).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
