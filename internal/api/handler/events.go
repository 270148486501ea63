package handler

import (
	"net/http"

	"github.com/mcoot/unogame/internal/api/apierr"
	"github.com/mcoot/unogame/internal/api/middleware"
	"github.com/mcoot/unogame/internal/events"
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/game"
)

// EventsHandler streams game events
type EventsHandler struct {
	controller *game.Controller
	hubs       *events.HubManager
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(controller *game.Controller, hubs *events.HubManager) *EventsHandler {
	return &EventsHandler{controller: controller, hubs: hubs}
}

// Stream handles GET /api/v1/games/{id}/events. Only seated players may listen.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())
	id := gameID(r)

	g, err := h.controller.GetGame(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if g.SeatOf(playerID) < 0 {
		apierr.WriteError(w, model.ErrPlayerNotFound.WithDetails(map[string]any{"playerId": string(playerID)}))
		return
	}

	events.ServeSSE(w, r, h.hubs.GetOrCreateHub(id), playerID)
}
