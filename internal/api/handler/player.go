package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/unogame/internal/api/apierr"
	"github.com/mcoot/unogame/internal/api/response"
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/game"
)

// PlayerHandler handles player statistics endpoints
type PlayerHandler struct {
	controller *game.Controller
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(controller *game.Controller) *PlayerHandler {
	return &PlayerHandler{controller: controller}
}

// Stats handles GET /api/v1/players/{id}/stats
func (h *PlayerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.controller.GetStats(r.Context(), model.PlayerID(mux.Vars(r)["id"]))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, stats)
}

// Results handles GET /api/v1/players/{id}/results?limit=n
func (h *PlayerHandler) Results(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["id"])

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			apierr.WriteError(w, apierr.NewInvalidRequestError("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	results, err := h.controller.ListResults(r.Context(), playerID, limit)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if results == nil {
		results = []*model.GameResult{}
	}
	response.JSON(w, http.StatusOK, response.Results{PlayerID: playerID, Results: results})
}
