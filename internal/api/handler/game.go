package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/unogame/internal/api/apierr"
	"github.com/mcoot/unogame/internal/api/middleware"
	"github.com/mcoot/unogame/internal/api/request"
	"github.com/mcoot/unogame/internal/api/response"
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/bot"
	"github.com/mcoot/unogame/internal/services/cards"
	"github.com/mcoot/unogame/internal/services/game"
)

// GameHandler handles game endpoints
type GameHandler struct {
	controller *game.Controller
	bots       *bot.Service
}

// NewGameHandler creates a new game handler. bots may be nil, in which case
// seated bots never move.
func NewGameHandler(controller *game.Controller, bots *bot.Service) *GameHandler {
	return &GameHandler{controller: controller, bots: bots}
}

// runBots plays any bot turns now due. Failures are logged by the bot service
// and leave the game waiting on the bot.
func (h *GameHandler) runBots(r *http.Request, id model.GameID) []bot.BotAction {
	if h.bots == nil {
		return nil
	}
	actions, _ := h.bots.ProcessBotActions(r.Context(), id)
	return actions
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apierr.NewInvalidRequestError("invalid request body")
}

// view loads the game and its players for a response
func (h *GameHandler) view(r *http.Request, g *model.Game) (response.Game, error) {
	players, err := h.controller.GetPlayers(r.Context(), g.ID)
	if err != nil {
		return response.Game{}, err
	}
	return response.GameFromModel(g, players), nil
}

func (h *GameHandler) writeGame(w http.ResponseWriter, r *http.Request, status int, g *model.Game) {
	resp, err := h.view(r, g)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, status, resp)
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	var req request.CreateGameRequest
	if err := decode(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	g, err := h.controller.CreateGame(r.Context(), playerID, req.DisplayName, req.Config())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeGame(w, r, http.StatusCreated, g)
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.controller.GetGame(r.Context(), gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeGame(w, r, http.StatusOK, g)
}

// Join handles POST /api/v1/games/{id}/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	var req request.JoinGameRequest
	if err := decode(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	g, err := h.controller.JoinGame(r.Context(), gameID(r), playerID, req.DisplayName)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeGame(w, r, http.StatusOK, g)
}

// Start handles POST /api/v1/games/{id}/start
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	g, err := h.controller.StartGame(r.Context(), gameID(r), playerID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if len(h.runBots(r, g.ID)) > 0 {
		if g, err = h.controller.GetGame(r.Context(), g.ID); err != nil {
			apierr.WriteError(w, err)
			return
		}
	}
	h.writeGame(w, r, http.StatusOK, g)
}

// AddBot handles POST /api/v1/games/{id}/bots
func (h *GameHandler) AddBot(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	var req request.AddBotRequest
	if err := decode(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}
	if h.bots == nil {
		apierr.WriteError(w, model.ErrUnknownBotStrategy.WithMessage("bots are not enabled"))
		return
	}

	g, err := h.bots.AddBot(r.Context(), gameID(r), playerID, req.StrategyOrDefault())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeGame(w, r, http.StatusCreated, g)
}

// Act handles POST /api/v1/games/{id}/actions
func (h *GameHandler) Act(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	var req request.ActionRequest
	if err := decode(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}
	action, err := req.Action()
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	result, err := h.controller.PerformAction(r.Context(), gameID(r), playerID, action)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	// Game reflects the table after any bot turns the action handed over to
	var moves []bot.BotAction
	if result.Result == nil {
		moves = h.runBots(r, result.Game.ID)
	}
	if len(moves) > 0 {
		if result.Game, err = h.controller.GetGame(r.Context(), result.Game.ID); err != nil {
			apierr.WriteError(w, err)
			return
		}
	}

	players, err := h.controller.GetPlayers(r.Context(), result.Game.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	resp := response.ActionFromResult(result, players)
	resp.BotMoves = response.BotMovesFromActions(moves)
	response.JSON(w, http.StatusOK, resp)
}

// CallUno handles POST /api/v1/games/{id}/uno
func (h *GameHandler) CallUno(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	player, err := h.controller.CallUno(r.Context(), gameID(r), playerID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// ChallengeUno handles POST /api/v1/games/{id}/uno/challenge
func (h *GameHandler) ChallengeUno(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	var req request.ChallengeRequest
	if err := decode(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}
	if req.TargetID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("targetId is required"))
		return
	}

	target, err := h.controller.ChallengeUno(r.Context(), gameID(r), playerID, req.TargetID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerFromModel(target))
}

// Hand handles GET /api/v1/games/{id}/hand
func (h *GameHandler) Hand(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())
	id := gameID(r)

	g, err := h.controller.GetGame(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	hand, err := h.controller.GetHand(r.Context(), id, playerID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	resp := response.Hand{GameID: id, PlayerID: playerID, Cards: hand.Cards, Playable: []int{}}
	top, ok := g.State.TopCard()
	if ok && g.State.Status == model.GameStatusInProgress && g.State.CurrentTurnPlayerID == playerID {
		resp.Playable = cards.PlayableIndexes(hand.Cards, top, g.State.CurrentColor, g.State.MustDraw,
			cards.NewHouseRuleSet(g.Config.HouseRules...))
	}
	response.JSON(w, http.StatusOK, resp)
}

// Result handles GET /api/v1/games/{id}/result
func (h *GameHandler) Result(w http.ResponseWriter, r *http.Request) {
	result, err := h.controller.GetResult(r.Context(), gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}
