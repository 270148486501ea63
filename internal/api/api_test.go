package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/unogame/internal/api"
	"github.com/mcoot/unogame/internal/api/apierr"
	"github.com/mcoot/unogame/internal/api/response"
	"github.com/mcoot/unogame/internal/factory"
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/testutil"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app, err := factory.NewTestApp()
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		GameController: app.GameController,
		BotService:     app.BotService,
		HubManager:     app.HubManager,
	})
	return &testServer{t: t, handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any, player string) *httptest.ResponseRecorder {
	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(ts.t, json.NewEncoder(&reqBody).Encode(body))
	}

	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	if player != "" {
		req.Header.Set("X-Player-ID", player)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[apierr.ErrorResponse](t, rr).Error.Code
}

// startedGame creates a game hosted by alice, seats bob and starts it
func (ts *testServer) startedGame() string {
	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]any{"displayName": "Alice"}, "alice")
	require.Equal(ts.t, http.StatusCreated, rr.Code, rr.Body.String())
	id := string(decode[response.Game](ts.t, rr).ID)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+id+"/join", nil, "bob")
	require.Equal(ts.t, http.StatusOK, rr.Code, rr.Body.String())
	rr = ts.request(http.MethodPost, "/api/v1/games/"+id+"/start", nil, "alice")
	require.Equal(ts.t, http.StatusOK, rr.Code, rr.Body.String())
	return id
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decode[response.Health](t, rr).Status)
}

func TestPlayerHeaderRequired(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/games", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeUnauthorized, errorCode(t, rr))
}

func TestCreateGame(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]any{
		"displayName": "Alice",
		"maxPlayers":  3,
		"houseRules":  []string{"stacking"},
	}, "alice")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "deckSeed")

	g := decode[response.Game](t, rr)
	assert.Equal(t, model.GameStatusWaiting, g.Status)
	assert.Equal(t, 3, g.Config.MaxPlayers)
	assert.Equal(t, []model.HouseRule{model.HouseRuleStacking}, g.Config.HouseRules)
	require.Len(t, g.Players, 1)
	assert.Equal(t, "Alice", g.Players[0].DisplayName)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+string(g.ID), nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCreateGameRejectsBadInput(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]any{"maxPlayers": 20}, "alice")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, string(model.CodeInvalidConfig), errorCode(t, rr))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/games", bytes.NewBufferString("{not json"))
	req.Header.Set("X-Player-ID", "alice")
	bad := httptest.NewRecorder()
	ts.handler.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, bad))
}

func TestLifecycleErrors(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, string(model.CodeGameNotFound), errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/games", nil, "alice")
	require.Equal(t, http.StatusCreated, rr.Code)
	id := string(decode[response.Game](t, rr).ID)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+id+"/start", nil, "alice")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, string(model.CodeInsufficientPlayers), errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/games/"+id+"/join", nil, "alice")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, string(model.CodeAlreadyJoined), errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/games/"+id+"/join", nil, "bob")
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.request(http.MethodPost, "/api/v1/games/"+id+"/start", nil, "bob")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, string(model.CodeNotHost), errorCode(t, rr))
}

func TestHand(t *testing.T) {
	ts := newTestServer(t)
	id := ts.startedGame()

	rr := ts.request(http.MethodGet, "/api/v1/games/"+id+"/hand", nil, "bob")
	require.Equal(t, http.StatusOK, rr.Code)
	hand := decode[response.Hand](t, rr)
	assert.Len(t, hand.Cards, model.DefaultHandSize)
	assert.Empty(t, hand.Playable)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+id+"/hand", nil, "mallory")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDrawThenPass(t *testing.T) {
	ts := newTestServer(t)
	id := ts.startedGame()

	rr := ts.request(http.MethodPost, "/api/v1/games/"+id+"/actions", map[string]any{"type": "draw"}, "alice")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	drawn := decode[response.Action](t, rr)
	assert.Len(t, drawn.CardsDrawn, 1)
	assert.Len(t, drawn.Hand, model.DefaultHandSize+1)
	assert.Equal(t, "awaiting-draw", drawn.TurnPhase)
	assert.Equal(t, model.PlayerID("alice"), drawn.Game.CurrentTurnPlayerID)
	assert.NotEmpty(t, drawn.ActionID)
	assert.NotContains(t, rr.Body.String(), "deckSeed")

	rr = ts.request(http.MethodPost, "/api/v1/games/"+id+"/actions", map[string]any{"type": "pass"}, "alice")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	passed := decode[response.Action](t, rr)
	assert.Equal(t, model.PlayerID("bob"), passed.Game.CurrentTurnPlayerID)
	require.Len(t, passed.Game.Players, 2)
	assert.Equal(t, model.DefaultHandSize+1, passed.Game.Players[0].CardCount)
}

func TestActionErrors(t *testing.T) {
	ts := newTestServer(t)
	id := ts.startedGame()
	path := "/api/v1/games/" + id + "/actions"

	rr := ts.request(http.MethodPost, path, map[string]any{"type": "pass"}, "bob")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, string(model.CodeNotYourTurn), errorCode(t, rr))

	rr = ts.request(http.MethodPost, path, map[string]any{"type": "play"}, "alice")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, string(model.CodeInvalidCardIndex), errorCode(t, rr))

	rr = ts.request(http.MethodPost, path, map[string]any{"type": "play", "cardIndex": 99}, "alice")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, string(model.CodeInvalidCardIndex), errorCode(t, rr))

	rr = ts.request(http.MethodPost, path, map[string]any{"type": "shuffle"}, "alice")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, string(model.CodeInvalidAction), errorCode(t, rr))
}

func TestUnoEndpoints(t *testing.T) {
	ts := newTestServer(t)
	id := ts.startedGame()

	rr := ts.request(http.MethodPost, "/api/v1/games/"+id+"/uno", nil, "alice")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, string(model.CodeUnoNotApplicable), errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/games/"+id+"/uno/challenge", map[string]any{}, "bob")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+id+"/uno/challenge", map[string]any{"targetId": "alice"}, "bob")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, string(model.CodeUnoNotApplicable), errorCode(t, rr))
}

func TestBots(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.request(http.MethodPost, "/api/v1/games", nil, "alice")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	id := string(decode[response.Game](t, rr).ID)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+id+"/bots", map[string]any{"strategy": "psychic"}, "alice")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, string(model.CodeUnknownBotStrategy), errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/games/"+id+"/bots", nil, "bob")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+id+"/bots", map[string]any{"strategy": "greedy"}, "alice")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	withBot := decode[response.Game](t, rr)
	require.Len(t, withBot.Players, 2)
	assert.False(t, withBot.Players[0].IsBot)
	assert.True(t, withBot.Players[1].IsBot)
	assert.Equal(t, "Bot 1", withBot.Players[1].DisplayName)
	botID := withBot.Players[1].PlayerID

	rr = ts.request(http.MethodPost, "/api/v1/games/"+id+"/start", nil, "alice")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, model.PlayerID("alice"), decode[response.Game](t, rr).CurrentTurnPlayerID)

	// Passing hands the turn to the bot, which moves before the response
	rr = ts.request(http.MethodPost, "/api/v1/games/"+id+"/actions", map[string]any{"type": "draw"}, "alice")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Empty(t, decode[response.Action](t, rr).BotMoves)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+id+"/actions", map[string]any{"type": "pass"}, "alice")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	passed := decode[response.Action](t, rr)
	require.NotEmpty(t, passed.BotMoves)
	assert.Equal(t, botID, passed.BotMoves[0].PlayerID)
	assert.Equal(t, model.PlayerID("alice"), passed.Game.CurrentTurnPlayerID)
}

func TestResultsAndStats(t *testing.T) {
	ts := newTestServer(t)
	id := ts.startedGame()

	rr := ts.request(http.MethodGet, "/api/v1/games/"+id+"/result", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, string(model.CodeResultNotFound), errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/players/alice/stats", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, string(model.CodeStatsNotFound), errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/players/alice/results?limit=5", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	results := decode[response.Results](t, rr)
	assert.Equal(t, model.PlayerID("alice"), results.PlayerID)
	assert.Empty(t, results.Results)

	rr = ts.request(http.MethodGet, "/api/v1/players/alice/results?limit=lots", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEventsRequireSeat(t *testing.T) {
	ts := newTestServer(t)
	id := ts.startedGame()

	rr := ts.request(http.MethodGet, "/api/v1/games/"+id+"/events", nil, "mallory")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, string(model.CodePlayerNotFound), errorCode(t, rr))
}
