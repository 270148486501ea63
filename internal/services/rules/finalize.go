package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/scoring"
)

// winDetectionRule ends the game when a play empties the acting player's hand.
// Scoring needs every opponent's hand and stats document, so they are read here
// rather than carried in the context of every action.
type winDetectionRule struct {
	base
	scoring *scoring.Service
}

func (winDetectionRule) CanHandle(rc *Context) bool {
	return rc.IsPlay() && rc.Hand != nil && len(rc.Hand.Cards) == 1
}

func (r winDetectionRule) Finalize(ctx context.Context, rc *Context, applied *Aggregate) (Outcome, error) {
	if hand, ok := applied.Hands[rc.PlayerID]; !ok || len(hand) != 0 {
		return Outcome{}, nil
	}

	players, err := rc.Tx.GetGamePlayers(ctx, rc.GameID)
	if err != nil {
		return Outcome{}, fmt.Errorf("loading players: %w", err)
	}
	stored, err := rc.Tx.GetHands(ctx, rc.GameID)
	if err != nil {
		return Outcome{}, fmt.Errorf("loading hands: %w", err)
	}

	// Score against the post-action state, not the stored one
	hands := make(map[model.PlayerID][]model.Card, len(stored))
	for id, h := range stored {
		hands[id] = h.Cards
	}
	for id, h := range applied.Hands {
		hands[id] = h
	}
	projected, err := projectPlayers(rc.Game.Players, players, applied)
	if err != nil {
		return Outcome{}, err
	}

	prior := make(map[model.PlayerID]*model.PlayerStats, len(projected))
	for _, p := range projected {
		st, err := rc.Tx.GetPlayerStats(ctx, p.PlayerID)
		if errors.Is(err, model.ErrStatsNotFound) {
			continue
		}
		if err != nil {
			return Outcome{}, fmt.Errorf("loading stats for %s: %w", p.PlayerID, err)
		}
		prior[p.PlayerID] = st
	}

	data := r.scoring.Finalize(scoring.FinalizeInput{
		GameID:      rc.GameID,
		WinnerID:    rc.PlayerID,
		Players:     projected,
		Hands:       hands,
		PriorStats:  prior,
		CompletedAt: rc.Now,
	})

	var out Outcome
	out.add(
		SetWinner{WinnerID: rc.PlayerID, Data: data},
		UpdateGame{Fields: Fields{
			model.FieldStatus:      model.GameStatusCompleted,
			model.FieldCompletedAt: rc.Now,
		}},
		UpdatePlayer{PlayerID: rc.PlayerID, Fields: Fields{
			model.FieldPlayerStatus: model.PlayerStatusWinner,
		}},
		EmitEvents{Events: []model.Event{rc.event(model.EventGameWon, map[string]any{
			"winnerScore": data.Result.WinnerScore,
			"rankings":    data.Result.Rankings,
		})}},
	)
	return out, nil
}

// projectPlayers returns copies of players in seat order with the merged
// apply effects written over them
func projectPlayers(seats []model.PlayerID, players []*model.GamePlayer, applied *Aggregate) ([]*model.GamePlayer, error) {
	byID := make(map[model.PlayerID]*model.GamePlayer, len(players))
	for _, p := range players {
		byID[p.PlayerID] = p
	}
	out := make([]*model.GamePlayer, 0, len(seats))
	for _, id := range seats {
		p, ok := byID[id]
		if !ok {
			return nil, model.ErrPlayerNotFound.WithDetails(map[string]any{"playerId": string(id)})
		}
		cp := p.Clone()
		for path, value := range applied.Players[id] {
			if err := cp.SetField(path, value); err != nil {
				return nil, err
			}
		}
		out = append(out, cp)
	}
	return out, nil
}
