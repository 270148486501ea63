package storage

import (
	"context"

	"github.com/mcoot/unogame/internal/model"
)

// SeatedPlayers loads every player of a game in seat order using r's
// single-document reads
func SeatedPlayers(ctx context.Context, r Reader, gameID model.GameID) ([]*model.GamePlayer, error) {
	game, err := r.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	players := make([]*model.GamePlayer, 0, len(game.Players))
	for _, id := range game.Players {
		p, err := r.GetGamePlayer(ctx, gameID, id)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, nil
}

// SeatedHands loads every seated player's hand
func SeatedHands(ctx context.Context, r Reader, gameID model.GameID) (map[model.PlayerID]*model.PlayerHand, error) {
	game, err := r.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	hands := make(map[model.PlayerID]*model.PlayerHand, len(game.Players))
	for _, id := range game.Players {
		h, err := r.GetHand(ctx, gameID, id)
		if err != nil {
			return nil, err
		}
		hands[id] = h
	}
	return hands, nil
}
