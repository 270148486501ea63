package game

import (
	"context"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/rules"
	"github.com/mcoot/unogame/internal/storage"
)

// applyAggregate writes merged effects into the transaction. game is the
// snapshot the pipeline ran against and is updated in place.
func applyAggregate(ctx context.Context, tx storage.Tx, game *model.Game, agg *rules.Aggregate) error {
	if agg.IsEmpty() {
		return nil
	}

	for path, value := range agg.Game {
		if err := game.SetField(path, value); err != nil {
			return err
		}
	}
	if agg.Winner != nil {
		game.WinnerID = agg.Winner.WinnerID
	}
	if err := tx.SaveGame(ctx, game); err != nil {
		return err
	}

	for _, id := range agg.PlayerIDs() {
		player, err := tx.GetGamePlayer(ctx, game.ID, id)
		if err != nil {
			return err
		}
		for path, value := range agg.Players[id] {
			if err := player.SetField(path, value); err != nil {
				return err
			}
		}
		if err := tx.SaveGamePlayer(ctx, player); err != nil {
			return err
		}
	}

	for id, held := range agg.Hands {
		if err := tx.SaveHand(ctx, &model.PlayerHand{GameID: game.ID, PlayerID: id, Cards: held}); err != nil {
			return err
		}
	}

	if agg.Winner != nil {
		for i := range agg.Winner.Data.Stats {
			if err := tx.SavePlayerStats(ctx, &agg.Winner.Data.Stats[i]); err != nil {
				return err
			}
		}
	}
	return nil
}
