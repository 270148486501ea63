package game

import (
	"context"
	"log/slog"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/deck"
	"github.com/mcoot/unogame/internal/storage"
)

// UnoPenaltyCards is how many cards a player caught without calling UNO draws
const UnoPenaltyCards = 2

// CallUno declares UNO. It may be called by a player holding one card, or by
// the current player holding two before they play one of them.
func (c *Controller) CallUno(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.GamePlayer, error) {
	now := c.clock.Now()

	var player *model.GamePlayer
	err := c.storage.RunInTransaction(ctx, gameID, func(tx storage.Tx) error {
		game, err := inProgress(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if player, err = tx.GetGamePlayer(ctx, gameID, playerID); err != nil {
			return err
		}

		onTurnWithTwo := player.CardCount == 2 && game.State.CurrentTurnPlayerID == playerID
		if player.CardCount != 1 && !onTurnWithTwo {
			return model.ErrUnoNotApplicable.WithDetails(map[string]any{"cardCount": player.CardCount})
		}

		player.HasCalledUno = true
		player.MustCallUno = false
		return tx.SaveGamePlayer(ctx, player)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("uno called",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
	)
	c.publish(gameID, model.NewEvent(model.EventUnoCalled, gameID, playerID, now, nil))
	return player, nil
}

// ChallengeUno catches a player who went down to one card without calling UNO.
// The target draws UnoPenaltyCards; the challenge stays open until the target
// next acts or calls UNO.
func (c *Controller) ChallengeUno(ctx context.Context, gameID model.GameID, challengerID, targetID model.PlayerID) (*model.GamePlayer, error) {
	now := c.clock.Now()

	var target *model.GamePlayer
	var events []model.Event
	err := c.storage.RunInTransaction(ctx, gameID, func(tx storage.Tx) error {
		events = nil
		game, err := inProgress(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if game.SeatOf(challengerID) < 0 {
			return model.ErrPlayerNotFound.WithDetails(map[string]any{"playerId": string(challengerID)})
		}
		if challengerID == targetID {
			return model.ErrUnoNotApplicable.WithMessage("players cannot challenge themselves")
		}
		if target, err = tx.GetGamePlayer(ctx, gameID, targetID); err != nil {
			return err
		}
		if !target.MustCallUno {
			return model.ErrUnoNotApplicable.WithDetails(map[string]any{"targetId": string(targetID)})
		}

		hands, err := tx.GetHands(ctx, gameID)
		if err != nil {
			return err
		}
		req := deck.DrawRequest{
			Seed:    game.State.DeckSeed,
			Hand:    hands[targetID].Cards,
			Discard: game.State.DiscardPile,
			Count:   UnoPenaltyCards,
		}
		for _, id := range game.Players {
			if id != targetID {
				req.Others = append(req.Others, hands[id].Cards)
			}
		}
		drawn, err := c.deck.Draw(req)
		if err != nil {
			return err
		}

		held := append(model.CloneCards(hands[targetID].Cards), drawn.Cards...)
		if err := tx.SaveHand(ctx, &model.PlayerHand{GameID: gameID, PlayerID: targetID, Cards: held}); err != nil {
			return err
		}
		target.CardCount = len(held)
		target.GameStats.CardsDrawn += len(drawn.Cards)
		target.MustCallUno = false
		target.HasCalledUno = false
		if err := tx.SaveGamePlayer(ctx, target); err != nil {
			return err
		}

		game.State.DeckSeed = drawn.Seed
		game.State.DiscardPile = drawn.Discard
		game.State.DrawPileCount = drawn.Remaining
		game.LastActivityAt = now
		if err := tx.SaveGame(ctx, game); err != nil {
			return err
		}

		events = append(events, model.NewEvent(model.EventUnoPenalty, gameID, targetID, now, map[string]any{
			"challengerId": string(challengerID),
			"count":        len(drawn.Cards),
		}))
		if drawn.Reshuffled {
			events = append(events, model.NewEvent(model.EventDeckReshuffled, gameID, targetID, now, map[string]any{
				"remaining": drawn.Remaining,
			}))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("uno penalty applied",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(targetID)),
		slog.String("challenger_id", string(challengerID)),
	)
	c.publisher.Publish(gameID, events)
	return target, nil
}

func inProgress(ctx context.Context, tx storage.Tx, gameID model.GameID) (*model.Game, error) {
	game, err := tx.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.State.Status != model.GameStatusInProgress {
		return nil, model.ErrGameNotInProgress.WithDetails(map[string]any{"status": string(game.State.Status)})
	}
	return game, nil
}
