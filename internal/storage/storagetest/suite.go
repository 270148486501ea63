// Package storagetest is the behaviour every storage backend must share.
// Backend test files embed Suite and supply a constructor.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/storage"
)

var fixedTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// Suite runs the shared storage contract against the backend NewStorage builds
type Suite struct {
	suite.Suite
	NewStorage func(t *testing.T) storage.Storage

	Storage storage.Storage
	Ctx     context.Context
}

func (s *Suite) SetupTest() {
	s.Storage = s.NewStorage(s.T())
	s.Ctx = context.Background()
}

// Game returns an in-progress game document seated with ids
func Game(id model.GameID, ids ...model.PlayerID) *model.Game {
	started := fixedTime
	return &model.Game{
		ID:      id,
		HostID:  ids[0],
		Config:  model.GameConfig{MaxPlayers: 4, HouseRules: []model.HouseRule{model.HouseRuleStacking}},
		Players: ids,
		State: model.GameState{
			Status:              model.GameStatusInProgress,
			CurrentTurnPlayerID: ids[0],
			Direction:           model.DirectionClockwise,
			DeckSeed:            "seed",
			DrawPileCount:       93,
			DiscardPile:         []model.Card{model.NumberCard(model.ColorRed, 5)},
			CurrentColor:        model.ColorPtr(model.ColorBlue),
		},
		CreatedAt:      fixedTime,
		StartedAt:      &started,
		LastActivityAt: fixedTime,
	}
}

// Seat returns a player document and a hand of cards for id in gameID
func Seat(gameID model.GameID, id model.PlayerID, cards ...model.Card) (*model.GamePlayer, *model.PlayerHand) {
	return &model.GamePlayer{
			GameID:      gameID,
			PlayerID:    id,
			DisplayName: string(id),
			CardCount:   len(cards),
			Status:      model.PlayerStatusActive,
			JoinedAt:    fixedTime,
		}, &model.PlayerHand{
			GameID:   gameID,
			PlayerID: id,
			Cards:    cards,
		}
}

// seed writes a game and every seat's documents in one transaction
func (s *Suite) seed(game *model.Game) {
	err := s.Storage.RunInTransaction(s.Ctx, game.ID, func(tx storage.Tx) error {
		if err := tx.SaveGame(s.Ctx, game); err != nil {
			return err
		}
		for i, id := range game.Players {
			p, h := Seat(game.ID, id, model.NumberCard(model.ColorGreen, i), model.WildCard(model.ValueWild))
			if err := tx.SaveGamePlayer(s.Ctx, p); err != nil {
				return err
			}
			if err := tx.SaveHand(s.Ctx, h); err != nil {
				return err
			}
		}
		return nil
	})
	s.Require().NoError(err)
}

func (s *Suite) TestMissingDocuments() {
	_, err := s.Storage.GetGame(s.Ctx, "nope")
	s.ErrorIs(err, model.ErrGameNotFound)

	_, err = s.Storage.GetGamePlayer(s.Ctx, "nope", "p1")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.Storage.GetHand(s.Ctx, "nope", "p1")
	s.ErrorIs(err, model.ErrHandNotFound)

	_, err = s.Storage.GetPlayerStats(s.Ctx, "p1")
	s.ErrorIs(err, model.ErrStatsNotFound)

	_, err = s.Storage.GetGamePlayers(s.Ctx, "nope")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestCommittedDocumentsRoundTrip() {
	game := Game("g1", "p1", "p2")
	s.seed(game)

	got, err := s.Storage.GetGame(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Equal(game, got)

	player, err := s.Storage.GetGamePlayer(s.Ctx, "g1", "p2")
	s.Require().NoError(err)
	s.Equal("p2", player.DisplayName)
	s.Equal(2, player.CardCount)

	hand, err := s.Storage.GetHand(s.Ctx, "g1", "p2")
	s.Require().NoError(err)
	s.Equal([]model.Card{model.NumberCard(model.ColorGreen, 1), model.WildCard(model.ValueWild)}, hand.Cards)
}

func (s *Suite) TestGamePlayersInSeatOrder() {
	s.seed(Game("g1", "p3", "p1", "p2"))

	players, err := s.Storage.GetGamePlayers(s.Ctx, "g1")
	s.Require().NoError(err)

	ids := make([]model.PlayerID, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.PlayerID)
	}
	s.Equal([]model.PlayerID{"p3", "p1", "p2"}, ids)

	hands, err := s.Storage.GetHands(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Len(hands, 3)
	s.Equal(model.NumberCard(model.ColorGreen, 0), hands["p3"].Cards[0])
}

func (s *Suite) TestMissingSeatDocument() {
	game := Game("g1", "p1", "p2")
	s.seed(game)
	err := s.Storage.RunInTransaction(s.Ctx, "g1", func(tx storage.Tx) error {
		game.Players = append(game.Players, "ghost")
		return tx.SaveGame(s.Ctx, game)
	})
	s.Require().NoError(err)

	_, err = s.Storage.GetGamePlayers(s.Ctx, "g1")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.Storage.GetHands(s.Ctx, "g1")
	s.ErrorIs(err, model.ErrHandNotFound)
}

func (s *Suite) TestTransactionReadsItsOwnWrites() {
	s.seed(Game("g1", "p1", "p2"))

	err := s.Storage.RunInTransaction(s.Ctx, "g1", func(tx storage.Tx) error {
		game, err := tx.GetGame(s.Ctx, "g1")
		s.Require().NoError(err)
		game.State.MustDraw = 4
		s.Require().NoError(tx.SaveGame(s.Ctx, game))

		player, err := tx.GetGamePlayer(s.Ctx, "g1", "p2")
		s.Require().NoError(err)
		player.HasCalledUno = true
		s.Require().NoError(tx.SaveGamePlayer(s.Ctx, player))

		s.Require().NoError(tx.SaveHand(s.Ctx, &model.PlayerHand{GameID: "g1", PlayerID: "p1", Cards: []model.Card{}}))

		again, err := tx.GetGame(s.Ctx, "g1")
		s.Require().NoError(err)
		s.Equal(4, again.State.MustDraw)

		players, err := tx.GetGamePlayers(s.Ctx, "g1")
		s.Require().NoError(err)
		s.True(players[1].HasCalledUno)

		hands, err := tx.GetHands(s.Ctx, "g1")
		s.Require().NoError(err)
		s.Empty(hands["p1"].Cards)

		// Not visible outside until commit
		outside, err := s.Storage.GetGame(s.Ctx, "g1")
		s.Require().NoError(err)
		s.Equal(0, outside.State.MustDraw)
		return nil
	})
	s.Require().NoError(err)

	game, err := s.Storage.GetGame(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Equal(4, game.State.MustDraw)
}

func (s *Suite) TestFailedTransactionDiscardsWrites() {
	s.seed(Game("g1", "p1", "p2"))
	boom := errors.New("boom")

	err := s.Storage.RunInTransaction(s.Ctx, "g1", func(tx storage.Tx) error {
		game, err := tx.GetGame(s.Ctx, "g1")
		if err != nil {
			return err
		}
		game.State.Status = model.GameStatusCompleted
		if err := tx.SaveGame(s.Ctx, game); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	game, err := s.Storage.GetGame(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Equal(model.GameStatusInProgress, game.State.Status)
}

func (s *Suite) TestDomainErrorsSurviveTransactions() {
	err := s.Storage.RunInTransaction(s.Ctx, "g1", func(tx storage.Tx) error {
		return model.ErrNotYourTurn
	})
	s.ErrorIs(err, model.ErrNotYourTurn)
}

func (s *Suite) TestReturnedDocumentsAreCopies() {
	s.seed(Game("g1", "p1", "p2"))

	game, err := s.Storage.GetGame(s.Ctx, "g1")
	s.Require().NoError(err)
	game.State.DiscardPile[0] = model.WildCard(model.ValueWildDrawFour)
	game.Players[0] = "mallory"

	again, err := s.Storage.GetGame(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Equal(model.NumberCard(model.ColorRed, 5), again.State.DiscardPile[0])
	s.Equal(model.PlayerID("p1"), again.Players[0])
}

func (s *Suite) TestPlayerStats() {
	stats := &model.PlayerStats{
		PlayerID:    "p1",
		GamesPlayed: 3,
		GamesWon:    1,
		GamesLost:   2,
		TotalScore:  120,
		WinRate:     1.0 / 3.0,
		LastGameID:  "g1",
	}
	err := s.Storage.RunInTransaction(s.Ctx, "g1", func(tx storage.Tx) error {
		return tx.SavePlayerStats(s.Ctx, stats)
	})
	s.Require().NoError(err)

	got, err := s.Storage.GetPlayerStats(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal(stats, got)
}
