package scoring

import (
	"sort"
	"time"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/cards"
)

// FinalizeInput is everything needed to score a completed game
type FinalizeInput struct {
	GameID      model.GameID
	WinnerID    model.PlayerID
	Players     []*model.GamePlayer // Seat order
	Hands       map[model.PlayerID][]model.Card
	PriorStats  map[model.PlayerID]*model.PlayerStats // Missing entries start from zero
	CompletedAt time.Time
}

// Service scores completed games and folds them into player statistics
type Service struct{}

// New creates a new scoring Service
func New() *Service {
	return &Service{}
}

// Finalize computes the winner's score, the rankings and updated stats documents
func (s *Service) Finalize(in FinalizeInput) model.FinalizeData {
	rankings := s.Rank(in.WinnerID, in.Players, in.Hands)

	winnerScore := 0
	for _, r := range rankings {
		if r.PlayerID != in.WinnerID {
			winnerScore += r.HandScore
		}
	}

	stats := make([]model.PlayerStats, 0, len(in.Players))
	for _, p := range in.Players {
		stats = append(stats, s.UpdateStats(in.GameID, p, in.PriorStats[p.PlayerID], p.PlayerID == in.WinnerID, winnerScore))
	}

	return model.FinalizeData{
		Result: model.GameResult{
			GameID:      in.GameID,
			WinnerID:    in.WinnerID,
			WinnerScore: winnerScore,
			Rankings:    rankings,
			CompletedAt: in.CompletedAt,
		},
		Stats: stats,
	}
}

// Rank places the winner first, then everyone else by ascending cards left.
// Ties keep seat order.
func (s *Service) Rank(winnerID model.PlayerID, players []*model.GamePlayer, hands map[model.PlayerID][]model.Card) []model.Ranking {
	others := make([]model.Ranking, 0, len(players))
	var winner *model.Ranking
	for _, p := range players {
		hand := hands[p.PlayerID]
		r := model.Ranking{
			PlayerID:       p.PlayerID,
			CardsRemaining: len(hand),
			HandScore:      cards.HandScore(hand),
		}
		if p.PlayerID == winnerID {
			winner = &r
			continue
		}
		others = append(others, r)
	}
	sort.SliceStable(others, func(i, j int) bool {
		return others[i].CardsRemaining < others[j].CardsRemaining
	})

	out := make([]model.Ranking, 0, len(players))
	if winner != nil {
		out = append(out, *winner)
	}
	out = append(out, others...)
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// UpdateStats folds one game into a player's long-lived stats. Applying the
// same game twice is a no-op.
func (s *Service) UpdateStats(gameID model.GameID, player *model.GamePlayer, prior *model.PlayerStats, won bool, winnerScore int) model.PlayerStats {
	stats := model.PlayerStats{PlayerID: player.PlayerID}
	if prior != nil {
		stats = *prior
	}
	if stats.LastGameID == gameID {
		return stats
	}

	stats.GamesPlayed++
	if won {
		stats.GamesWon++
		stats.TotalScore += winnerScore
		stats.HighestGameScore = max(stats.HighestGameScore, winnerScore)
	} else {
		stats.GamesLost++
	}
	stats.WinRate = float64(stats.GamesWon) / float64(stats.GamesPlayed)
	stats.CardsPlayed += player.GameStats.CardsPlayed
	stats.SpecialCardsPlayed += player.GameStats.SpecialCardsPlayed
	stats.LastGameID = gameID
	return stats
}
