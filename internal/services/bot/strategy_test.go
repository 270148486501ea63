package bot_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/unogame/internal/dependencies/mocks"
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/bot"
)

type StrategySuite struct {
	suite.Suite
	mockRandom *mocks.MockRandom
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategySuite))
}

func (s *StrategySuite) SetupTest() {
	s.mockRandom = mocks.NewMockRandom()
}

func (s *StrategySuite) TestRandom_PicksQueuedCardAndColor() {
	hand := []model.Card{
		model.NumberCard(model.ColorRed, 1),
		model.WildCard(model.ValueWild),
		model.NumberCard(model.ColorRed, 9),
	}
	s.mockRandom.QueueIntn(1, 3) // second playable card, fourth color

	index, color := bot.NewRandomStrategy(s.mockRandom).ChooseCard(bot.Turn{Hand: hand, Playable: []int{0, 1, 2}})
	s.Equal(1, index)
	s.Require().NotNil(color)
	s.Equal(model.ColorBlue, *color)
}

func (s *StrategySuite) TestRandom_OnlyChoosesPlayable() {
	hand := []model.Card{
		model.NumberCard(model.ColorBlue, 1),
		model.NumberCard(model.ColorRed, 2),
	}
	s.mockRandom.QueueIntn(0)

	index, _ := bot.NewRandomStrategy(s.mockRandom).ChooseCard(bot.Turn{Hand: hand, Playable: []int{1}})
	s.Equal(1, index)
}

func (s *StrategySuite) TestGreedy_PlaysHighestScoringCard() {
	hand := []model.Card{
		model.NumberCard(model.ColorRed, 9),
		model.SpecialCard(model.ColorRed, model.ValueSkip),
		model.WildCard(model.ValueWild),
		model.NumberCard(model.ColorGreen, 4),
	}

	index, _ := bot.NewGreedyStrategy().ChooseCard(bot.Turn{Hand: hand, Playable: []int{0, 1, 3}})
	s.Equal(1, index, "a skip outscores a nine")

	index, _ = bot.NewGreedyStrategy().ChooseCard(bot.Turn{Hand: hand, Playable: []int{0, 1, 2, 3}})
	s.Equal(2, index, "a wild outscores everything else")
}

func (s *StrategySuite) TestGreedy_TiesGoToEarliestCard() {
	hand := []model.Card{
		model.NumberCard(model.ColorRed, 5),
		model.NumberCard(model.ColorBlue, 5),
	}

	index, _ := bot.NewGreedyStrategy().ChooseCard(bot.Turn{Hand: hand, Playable: []int{0, 1}})
	s.Equal(0, index)
}

func (s *StrategySuite) TestGreedy_CallsDominantColor() {
	hand := []model.Card{
		model.WildCard(model.ValueWildDrawFour),
		model.NumberCard(model.ColorGreen, 1),
		model.NumberCard(model.ColorYellow, 2),
		model.NumberCard(model.ColorGreen, 3),
	}

	index, color := bot.NewGreedyStrategy().ChooseCard(bot.Turn{Hand: hand, Playable: []int{0}})
	s.Equal(0, index)
	s.Require().NotNil(color)
	s.Equal(model.ColorGreen, *color)
}

func (s *StrategySuite) TestGreedy_AllWildHandCallsFirstColor() {
	hand := []model.Card{model.WildCard(model.ValueWild), model.WildCard(model.ValueWild)}

	_, color := bot.NewGreedyStrategy().ChooseCard(bot.Turn{Hand: hand, Playable: []int{0, 1}})
	s.Require().NotNil(color)
	s.Equal(model.ColorRed, *color)
}
