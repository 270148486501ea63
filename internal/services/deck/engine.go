package deck

import (
	"log/slog"

	"github.com/mcoot/unogame/internal/dependencies/random"
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/cards"
)

// DefaultDrawToMatchLimit caps how many cards a draw-to-match draw may take
const DefaultDrawToMatchLimit = 50

// DrawRequest describes the visible card state a draw is computed against
type DrawRequest struct {
	Seed    string
	Hand    []model.Card   // The drawing player's hand
	Others  [][]model.Card // Every other player's hand
	Discard []model.Card
	Count   int
}

// DrawResult is the outcome of a draw. Seed and Discard are the values the
// game must persist afterwards; both change when the deck was reshuffled.
type DrawResult struct {
	Cards      []model.Card
	Seed       string
	Discard    []model.Card
	Reshuffled bool
	Remaining  int
}

// Engine computes availability and draws from seeded decks
type Engine struct {
	cache            *Cache
	random           random.Random
	drawToMatchLimit int
	logger           *slog.Logger
}

// NewEngine creates a deck engine. The cache is shared by every game.
func NewEngine(cache *Cache, rnd random.Random, drawToMatchLimit int, logger *slog.Logger) *Engine {
	if drawToMatchLimit <= 0 {
		drawToMatchLimit = DefaultDrawToMatchLimit
	}
	return &Engine{
		cache:            cache,
		random:           rnd,
		drawToMatchLimit: drawToMatchLimit,
		logger:           logger.With(slog.String("component", "deck")),
	}
}

// NewSeed returns a fresh seed for a new game or a reshuffle
func (e *Engine) NewSeed() string {
	return random.NewSeed(e.random)
}

// DeckForSeed returns a copy of the shuffled deck for seed
func (e *Engine) DeckForSeed(seed string) []model.Card {
	return model.CloneCards(e.cache.Get(seed))
}

// CardAt returns the card at position index of the shuffled deck for seed
func (e *Engine) CardAt(seed string, index int) (model.Card, error) {
	cards := e.cache.Get(seed)
	if index < 0 || index >= len(cards) {
		return model.Card{}, model.ErrInvalidCardIndex.WithDetails(map[string]any{"index": index})
	}
	return cards[index], nil
}

// Available returns the cards still in the draw pile, in seed order: the full
// deck minus every card in hands, minus the discard pile. With
// includeAllDiscard unset only the top discard card is treated as used,
// which is the state straight after a reshuffle.
func (e *Engine) Available(seed string, hands [][]model.Card, discard []model.Card, includeAllDiscard bool) []model.Card {
	used := make(map[model.Card]int)
	for _, hand := range hands {
		for _, c := range hand {
			used[c]++
		}
	}
	if includeAllDiscard {
		for _, c := range discard {
			used[c]++
		}
	} else if len(discard) > 0 {
		used[discard[len(discard)-1]]++
	}

	full := e.cache.Get(seed)
	out := make([]model.Card, 0, len(full))
	for _, c := range full {
		if used[c] > 0 {
			used[c]--
			continue
		}
		out = append(out, c)
	}
	return out
}

// Deal hands handSize cards to each of players seats, round-robin from the
// front of the seed ordering, then turns up the first number card left over
// to start the discard pile.
func (e *Engine) Deal(seed string, players, handSize int) ([][]model.Card, model.Card, error) {
	full := e.cache.Get(seed)
	dealt := players * handSize
	if players < 1 || handSize < 0 || dealt >= len(full) {
		return nil, model.Card{}, model.ErrNotEnoughCards.WithDetails(map[string]any{
			"requested": dealt + 1,
			"available": len(full),
		})
	}

	hands := make([][]model.Card, players)
	for i := range hands {
		hands[i] = make([]model.Card, 0, handSize)
	}
	for i := 0; i < dealt; i++ {
		hands[i%players] = append(hands[i%players], full[i])
	}

	for _, c := range full[dealt:] {
		if c.Kind == model.KindNumber {
			return hands, c, nil
		}
	}
	return nil, model.Card{}, model.ErrNotEnoughCards.WithMessage("no number card left to start the discard pile")
}

// Draw takes Count cards from the front of the available ordering. When too
// few remain and the discard pile holds more than its top card, the deck is
// reshuffled first: a new seed is chosen and everything but the top discard
// card goes back into the pile.
func (e *Engine) Draw(req DrawRequest) (DrawResult, error) {
	if req.Count < 1 {
		return DrawResult{}, model.ErrInvalidDrawCount.WithDetails(map[string]any{"count": req.Count})
	}

	result := DrawResult{Seed: req.Seed, Discard: model.CloneCards(req.Discard)}
	hands := append([][]model.Card{req.Hand}, req.Others...)

	available := e.Available(result.Seed, hands, result.Discard, true)
	if len(available) < req.Count && len(result.Discard) > 1 {
		top := result.Discard[len(result.Discard)-1]
		result.Seed = e.NewSeed()
		result.Discard = []model.Card{top}
		result.Reshuffled = true
		available = e.Available(result.Seed, hands, result.Discard, false)
		e.logger.Debug("deck reshuffled",
			slog.String("old_seed", req.Seed),
			slog.String("new_seed", result.Seed),
			slog.Int("available", len(available)),
		)
	}

	if len(available) < req.Count {
		return DrawResult{}, model.ErrNotEnoughCards.WithDetails(map[string]any{
			"requested": req.Count,
			"available": len(available),
		})
	}

	result.Cards = model.CloneCards(available[:req.Count])
	result.Remaining = len(available) - req.Count
	return result, nil
}

// DrawToMatch draws one card at a time until a playable card turns up, the
// attempt limit is reached or the deck runs out. Running out is not an error;
// the result then holds whatever was drawn so far.
func (e *Engine) DrawToMatch(req DrawRequest, top model.Card, currentColor *model.Color, rules cards.HouseRuleSet) DrawResult {
	result := DrawResult{Seed: req.Seed, Discard: model.CloneCards(req.Discard), Cards: []model.Card{}}
	hand := model.CloneCards(req.Hand)

	for attempt := 0; attempt < e.drawToMatchLimit; attempt++ {
		step, err := e.Draw(DrawRequest{
			Seed:    result.Seed,
			Hand:    hand,
			Others:  req.Others,
			Discard: result.Discard,
			Count:   1,
		})
		if err != nil {
			break
		}
		card := step.Cards[0]
		hand = append(hand, card)
		result.Cards = append(result.Cards, card)
		result.Seed = step.Seed
		result.Discard = step.Discard
		result.Reshuffled = result.Reshuffled || step.Reshuffled
		result.Remaining = step.Remaining

		if cards.IsCardPlayable(card, top, currentColor, 0, rules) {
			break
		}
	}
	return result
}

// DrawToMatchLimit returns the configured attempt cap
func (e *Engine) DrawToMatchLimit() int {
	return e.drawToMatchLimit
}
