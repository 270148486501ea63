package model

import "time"

// FieldPath is a dotted path naming an updatable document field
type FieldPath string

// Updatable game fields
const (
	FieldStatus              FieldPath = "state.status"
	FieldCurrentTurnPlayerID FieldPath = "state.currentTurnPlayerId"
	FieldDirection           FieldPath = "state.direction"
	FieldDeckSeed            FieldPath = "state.deckSeed"
	FieldDrawPileCount       FieldPath = "state.drawPileCount"
	FieldDiscardPile         FieldPath = "state.discardPile"
	FieldCurrentColor        FieldPath = "state.currentColor"
	FieldMustDraw            FieldPath = "state.mustDraw"
	FieldHasDrawn            FieldPath = "state.hasDrawn"
	FieldCompletedAt         FieldPath = "completedAt"
	FieldLastActivityAt      FieldPath = "lastActivityAt"
)

// Updatable player fields
const (
	FieldCardCount          FieldPath = "cardCount"
	FieldPlayerStatus       FieldPath = "status"
	FieldHasCalledUno       FieldPath = "hasCalledUno"
	FieldMustCallUno        FieldPath = "mustCallUno"
	FieldCardsPlayed        FieldPath = "gameStats.cardsPlayed"
	FieldCardsDrawn         FieldPath = "gameStats.cardsDrawn"
	FieldTurnsPlayed        FieldPath = "gameStats.turnsPlayed"
	FieldSpecialCardsPlayed FieldPath = "gameStats.specialCardsPlayed"
	FieldLastActionAt       FieldPath = "lastActionAt"
)

// GameFields lists every path accepted by Game.SetField
func GameFields() []FieldPath {
	return []FieldPath{
		FieldStatus, FieldCurrentTurnPlayerID, FieldDirection, FieldDeckSeed, FieldDrawPileCount,
		FieldDiscardPile, FieldCurrentColor, FieldMustDraw, FieldHasDrawn, FieldCompletedAt,
		FieldLastActivityAt,
	}
}

// PlayerFields lists every path accepted by GamePlayer.SetField
func PlayerFields() []FieldPath {
	return []FieldPath{
		FieldCardCount, FieldPlayerStatus, FieldHasCalledUno, FieldMustCallUno, FieldCardsPlayed,
		FieldCardsDrawn, FieldTurnsPlayed, FieldSpecialCardsPlayed, FieldLastActionAt,
	}
}

func fieldTypeError(path FieldPath, value any) error {
	return ErrInternal.WithMessage("field %s cannot hold %T", path, value)
}

// SetField writes value to the game field at path
func (g *Game) SetField(path FieldPath, value any) error {
	var ok bool
	switch path {
	case FieldStatus:
		g.State.Status, ok = value.(GameStatus)
	case FieldCurrentTurnPlayerID:
		g.State.CurrentTurnPlayerID, ok = value.(PlayerID)
	case FieldDirection:
		g.State.Direction, ok = value.(Direction)
	case FieldDeckSeed:
		g.State.DeckSeed, ok = value.(string)
	case FieldDrawPileCount:
		g.State.DrawPileCount, ok = value.(int)
	case FieldDiscardPile:
		var pile []Card
		if pile, ok = value.([]Card); ok {
			g.State.DiscardPile = CloneCards(pile)
		}
	case FieldCurrentColor:
		var c *Color
		if c, ok = value.(*Color); ok {
			g.State.CurrentColor = nil
			if c != nil {
				g.State.CurrentColor = ColorPtr(*c)
			}
		}
	case FieldMustDraw:
		var n int
		if n, ok = value.(int); ok {
			if n < 0 {
				return ErrInternal.WithMessage("mustDraw cannot be negative: %d", n)
			}
			g.State.MustDraw = n
		}
	case FieldHasDrawn:
		g.State.HasDrawn, ok = value.(bool)
	case FieldCompletedAt:
		var t time.Time
		if t, ok = value.(time.Time); ok {
			g.CompletedAt = &t
		}
	case FieldLastActivityAt:
		g.LastActivityAt, ok = value.(time.Time)
	default:
		return ErrUnknownEffectField.WithDetails(map[string]any{"path": string(path), "target": "game"})
	}
	if !ok {
		return fieldTypeError(path, value)
	}
	return nil
}

// SetField writes value to the player field at path
func (p *GamePlayer) SetField(path FieldPath, value any) error {
	var ok bool
	switch path {
	case FieldCardCount:
		p.CardCount, ok = value.(int)
	case FieldPlayerStatus:
		p.Status, ok = value.(PlayerStatus)
	case FieldHasCalledUno:
		p.HasCalledUno, ok = value.(bool)
	case FieldMustCallUno:
		p.MustCallUno, ok = value.(bool)
	case FieldCardsPlayed:
		p.GameStats.CardsPlayed, ok = value.(int)
	case FieldCardsDrawn:
		p.GameStats.CardsDrawn, ok = value.(int)
	case FieldTurnsPlayed:
		p.GameStats.TurnsPlayed, ok = value.(int)
	case FieldSpecialCardsPlayed:
		p.GameStats.SpecialCardsPlayed, ok = value.(int)
	case FieldLastActionAt:
		var t time.Time
		if t, ok = value.(time.Time); ok {
			p.LastActionAt = &t
		}
	default:
		return ErrUnknownEffectField.WithDetails(map[string]any{"path": string(path), "target": "player"})
	}
	if !ok {
		return fieldTypeError(path, value)
	}
	return nil
}
