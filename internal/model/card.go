package model

import (
	"fmt"
	"strconv"
)

// Color is one of the four suit colors
type Color string

const (
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
)

// Colors returns all card colors in canonical deck order
func Colors() []Color {
	return []Color{ColorRed, ColorYellow, ColorGreen, ColorBlue}
}

// Valid returns true if c is one of the four colors
func (c Color) Valid() bool {
	switch c {
	case ColorRed, ColorYellow, ColorGreen, ColorBlue:
		return true
	}
	return false
}

// ColorPtr returns a pointer to a copy of c
func ColorPtr(c Color) *Color {
	return &c
}

// CardKind discriminates number, special and wild cards
type CardKind string

const (
	KindNumber  CardKind = "number"
	KindSpecial CardKind = "special"
	KindWild    CardKind = "wild"
)

// CardValue is the face of a card: a digit, an action symbol or a wild type
type CardValue string

const (
	ValueSkip         CardValue = "skip"
	ValueReverse      CardValue = "reverse"
	ValueDrawTwo      CardValue = "draw2"
	ValueWild         CardValue = "wild"
	ValueWildDrawFour CardValue = "wild_draw4"
)

// SpecialValues returns the colored action values in canonical deck order
func SpecialValues() []CardValue {
	return []CardValue{ValueSkip, ValueReverse, ValueDrawTwo}
}

// Card is an immutable playing card. Equality is structural.
type Card struct {
	Kind  CardKind  `json:"kind"`
	Color Color     `json:"color,omitempty"` // Empty for wild cards
	Value CardValue `json:"value"`
}

// NumberCard creates a colored number card with face value n (0-9)
func NumberCard(color Color, n int) Card {
	return Card{Kind: KindNumber, Color: color, Value: CardValue(strconv.Itoa(n))}
}

// SpecialCard creates a colored skip, reverse or draw2 card
func SpecialCard(color Color, value CardValue) Card {
	return Card{Kind: KindSpecial, Color: color, Value: value}
}

// WildCard creates a wild or wild_draw4 card
func WildCard(value CardValue) Card {
	return Card{Kind: KindWild, Value: value}
}

// IsWild returns true for wild and wild_draw4
func (c Card) IsWild() bool {
	return c.Kind == KindWild
}

// IsDrawCard returns true for cards that add to the draw penalty
func (c Card) IsDrawCard() bool {
	return c.Value == ValueDrawTwo || c.Value == ValueWildDrawFour
}

// Number returns the face value of a number card, or -1 for other kinds
func (c Card) Number() int {
	if c.Kind != KindNumber {
		return -1
	}
	n, err := strconv.Atoi(string(c.Value))
	if err != nil {
		return -1
	}
	return n
}

// Validate checks that the card is one of the 15 legal card shapes
func (c Card) Validate() error {
	switch c.Kind {
	case KindNumber:
		if !c.Color.Valid() {
			return fmt.Errorf("number card has invalid color %q", c.Color)
		}
		if n := c.Number(); n < 0 || n > 9 {
			return fmt.Errorf("number card has invalid value %q", c.Value)
		}
	case KindSpecial:
		if !c.Color.Valid() {
			return fmt.Errorf("special card has invalid color %q", c.Color)
		}
		if c.Value != ValueSkip && c.Value != ValueReverse && c.Value != ValueDrawTwo {
			return fmt.Errorf("special card has invalid value %q", c.Value)
		}
	case KindWild:
		if c.Color != "" {
			return fmt.Errorf("wild card cannot carry a color")
		}
		if c.Value != ValueWild && c.Value != ValueWildDrawFour {
			return fmt.Errorf("wild card has invalid value %q", c.Value)
		}
	default:
		return fmt.Errorf("unknown card kind %q", c.Kind)
	}
	return nil
}

// String renders the card as "red 5", "blue skip" or "wild_draw4"
func (c Card) String() string {
	if c.IsWild() {
		return string(c.Value)
	}
	return string(c.Color) + " " + string(c.Value)
}

// CloneCards returns a copy of cards that never aliases the input
func CloneCards(cards []Card) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	return out
}
