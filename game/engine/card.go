package engine

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spade Suit = iota + 1
	Diamond
	Heart
	Club
)

// Rank represents a card rank, Ace low
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// Color partitions the suits into two classes
type Color int

const (
	Black Color = iota + 1
	Red
)

const (
	rankLabels  = "A23456789TJQK"
	suitLabels  = "SDHC"
	suitSymbols = "♠♦♥♣"
)

// Valid reports whether r is one of the thirteen ranks
func (r Rank) Valid() bool {
	return r >= Ace && r <= King
}

// String returns the single-character rank label (T for ten)
func (r Rank) String() string {
	if !r.Valid() {
		return "?"
	}
	return string(rankLabels[r-1])
}

// Valid reports whether s is one of the four suits
func (s Suit) Valid() bool {
	return s >= Spade && s <= Club
}

// String returns the single-letter suit label
func (s Suit) String() string {
	if !s.Valid() {
		return "?"
	}
	return string(suitLabels[s-1])
}

// Symbol returns the suit glyph
func (s Suit) Symbol() string {
	if !s.Valid() {
		return "?"
	}
	return []string{"♠", "♦", "♥", "♣"}[s-1]
}

// Color returns the colour class of the suit
func (s Suit) Color() Color {
	switch s {
	case Spade, Club:
		return Black
	case Diamond, Heart:
		return Red
	}
	return 0
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case Red:
		return "red"
	}
	return "unknown"
}

// Card identifies a playing card. Cards compare by value with ==.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a card from rank and suit
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// Valid reports whether both rank and suit are in range
func (c Card) Valid() bool {
	return c.Rank.Valid() && c.Suit.Valid()
}

// Color returns the colour of the card's suit
func (c Card) Color() Color {
	return c.Suit.Color()
}

// String returns the two-character label, e.g. "JD" or "TS"
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Symbol returns the display label with the suit glyph, e.g. "J♦"
func (c Card) Symbol() string {
	return c.Rank.String() + c.Suit.Symbol()
}

// MarshalText encodes the card as its two-character label
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: rank=%d suit=%d", ErrInvalidCard, c.Rank, c.Suit)
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a card label accepted by ParseCard
func (c *Card) UnmarshalText(text []byte) error {
	card, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = card
	return nil
}

// ParseCard parses labels such as "JD", "10d", "td" or "J♦" (case-insensitive)
func ParseCard(s string) (Card, error) {
	label := strings.ToUpper(strings.TrimSpace(s))
	runes := []rune(label)
	if len(runes) < 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	suitPart := string(runes[len(runes)-1])
	rankPart := string(runes[:len(runes)-1])

	var suit Suit
	if i := strings.Index(suitLabels, suitPart); i >= 0 {
		suit = Suit(i + 1)
	} else if i := strings.Index(suitSymbols, suitPart); i >= 0 {
		suit = Suit(len([]rune(suitSymbols[:i])) + 1)
	} else {
		return Card{}, fmt.Errorf("%w: unknown suit in %q", ErrInvalidCard, s)
	}

	if rankPart == "10" {
		rankPart = "T"
	}
	if len(rankPart) != 1 {
		return Card{}, fmt.Errorf("%w: unknown rank in %q", ErrInvalidCard, s)
	}
	i := strings.Index(rankLabels, rankPart)
	if i < 0 {
		return Card{}, fmt.Errorf("%w: unknown rank in %q", ErrInvalidCard, s)
	}

	return Card{Rank: Rank(i + 1), Suit: suit}, nil
}

// MustParseCard is ParseCard for literals known to be valid
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}
