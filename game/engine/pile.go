package engine

import (
	"encoding/json"
	"slices"
)

// Rule selects which acceptance predicate a pile enforces
type Rule int

const (
	CellRule Rule = iota + 1
	FoundationRule
	CascadeRule
)

func (r Rule) String() string {
	switch r {
	case CellRule:
		return "cell"
	case FoundationRule:
		return "foundation"
	case CascadeRule:
		return "cascade"
	}
	return "unknown"
}

// Accepts reports whether card may be placed on a pile whose top is top.
// hasTop is false for an empty pile.
func (r Rule) Accepts(card, top Card, hasTop bool) bool {
	return r.reject(card, top, hasTop) == ReasonNone
}

// reject is the single rule evaluation function; it returns ReasonNone when
// the card is accepted.
func (r Rule) reject(card, top Card, hasTop bool) RejectReason {
	switch r {
	case CellRule:
		if hasTop {
			return ReasonCellOccupied
		}
		return ReasonNone

	case FoundationRule:
		if !hasTop {
			if card.Rank != Ace {
				return ReasonFoundationNeedsAce
			}
			return ReasonNone
		}
		if card.Suit != top.Suit || card.Rank != top.Rank+1 {
			return ReasonFoundationSequence
		}
		return ReasonNone

	case CascadeRule:
		if !hasTop {
			return ReasonNone
		}
		if card.Color() == top.Color() || card.Rank != top.Rank-1 {
			return ReasonCascadeSequence
		}
		return ReasonNone
	}
	panic("engine: unknown pile rule")
}

// Pile is an ordered sequence of cards (index 0 is the bottom) governed by a
// rule. Piles are values: Put and Take return new piles and never modify the
// receiver's backing array.
type Pile struct {
	rule  Rule
	cards []Card
}

// NewPile creates an empty pile with the given rule
func NewPile(rule Rule) Pile {
	return Pile{rule: rule}
}

// Rule returns the pile's acceptance rule
func (p Pile) Rule() Rule {
	return p.rule
}

// Top returns the last card, or false if the pile is empty
func (p Pile) Top() (Card, bool) {
	if len(p.cards) == 0 {
		return Card{}, false
	}
	return p.cards[len(p.cards)-1], true
}

// Height returns the number of cards in the pile
func (p Pile) Height() int {
	return len(p.cards)
}

// IsEmpty reports whether the pile holds no cards
func (p Pile) IsEmpty() bool {
	return len(p.cards) == 0
}

// Contains reports whether card is anywhere in the pile
func (p Pile) Contains(card Card) bool {
	return slices.Contains(p.cards, card)
}

// Cards returns a copy of the pile's cards, bottom first
func (p Pile) Cards() []Card {
	return slices.Clone(p.cards)
}

// Accepts reports whether Put(card) would succeed
func (p Pile) Accepts(card Card) bool {
	top, ok := p.Top()
	return p.rule.Accepts(card, top, ok)
}

// Put returns a new pile with card on top if the rule accepts it
func (p Pile) Put(card Card) (Pile, bool) {
	if !card.Valid() || !p.Accepts(card) {
		return p, false
	}
	cards := make([]Card, len(p.cards)+1)
	copy(cards, p.cards)
	cards[len(p.cards)] = card
	return Pile{rule: p.rule, cards: cards}, true
}

// Take returns a new pile without its top card. It fails unless card is the
// current top.
func (p Pile) Take(card Card) (Pile, bool) {
	top, ok := p.Top()
	if !ok || top != card {
		return p, false
	}
	return Pile{rule: p.rule, cards: p.cards[:len(p.cards)-1:len(p.cards)-1]}, true
}

// Run returns the longest sequence at the top of the pile in which every card
// sits legally on the card beneath it. An empty pile has an empty run.
func (p Pile) Run() []Card {
	if len(p.cards) == 0 {
		return nil
	}
	start := len(p.cards) - 1
	for start > 0 && p.rule.Accepts(p.cards[start], p.cards[start-1], true) {
		start--
	}
	return slices.Clone(p.cards[start:])
}

// Equal reports whether both piles have the same rule and cards
func (p Pile) Equal(other Pile) bool {
	return p.rule == other.rule && slices.Equal(p.cards, other.cards)
}

// MarshalJSON encodes the pile as its list of card labels, bottom first
func (p Pile) MarshalJSON() ([]byte, error) {
	if p.cards == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.cards)
}
