package engine

import "fmt"

// Random is the linear congruential generator used to shuffle numbered deals.
// It is the classic MSVC rand(): 31-bit state, 15-bit output.
type Random struct {
	state uint32
}

// NewRandom seeds a generator. Only the low 31 bits of seed influence output.
func NewRandom(seed int64) *Random {
	return &Random{state: uint32(seed)}
}

// Next advances the generator and returns a value in [0, 32767]
func (r *Random) Next() int {
	r.state = (r.state*214013 + 2531011) & 0x7fffffff
	return int((r.state >> 16) & 0x7fff)
}

// CanonicalDeck returns the unshuffled deck: ranks King down to Ace, and within
// each rank the suits Spade, Heart, Diamond, Club.
func CanonicalDeck() []Card {
	suits := []Suit{Spade, Heart, Diamond, Club}
	cards := make([]Card, 0, DeckSize)
	for rank := King; rank >= Ace; rank-- {
		for _, suit := range suits {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}
	return cards
}

// Shuffle returns the deck for a numbered deal. The same seed always yields the
// same order on every platform.
func Shuffle(seed int64) []Card {
	cards := CanonicalDeck()
	rng := NewRandom(seed)
	for i := 0; i < len(cards)-1; i++ {
		j := (len(cards) - 1) - rng.Next()%(len(cards)-i)
		cards[i], cards[j] = cards[j], cards[i]
	}
	return cards
}

// checkDeck verifies that cards is a permutation of the 52-card deck
func checkDeck(cards []Card) error {
	if len(cards) != DeckSize {
		return fmt.Errorf("%w: expected %d cards, got %d", ErrInvalidDeck, DeckSize, len(cards))
	}
	seen := make(map[Card]bool, DeckSize)
	for i, c := range cards {
		if !c.Valid() {
			return fmt.Errorf("%w: invalid card at position %d", ErrInvalidDeck, i)
		}
		if seen[c] {
			return fmt.Errorf("%w: duplicate %s at position %d", ErrInvalidDeck, c, i)
		}
		seen[c] = true
	}
	return nil
}
