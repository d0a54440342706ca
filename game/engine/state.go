package engine

import (
	"encoding/json"
	"fmt"
)

// GameState is one immutable Freecell position: 8 cascades, 4 foundations,
// 4 free cells and an optional held card. Every transition returns a new
// value; a previously returned GameState is never changed.
type GameState struct {
	cascades    [NumCascades]Pile
	foundations [NumFoundations]Pile
	cells       [NumCells]Pile
	hand        Card
	holding     bool
}

// Layout describes a position by its piles' cards, bottom first. Missing
// piles are empty.
type Layout struct {
	Cascades    [][]Card
	Foundations [][]Card
	Cells       [][]Card
}

func emptyState() GameState {
	var gs GameState
	for i := range gs.cascades {
		gs.cascades[i] = NewPile(CascadeRule)
	}
	for i := range gs.foundations {
		gs.foundations[i] = NewPile(FoundationRule)
	}
	for i := range gs.cells {
		gs.cells[i] = NewPile(CellRule)
	}
	return gs
}

// Initial shuffles the deck for seed and deals a new game
func Initial(seed int64) GameState {
	gs, err := Deal(Shuffle(seed))
	if err != nil {
		// Shuffle always yields a full deck
		panic(err)
	}
	return gs
}

// Deal lays out a 52-card sequence column-major: cascade i receives the cards
// at positions i, i+8, i+16, ... so cascades 0-3 hold 7 cards and 4-7 hold 6.
// Foundations and cells start empty.
func Deal(cards []Card) (GameState, error) {
	if err := checkDeck(cards); err != nil {
		return GameState{}, err
	}

	gs := emptyState()
	for i := range gs.cascades {
		height := 6
		if i < 4 {
			height = 7
		}
		column := make([]Card, height)
		for j := 0; j < height; j++ {
			column[j] = cards[i+j*NumCascades]
		}
		gs.cascades[i] = Pile{rule: CascadeRule, cards: column}
	}
	return gs, nil
}

// NewGameState builds an arbitrary position. Cascades are laid out as given;
// foundations and cells are built card by card and must satisfy their rules.
func NewGameState(layout Layout) (GameState, error) {
	if len(layout.Cascades) > NumCascades || len(layout.Foundations) > NumFoundations || len(layout.Cells) > NumCells {
		return GameState{}, fmt.Errorf("%w: too many piles", ErrInvalidLayout)
	}

	gs := emptyState()
	seen := make(map[Card]bool)
	check := func(cards []Card) error {
		for _, c := range cards {
			if !c.Valid() {
				return fmt.Errorf("%w: invalid card", ErrInvalidLayout)
			}
			if seen[c] {
				return fmt.Errorf("%w: duplicate %s", ErrInvalidLayout, c)
			}
			seen[c] = true
		}
		return nil
	}

	for i, cards := range layout.Cascades {
		if err := check(cards); err != nil {
			return GameState{}, err
		}
		gs.cascades[i] = Pile{rule: CascadeRule, cards: append([]Card(nil), cards...)}
	}

	build := func(ref PileRef, cards []Card) error {
		if err := check(cards); err != nil {
			return err
		}
		p := ref.Get(gs)
		for _, c := range cards {
			next, ok := p.Put(c)
			if !ok {
				return fmt.Errorf("%w: %s rejects %s", ErrInvalidLayout, ref, c)
			}
			p = next
		}
		gs = ref.Set(gs, p)
		return nil
	}
	for i, cards := range layout.Foundations {
		if err := build(FoundationRef(i), cards); err != nil {
			return GameState{}, err
		}
	}
	for i, cards := range layout.Cells {
		if err := build(CellRef(i), cards); err != nil {
			return GameState{}, err
		}
	}
	return gs, nil
}

// Cascades returns the eight cascades
func (gs GameState) Cascades() []Pile {
	return append([]Pile(nil), gs.cascades[:]...)
}

// Foundations returns the four foundations
func (gs GameState) Foundations() []Pile {
	return append([]Pile(nil), gs.foundations[:]...)
}

// Cells returns the four free cells
func (gs GameState) Cells() []Pile {
	return append([]Pile(nil), gs.cells[:]...)
}

// Pile returns the referenced pile
func (gs GameState) Pile(ref PileRef) Pile {
	return ref.Get(gs)
}

// Top returns the top card of the referenced pile
func (gs GameState) Top(ref PileRef) (Card, bool) {
	return ref.Get(gs).Top()
}

// Hand returns the card picked but not yet placed, if any
func (gs GameState) Hand() (Card, bool) {
	return gs.hand, gs.holding
}

// Refs lists every pile reference in lookup order: cascades, cells,
// foundations.
func Refs() []PileRef {
	refs := make([]PileRef, 0, NumCascades+NumCells+NumFoundations)
	for _, g := range []Group{Cascades, Cells, Foundations} {
		for i := 0; i < g.Size(); i++ {
			refs = append(refs, PileRef{Group: g, Index: i})
		}
	}
	return refs
}

// Locate returns the pile holding card, searching cascades, then cells, then
// foundations.
func (gs GameState) Locate(card Card) (PileRef, bool) {
	for _, ref := range Refs() {
		if ref.Get(gs).Contains(card) {
			return ref, true
		}
	}
	return PileRef{}, false
}

// Cards returns every card on the table plus the held card
func (gs GameState) Cards() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, ref := range Refs() {
		cards = append(cards, ref.Get(gs).cards...)
	}
	if gs.holding {
		cards = append(cards, gs.hand)
	}
	return cards
}

// IsWon reports whether every foundation holds a full suit
func (gs GameState) IsWon() bool {
	for _, f := range gs.foundations {
		if f.Height() != SuitSize {
			return false
		}
	}
	return true
}

// Pick takes card off the top of from and holds it. It fails when card is not
// the top of from or a card is already held.
func (gs GameState) Pick(card Card, from PileRef) (GameState, bool) {
	if gs.holding {
		return gs, false
	}
	next, ok := from.Try(func(p Pile) (Pile, bool) { return p.Take(card) })(gs)
	if !ok {
		return gs, false
	}
	next.hand, next.holding = card, true
	return next, true
}

// Place puts the held card onto to. It fails when card is not the held card
// or the destination rule rejects it.
func (gs GameState) Place(card Card, to PileRef) (GameState, bool) {
	if !gs.holding || gs.hand != card {
		return gs, false
	}
	next, ok := to.Try(func(p Pile) (Pile, bool) { return p.Put(card) })(gs)
	if !ok {
		return gs, false
	}
	next.hand, next.holding = Card{}, false
	return next, true
}

// Move picks card from one pile and places it on another. It is atomic: on
// any failure the receiver is returned unchanged.
func (gs GameState) Move(card Card, from, to PileRef) (GameState, bool) {
	picked, ok := gs.Pick(card, from)
	if !ok {
		return gs, false
	}
	placed, ok := picked.Place(card, to)
	if !ok {
		return gs, false
	}
	return placed, true
}

// CanMove reports whether Move would succeed
func (gs GameState) CanMove(card Card, from, to PileRef) bool {
	_, ok := gs.Move(card, from, to)
	return ok
}

// Diagnose explains why Move(card, from, to) is rejected. It returns
// ReasonNone for a legal move.
func (gs GameState) Diagnose(card Card, from, to PileRef) RejectReason {
	if gs.holding {
		return ReasonHandBusy
	}
	src := from.Get(gs)
	if !src.Contains(card) {
		return ReasonNotInPile
	}
	if top, _ := src.Top(); top != card {
		return ReasonNotOnTop
	}
	if from == to {
		// Picking the card exposes the card below, so evaluate against that
		rest, _ := src.Take(card)
		top, ok := rest.Top()
		return rest.Rule().reject(card, top, ok)
	}
	dst := to.Get(gs)
	top, ok := dst.Top()
	return dst.Rule().reject(card, top, ok)
}

// Equal reports whether two states hold the same cards in the same places
func (gs GameState) Equal(other GameState) bool {
	if gs.holding != other.holding || gs.hand != other.hand {
		return false
	}
	for _, ref := range Refs() {
		if !ref.Get(gs).Equal(ref.Get(other)) {
			return false
		}
	}
	return true
}

// stateJSON is the wire form of a GameState
type stateJSON struct {
	Cascades    []Pile `json:"cascades"`
	Foundations []Pile `json:"foundations"`
	Cells       []Pile `json:"cells"`
	Hand        *Card  `json:"hand,omitempty"`
	Won         bool   `json:"won"`
}

// MarshalJSON encodes the state with cards as two-character labels
func (gs GameState) MarshalJSON() ([]byte, error) {
	v := stateJSON{
		Cascades:    gs.Cascades(),
		Foundations: gs.Foundations(),
		Cells:       gs.Cells(),
		Won:         gs.IsWon(),
	}
	if gs.holding {
		hand := gs.hand
		v.Hand = &hand
	}
	return json.Marshal(v)
}

// UnmarshalJSON decodes a state produced by MarshalJSON. The position is
// rebuilt through NewGameState so pile rules are enforced.
func (gs *GameState) UnmarshalJSON(data []byte) error {
	var v struct {
		Cascades    [][]Card `json:"cascades"`
		Foundations [][]Card `json:"foundations"`
		Cells       [][]Card `json:"cells"`
		Hand        *Card    `json:"hand,omitempty"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	state, err := NewGameState(Layout{Cascades: v.Cascades, Foundations: v.Foundations, Cells: v.Cells})
	if err != nil {
		return err
	}
	if v.Hand != nil {
		if _, found := state.Locate(*v.Hand); found {
			return fmt.Errorf("%w: held card %s is also on the table", ErrInvalidLayout, *v.Hand)
		}
		state.hand, state.holding = *v.Hand, true
	}
	*gs = state
	return nil
}
