package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Group names one of the three pile groups of a game
type Group int

const (
	Cascades Group = iota + 1
	Cells
	Foundations
)

func (g Group) String() string {
	switch g {
	case Cascades:
		return "cascade"
	case Cells:
		return "cell"
	case Foundations:
		return "foundation"
	}
	return "unknown"
}

// Size returns the fixed number of piles in the group
func (g Group) Size() int {
	switch g {
	case Cascades:
		return NumCascades
	case Cells:
		return NumCells
	case Foundations:
		return NumFoundations
	}
	return 0
}

// Rule returns the rule shared by every pile of the group
func (g Group) Rule() Rule {
	switch g {
	case Cascades:
		return CascadeRule
	case Cells:
		return CellRule
	case Foundations:
		return FoundationRule
	}
	return 0
}

// PileRef addresses one pile of a GameState. It reads the pile with Get and
// derives a whole new state with Set, so callers never rebuild the state by
// hand.
type PileRef struct {
	Group Group
	Index int
}

// CascadeRef addresses cascade i (0..7)
func CascadeRef(i int) PileRef { return PileRef{Group: Cascades, Index: i} }

// CellRef addresses free cell i (0..3)
func CellRef(i int) PileRef { return PileRef{Group: Cells, Index: i} }

// FoundationRef addresses foundation i (0..3)
func FoundationRef(i int) PileRef { return PileRef{Group: Foundations, Index: i} }

// Valid reports whether the reference points at an existing pile
func (r PileRef) Valid() bool {
	return r.Group.Size() > 0 && r.Index >= 0 && r.Index < r.Group.Size()
}

func (r PileRef) String() string {
	return fmt.Sprintf("%s:%d", r.Group, r.Index)
}

// group returns the slice backing the referenced group. Out-of-range
// references are a programming error.
func (r PileRef) group(gs *GameState) []Pile {
	if !r.Valid() {
		panic(fmt.Sprintf("engine: pile reference %s out of range", r))
	}
	switch r.Group {
	case Cascades:
		return gs.cascades[:]
	case Cells:
		return gs.cells[:]
	default:
		return gs.foundations[:]
	}
}

// Get returns the referenced pile
func (r PileRef) Get(gs GameState) Pile {
	return r.group(&gs)[r.Index]
}

// Set returns a copy of gs with the referenced pile replaced. gs itself is
// not modified.
func (r PileRef) Set(gs GameState, p Pile) GameState {
	r.group(&gs)[r.Index] = p
	return gs
}

// Try lifts a fallible pile update into a fallible state update
func (r PileRef) Try(update func(Pile) (Pile, bool)) func(GameState) (GameState, bool) {
	return func(gs GameState) (GameState, bool) {
		p, ok := update(r.Get(gs))
		if !ok {
			return gs, false
		}
		return r.Set(gs, p), true
	}
}

// MarshalText encodes the reference as "group:index"
func (r PileRef) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPileRef, r)
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a reference accepted by ParsePileRef
func (r *PileRef) UnmarshalText(text []byte) error {
	ref, err := ParsePileRef(string(text))
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

// ParsePileRef parses "cascade:3", "cell:0" or "foundation:2". Plural group
// names and "freecell" are accepted. The result is always Valid.
func ParsePileRef(s string) (PileRef, error) {
	name, idx, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")
	if !ok {
		return PileRef{}, fmt.Errorf("%w: %q (want group:index)", ErrInvalidPileRef, s)
	}

	var group Group
	switch strings.TrimSuffix(name, "s") {
	case "cascade", "column", "tableau":
		group = Cascades
	case "cell", "freecell":
		group = Cells
	case "foundation":
		group = Foundations
	default:
		return PileRef{}, fmt.Errorf("%w: unknown group %q", ErrInvalidPileRef, name)
	}

	i, err := strconv.Atoi(idx)
	if err != nil {
		return PileRef{}, fmt.Errorf("%w: bad index %q", ErrInvalidPileRef, idx)
	}

	ref := PileRef{Group: group, Index: i}
	if !ref.Valid() {
		return PileRef{}, fmt.Errorf("%w: %s has %d piles, got index %d", ErrInvalidPileRef, group, group.Size(), i)
	}
	return ref, nil
}
