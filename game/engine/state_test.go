package engine

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
)

func cards(labels ...string) []Card {
	out := make([]Card, len(labels))
	for i, l := range labels {
		out[i] = MustParseCard(l)
	}
	return out
}

func suit(s Suit, upTo Rank) []Card {
	out := make([]Card, 0, upTo)
	for r := Ace; r <= upTo; r++ {
		out = append(out, NewCard(r, s))
	}
	return out
}

func assertConserved(t *testing.T, gs GameState) {
	t.Helper()
	all := gs.Cards()
	if err := checkDeck(all); err != nil {
		t.Fatalf("Card conservation broken: %v", err)
	}
}

func TestInitial_Layout(t *testing.T) {
	gs := Initial(1)

	expected := []string{
		"JD KD 2S 4C 3S 6D 6S",
		"2D KC KS 5C TD 8S 9C",
		"9H 9S 9D TS 4S 8D 2H",
		"JC 5S QD QH TH QS 6H",
		"5D AD JS 4H 8H 6C",
		"7H QC AS AC 2C 3D",
		"7C KH AH 4D JH 8C",
		"5H 3H 3C 7S 7D TC",
	}
	for i, want := range expected {
		if got := labels(gs.Pile(CascadeRef(i)).Cards()); got != want {
			t.Errorf("Cascade %d: expected %s, got %s", i, want, got)
		}
	}

	for _, p := range append(gs.Cells(), gs.Foundations()...) {
		if !p.IsEmpty() {
			t.Errorf("Expected empty %s pile", p.Rule())
		}
	}
	if _, holding := gs.Hand(); holding {
		t.Error("Expected nothing held in a new deal")
	}
	if gs.IsWon() {
		t.Error("A new deal is not won")
	}
	assertConserved(t, gs)
}

func TestInitial_CascadesDiffer(t *testing.T) {
	gs := Initial(1)
	if gs.Pile(CascadeRef(0)).Equal(gs.Pile(CascadeRef(1))) {
		t.Error("Cascades 0 and 1 must differ")
	}
}

func TestDeal_InvalidDeck(t *testing.T) {
	deck := CanonicalDeck()
	if _, err := Deal(deck[:40]); !errors.Is(err, ErrInvalidDeck) {
		t.Errorf("Expected ErrInvalidDeck, got %v", err)
	}
}

func TestLocate(t *testing.T) {
	gs := Initial(1)

	ref, ok := gs.Locate(MustParseCard("AS"))
	if !ok || ref != CascadeRef(5) {
		t.Errorf("Expected AS in cascade:5, got %s (%v)", ref, ok)
	}

	next, ok := gs.Move(MustParseCard("6S"), CascadeRef(0), CellRef(3))
	if !ok {
		t.Fatal("Expected 6S to move to a free cell")
	}
	if ref, _ := next.Locate(MustParseCard("6S")); ref != CellRef(3) {
		t.Errorf("Expected 6S in cell:3, got %s", ref)
	}

	held, ok := gs.Pick(MustParseCard("6S"), CascadeRef(0))
	if !ok {
		t.Fatal("Expected pick of 6S to succeed")
	}
	if _, found := held.Locate(MustParseCard("6S")); found {
		t.Error("A held card is not on the table")
	}
}

// Clears AC and AS onto foundations from deal 1 using the free cells
func TestMove_AcesHome(t *testing.T) {
	gs := Initial(1)
	steps := []struct {
		card     string
		from, to PileRef
	}{
		{"3D", CascadeRef(5), CellRef(0)},
		{"2C", CascadeRef(5), CellRef(1)},
		{"AC", CascadeRef(5), FoundationRef(0)},
		{"2C", CellRef(1), FoundationRef(0)},
		{"AS", CascadeRef(5), FoundationRef(1)},
	}

	for _, step := range steps {
		next, ok := gs.Move(MustParseCard(step.card), step.from, step.to)
		if !ok {
			t.Fatalf("Move %s %s -> %s rejected: %s", step.card, step.from, step.to,
				gs.Diagnose(MustParseCard(step.card), step.from, step.to))
		}
		gs = next
		assertConserved(t, gs)
	}

	if got := labels(gs.Pile(FoundationRef(0)).Cards()); got != "AC 2C" {
		t.Errorf("Expected foundation 0 to be AC 2C, got %s", got)
	}
	if got := labels(gs.Pile(CascadeRef(5)).Cards()); got != "7H QC" {
		t.Errorf("Expected cascade 5 to be 7H QC, got %s", got)
	}
	if !gs.Pile(CellRef(1)).IsEmpty() {
		t.Error("Expected cell 1 to be empty again")
	}
}

func TestMove_Rejected(t *testing.T) {
	gs := Initial(1)
	tests := []struct {
		name     string
		card     string
		from, to PileRef
		reason   RejectReason
	}{
		{"buried card", "JD", CascadeRef(0), CellRef(0), ReasonNotOnTop},
		{"wrong pile", "6S", CascadeRef(1), CellRef(0), ReasonNotInPile},
		{"cascade sequence", "6S", CascadeRef(0), CascadeRef(1), ReasonCascadeSequence},
		{"foundation needs ace", "2H", CascadeRef(2), FoundationRef(0), ReasonFoundationNeedsAce},
		{"same pile", "6S", CascadeRef(0), CascadeRef(0), ReasonCascadeSequence},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			card := MustParseCard(test.card)
			next, ok := gs.Move(card, test.from, test.to)
			if ok {
				t.Fatal("Expected move to be rejected")
			}
			if !next.Equal(gs) {
				t.Error("Rejected move must return the original state")
			}
			if gs.CanMove(card, test.from, test.to) {
				t.Error("CanMove must agree with Move")
			}
			if got := gs.Diagnose(card, test.from, test.to); got != test.reason {
				t.Errorf("Expected reason %q, got %q", test.reason, got)
			}
		})
	}
}

func TestMove_ConcreteScenario(t *testing.T) {
	ace, err := NewGameState(Layout{Cascades: [][]Card{cards("AS")}})
	if err != nil {
		t.Fatalf("NewGameState failed: %v", err)
	}

	next, ok := ace.Move(MustParseCard("AS"), CascadeRef(0), FoundationRef(0))
	if !ok {
		t.Fatal("Expected AS to move home")
	}
	if !next.Pile(CascadeRef(0)).IsEmpty() {
		t.Error("Expected cascade 0 to be empty")
	}
	if top, _ := next.Top(FoundationRef(0)); top != MustParseCard("AS") {
		t.Errorf("Expected AS on foundation 0, got %s", top)
	}

	two, err := NewGameState(Layout{Cascades: [][]Card{cards("AS", "2S")}})
	if err != nil {
		t.Fatalf("NewGameState failed: %v", err)
	}

	next, ok = two.Move(MustParseCard("2S"), CascadeRef(0), FoundationRef(0))
	if ok {
		t.Fatal("Expected 2S to be rejected by an empty foundation")
	}
	if !next.Equal(two) {
		t.Error("Rejected move must return the original state")
	}
	if got := two.Diagnose(MustParseCard("2S"), CascadeRef(0), FoundationRef(0)); got != ReasonFoundationNeedsAce {
		t.Errorf("Expected %q, got %q", ReasonFoundationNeedsAce, got)
	}
}

func TestMove_OccupiedCell(t *testing.T) {
	gs := Initial(1)
	gs, ok := gs.Move(MustParseCard("6S"), CascadeRef(0), CellRef(0))
	if !ok {
		t.Fatal("Expected first move to succeed")
	}

	next, ok := gs.Move(MustParseCard("9C"), CascadeRef(1), CellRef(0))
	if ok {
		t.Fatal("Expected move into an occupied cell to fail")
	}
	if !next.Equal(gs) {
		t.Error("Rejected move must return the original state")
	}
	if got := gs.Diagnose(MustParseCard("9C"), CascadeRef(1), CellRef(0)); got != ReasonCellOccupied {
		t.Errorf("Expected %q, got %q", ReasonCellOccupied, got)
	}
}

func TestMove_DoesNotModifyReceiver(t *testing.T) {
	before := Initial(1)
	snapshot := Initial(1)

	after, ok := before.Move(MustParseCard("6S"), CascadeRef(0), CellRef(0))
	if !ok {
		t.Fatal("Expected move to succeed")
	}

	if !before.Equal(snapshot) {
		t.Error("Move modified its receiver")
	}
	if after.Equal(before) {
		t.Error("Expected a different state after a legal move")
	}
	if after.Pile(CascadeRef(0)).Height() != 6 || before.Pile(CascadeRef(0)).Height() != 7 {
		t.Error("Unexpected cascade heights")
	}
}

func TestPickPlace(t *testing.T) {
	gs := Initial(1)
	card := MustParseCard("TC")

	held, ok := gs.Pick(card, CascadeRef(7))
	if !ok {
		t.Fatal("Expected pick of TC to succeed")
	}
	if h, holding := held.Hand(); !holding || h != card {
		t.Fatalf("Expected TC in hand, got %s (%v)", h, holding)
	}
	if _, ok := held.Pick(MustParseCard("6S"), CascadeRef(0)); ok {
		t.Error("Expected second pick to fail while holding")
	}
	if got := held.Diagnose(MustParseCard("6S"), CascadeRef(0), CellRef(0)); got != ReasonHandBusy {
		t.Errorf("Expected %q, got %q", ReasonHandBusy, got)
	}
	if _, ok := held.Place(MustParseCard("6S"), CellRef(0)); ok {
		t.Error("Expected place of a card not in hand to fail")
	}
	if _, ok := gs.Place(card, CellRef(0)); ok {
		t.Error("Expected place with an empty hand to fail")
	}
	assertConserved(t, held)

	placed, ok := held.Place(card, CellRef(2))
	if !ok {
		t.Fatal("Expected place into an empty cell to succeed")
	}
	if _, holding := placed.Hand(); holding {
		t.Error("Expected empty hand after place")
	}
	assertConserved(t, placed)
}

func TestMove_RandomWalkConservesCards(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	refs := Refs()

	for _, seed := range []int64{1, 617, 11982} {
		gs := Initial(seed)
		moves := 0
		for i := 0; i < 2000; i++ {
			from := refs[rng.Intn(len(refs))]
			to := refs[rng.Intn(len(refs))]
			card, ok := gs.Top(from)
			if !ok {
				continue
			}

			next, ok := gs.Move(card, from, to)
			if !ok {
				if !next.Equal(gs) {
					t.Fatalf("Seed %d: rejected move changed the state", seed)
				}
				continue
			}
			moves++
			gs = next
			assertConserved(t, gs)
		}
		if moves == 0 {
			t.Errorf("Seed %d: expected at least one legal move", seed)
		}
	}
}

func TestIsWon(t *testing.T) {
	gs, err := NewGameState(Layout{
		Cascades:    [][]Card{cards("KH")},
		Foundations: [][]Card{suit(Spade, King), suit(Heart, Queen), suit(Diamond, King), suit(Club, King)},
	})
	if err != nil {
		t.Fatalf("Failed to build state: %v", err)
	}
	if gs.IsWon() {
		t.Fatal("Expected game not yet won")
	}

	won, ok := gs.Move(MustParseCard("KH"), CascadeRef(0), FoundationRef(1))
	if !ok {
		t.Fatal("Expected KH to go home")
	}
	if !won.IsWon() {
		t.Error("Expected game to be won")
	}
	assertConserved(t, won)
}

func TestNewGameState_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
	}{
		{"duplicate card", Layout{Cascades: [][]Card{cards("AS"), cards("AS")}}},
		{"foundation out of order", Layout{Foundations: [][]Card{cards("AS", "3S")}}},
		{"foundation without ace", Layout{Foundations: [][]Card{cards("2H")}}},
		{"two cards in a cell", Layout{Cells: [][]Card{cards("AS", "2S")}}},
		{"too many cascades", Layout{Cascades: make([][]Card, 9)}},
		{"invalid card", Layout{Cascades: [][]Card{{Card{}}}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := NewGameState(test.layout); !errors.Is(err, ErrInvalidLayout) {
				t.Errorf("Expected ErrInvalidLayout, got %v", err)
			}
		})
	}
}

func TestGameState_JSON(t *testing.T) {
	gs, _ := Initial(1).Move(MustParseCard("6S"), CascadeRef(0), CellRef(1))
	gs, _ = gs.Pick(MustParseCard("TC"), CascadeRef(7))

	data, err := json.Marshal(gs)
	if err != nil {
		t.Fatalf("Failed to marshal state: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Failed to decode state: %v", err)
	}
	if raw["hand"] != "TC" {
		t.Errorf("Expected hand TC, got %v", raw["hand"])
	}
	if raw["won"] != false {
		t.Errorf("Expected won=false, got %v", raw["won"])
	}

	var decoded GameState
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal state: %v", err)
	}
	if !decoded.Equal(gs) {
		t.Error("Decoded state differs from the original")
	}

	bad := []byte(`{"cascades":[["TC"]],"foundations":[],"cells":[],"hand":"TC"}`)
	if err := json.Unmarshal(bad, &decoded); !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("Expected ErrInvalidLayout for duplicated hand card, got %v", err)
	}
}
