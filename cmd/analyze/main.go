// Command analyze prints quick, human-readable heuristics about deals: the
// presets in the configs directory, or the numbered deals given as arguments.
// For each deal it shows the layout, how deeply the aces and twos are buried,
// the ordered run on every cascade and how many moves the opening position
// offers.
//
//	go run ./cmd/analyze             # every preset in ./configs
//	go run ./cmd/analyze 617 11982   # numbered deals
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/wricardo/freecellar/game/config"
	"github.com/wricardo/freecellar/game/engine"
)

// Burial records where a key card lies in the opening layout
type Burial struct {
	Card  engine.Card
	Pile  engine.PileRef
	Depth int // cards on top of it
}

// DealAnalysis summarizes one opening position
type DealAnalysis struct {
	Seed          int64
	Aces          []Burial
	Twos          []Burial
	Runs          []int // ordered run length per cascade
	OpeningMoves  int   // legal single-card moves, free cells counted once
	FoundationNow int   // aces already on top of a cascade
}

// AceDepth is the total number of cards covering the four aces
func (a DealAnalysis) AceDepth() int {
	total := 0
	for _, b := range a.Aces {
		total += b.Depth
	}
	return total
}

func burial(state engine.GameState, card engine.Card) Burial {
	ref, _ := state.Locate(card)
	cards := state.Pile(ref).Cards()
	depth := 0
	for i := len(cards) - 1; i >= 0 && cards[i] != card; i-- {
		depth++
	}
	return Burial{Card: card, Pile: ref, Depth: depth}
}

// analyzeDeal computes heuristics for the opening position of seed
func analyzeDeal(seed int64) DealAnalysis {
	state := engine.Initial(seed)
	analysis := DealAnalysis{Seed: seed}

	for _, suit := range []engine.Suit{engine.Spade, engine.Diamond, engine.Heart, engine.Club} {
		ace := burial(state, engine.NewCard(engine.Ace, suit))
		if ace.Depth == 0 {
			analysis.FoundationNow++
		}
		analysis.Aces = append(analysis.Aces, ace)
		analysis.Twos = append(analysis.Twos, burial(state, engine.NewCard(engine.Two, suit)))
	}

	for _, p := range state.Cascades() {
		analysis.Runs = append(analysis.Runs, len(p.Run()))
	}

	// Every cell is empty at the start, so one cell stands for all four
	for _, from := range engine.Refs() {
		card, ok := state.Top(from)
		if !ok {
			continue
		}
		for _, to := range engine.Refs() {
			if to == from || (to.Group == engine.Cells && to.Index > 0) {
				continue
			}
			if state.CanMove(card, from, to) {
				analysis.OpeningMoves++
			}
		}
	}

	// Hardest first
	sort.Slice(analysis.Aces, func(i, j int) bool { return analysis.Aces[i].Depth > analysis.Aces[j].Depth })
	return analysis
}

func printBurials(w io.Writer, label string, burials []Burial) {
	parts := make([]string, len(burials))
	for i, b := range burials {
		parts[i] = fmt.Sprintf("%s@%s/%d", b.Card, b.Pile, b.Depth)
	}
	fmt.Fprintf(w, "%s: %s\n", label, strings.Join(parts, " "))
}

func printAnalysis(w io.Writer, deal *engine.DealConfig) {
	a := analyzeDeal(deal.Seed)
	state := engine.Initial(deal.Seed)

	fmt.Fprintf(w, "Name: %s\n", deal.Name)
	fmt.Fprintf(w, "Deal: #%d", deal.Seed)
	if deal.Difficulty != "" {
		fmt.Fprintf(w, " (%s)", deal.Difficulty)
	}
	fmt.Fprintln(w)

	for i, p := range state.Cascades() {
		labels := make([]string, 0, p.Height())
		for _, c := range p.Cards() {
			labels = append(labels, c.String())
		}
		fmt.Fprintf(w, "  %d: %-22s run %d\n", i, strings.Join(labels, " "), a.Runs[i])
	}

	printBurials(w, "Aces (card@pile/depth)", a.Aces)
	printBurials(w, "Twos (card@pile/depth)", a.Twos)
	fmt.Fprintf(w, "Cards covering aces: %d\n", a.AceDepth())
	fmt.Fprintf(w, "Opening moves: %d\n", a.OpeningMoves)

	switch {
	case a.FoundationNow > 0:
		fmt.Fprintf(w, "✅ %d ace(s) can go home on the first move\n", a.FoundationNow)
	case a.AceDepth() > 16:
		fmt.Fprintf(w, "⚠️  WARNING: the aces are buried under %d cards\n", a.AceDepth())
	}
}

// dealsFromArgs turns numeric arguments into numbered deals
func dealsFromArgs(args []string) ([]*engine.DealConfig, error) {
	var deals []*engine.DealConfig
	for _, arg := range args {
		seed, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || seed < 0 || seed > engine.MaxSeed {
			return nil, fmt.Errorf("invalid deal number %q", arg)
		}
		deals = append(deals, engine.SeedDeal(seed))
	}
	return deals, nil
}

// presetDeals loads every valid preset from dir
func presetDeals(dir string) ([]*engine.DealConfig, error) {
	manager, err := config.NewManager(dir)
	if err != nil {
		return nil, err
	}
	infos, err := manager.ListConfigs()
	if err != nil {
		return nil, err
	}

	var deals []*engine.DealConfig
	for _, info := range infos {
		deal, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}
	return deals, nil
}

func main() {
	deals, err := dealsFromArgs(os.Args[1:])
	if err == nil && len(deals) == 0 {
		deals, err = presetDeals("configs")
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	for _, deal := range deals {
		fmt.Printf("\n=== Analyzing %s ===\n", deal.Name)
		printAnalysis(os.Stdout, deal)
	}
}
