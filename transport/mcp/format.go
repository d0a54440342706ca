package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/freecellar/game/engine"
	"github.com/wricardo/freecellar/game/service"
)

// Formatting helpers

const emptySlot = "--"

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nDeal: %s (#%d)\nMoves: %d\nCreated: %s\n\n%s",
		session.ID, session.DealID, session.Seed, session.MoveCount,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func foundationCount(state engine.GameState) int {
	n := 0
	for _, f := range state.Foundations() {
		n += f.Height()
	}
	return n
}

// slots renders one top card per pile, or -- for an empty pile
func slots(piles []engine.Pile) string {
	parts := make([]string, len(piles))
	for i, p := range piles {
		label := emptySlot
		if top, ok := p.Top(); ok {
			label = top.String()
		}
		parts[i] = "[" + label + "]"
	}
	return strings.Join(parts, " ")
}

func formatGameState(state engine.GameState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Foundations: %s  (%d/52 home)\n", slots(state.Foundations()), foundationCount(state))
	fmt.Fprintf(&b, "Cells:       %s\n", slots(state.Cells()))
	if card, ok := state.Hand(); ok {
		fmt.Fprintf(&b, "Hand:        %s\n", card)
	}

	b.WriteString("Cascades (bottom → top):\n")
	for i, p := range state.Cascades() {
		labels := make([]string, 0, p.Height())
		for _, card := range p.Cards() {
			labels = append(labels, card.String())
		}
		if len(labels) == 0 {
			labels = append(labels, "(empty)")
		}
		fmt.Fprintf(&b, "  %d: %s\n", i, strings.Join(labels, " "))
	}

	if state.IsWon() {
		b.WriteString("\n🎉 VICTORY! All four foundations are complete.\n")
	}

	return b.String()
}

// possibleMoves lists the legal single-card moves. Only the first empty cell
// and the first empty cascade are offered as destinations, and foundation
// moves come first.
func possibleMoves(state engine.GameState) []string {
	var sources []engine.PileRef
	for i := range state.Cascades() {
		sources = append(sources, engine.CascadeRef(i))
	}
	for i := range state.Cells() {
		sources = append(sources, engine.CellRef(i))
	}

	var targets []engine.PileRef
	for i := range state.Foundations() {
		targets = append(targets, engine.FoundationRef(i))
	}
	emptyCascade, emptyCell := false, false
	for i, p := range state.Cascades() {
		if p.IsEmpty() {
			if emptyCascade {
				continue
			}
			emptyCascade = true
		}
		targets = append(targets, engine.CascadeRef(i))
	}
	for i, p := range state.Cells() {
		if p.IsEmpty() && !emptyCell {
			emptyCell = true
			targets = append(targets, engine.CellRef(i))
		}
	}

	var moves []string
	for _, to := range targets {
		for _, from := range sources {
			if from == to {
				continue
			}
			card, ok := state.Top(from)
			if !ok {
				continue
			}
			// Shuffling a lone card between empty piles gains nothing
			if to.Group != engine.Foundations && state.Pile(from).Height() == 1 && state.Pile(to).IsEmpty() && from.Group != engine.Cells {
				continue
			}
			if from.Group == engine.Cells && to.Group == engine.Cells {
				continue
			}
			if state.CanMove(card, from, to) {
				moves = append(moves, fmt.Sprintf("%s %s>%s", card, from, to))
			}
		}
	}
	return moves
}

// accepted lists the cards a pile would take right now
func accepted(pile engine.Pile) string {
	top, ok := pile.Top()
	switch pile.Rule() {
	case engine.CellRule:
		if ok {
			return "nothing (occupied)"
		}
		return "any card"
	case engine.FoundationRule:
		if !ok {
			return "any Ace"
		}
		if top.Rank == engine.King {
			return "nothing (complete)"
		}
		return engine.NewCard(top.Rank+1, top.Suit).String()
	case engine.CascadeRule:
		if !ok {
			return "any card"
		}
		if top.Rank == engine.Ace {
			return "nothing (an Ace has no lower rank)"
		}
		var cards []string
		for _, suit := range []engine.Suit{engine.Spade, engine.Heart, engine.Diamond, engine.Club} {
			card := engine.NewCard(top.Rank-1, suit)
			if card.Color() != top.Color() {
				cards = append(cards, card.String())
			}
		}
		return strings.Join(cards, " or ")
	}
	return "unknown"
}

func describePile(state engine.GameState, ref engine.PileRef) string {
	pile := state.Pile(ref)

	var b strings.Builder
	fmt.Fprintf(&b, "Pile: %s (%s rule)\n", ref, pile.Rule())

	if pile.IsEmpty() {
		b.WriteString("Cards: (empty)\n")
	} else {
		labels := make([]string, 0, pile.Height())
		for _, card := range pile.Cards() {
			labels = append(labels, card.Symbol())
		}
		fmt.Fprintf(&b, "Cards (bottom → top): %s\n", strings.Join(labels, " "))
		top, _ := pile.Top()
		fmt.Fprintf(&b, "Top card: %s (%s)\n", top, top.Color())
	}

	if ref.Group == engine.Cascades && !pile.IsEmpty() {
		run := pile.Run()
		fmt.Fprintf(&b, "Ordered run on top: %d card(s)\n", len(run))
	}

	fmt.Fprintf(&b, "Accepts: %s\n", accepted(pile))

	// Cards that could land here with a single move
	var ready []string
	for _, from := range engine.Refs() {
		if from == ref {
			continue
		}
		if card, ok := state.Top(from); ok && state.CanMove(card, from, ref) {
			ready = append(ready, fmt.Sprintf("%s from %s", card, from))
		}
	}
	if len(ready) > 0 {
		fmt.Fprintf(&b, "Movable here now: %s\n", strings.Join(ready, ", "))
	}

	return b.String()
}

func formatStep(s *service.StepInfo) string {
	status := "✗ " + string(s.Reason)
	if s.Success {
		status = "✓"
	}
	line := fmt.Sprintf("%d. %s %s → %s %s", s.Idx, s.Card, s.From, s.To, status)
	if s.Home {
		line += " (home)"
	}
	if s.Victory {
		line += " (victory)"
	}
	return line + "\n"
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Move successful\n")
	} else {
		fmt.Fprintf(&b, "✗ Move rejected (%s)\n", result.Reason)
	}
	if result.Message != "" {
		b.WriteString(result.Message + "\n")
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session: %s\n", sessionID)
	fmt.Fprintf(&b, "Executed %d/%d moves", result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, " (truncated to %d)", result.Limit)
	}
	b.WriteString("\n")
	if result.FoundationDelta > 0 {
		fmt.Fprintf(&b, "Sent home: %d card(s)\n", result.FoundationDelta)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on move %d: %s\n", result.StoppedOnMove, result.StoppedReason)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for i := range result.Steps {
			b.WriteString(formatStep(&result.Steps[i]))
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (page %d/%d, %d total):\n\n", history.Page, history.TotalPages, history.TotalMoves)
	for _, m := range history.Moves {
		status := "✓"
		if !m.Success {
			status = "✗ " + string(m.Reason)
		}
		fmt.Fprintf(&b, "%d. %s %s → %s %s\n", m.MoveNumber, m.Card, m.From, m.To, status)
	}
	if history.HasNext {
		fmt.Fprintf(&b, "\nMore moves on page %d\n", history.Page+1)
	}
	return b.String()
}
