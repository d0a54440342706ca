package engine

import (
	"fmt"
	"slices"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() GameState
	Reset() GameState
	NewDeal(seed int64) GameState
	IsWon() bool
	Seed() int64

	// Card operations
	Locate(card Card) (PileRef, bool)
	Move(card Card, from, to PileRef) bool
	CanMove(card Card, from, to PileRef) bool

	// Configuration
	GetDeal() *DealConfig

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine holds the one live GameState of a game and replaces it with the
// result of every successful move. It is not safe for concurrent use.
type GameEngine struct {
	state GameState
	deal  *DealConfig

	// history is cumulative across resets; currentMoves counts moves since the
	// last reset or new deal.
	history      []MoveHistoryEntry
	currentMoves int
}

// NewEngine creates a new game engine dealing the provided preset
func NewEngine(deal *DealConfig) (*GameEngine, error) {
	if deal == nil {
		return nil, fmt.Errorf("deal cannot be nil")
	}
	if err := ValidateDealConfig(deal); err != nil {
		return nil, err
	}

	return &GameEngine{
		deal:    deal,
		state:   Initial(deal.Seed),
		history: []MoveHistoryEntry{},
	}, nil
}

// NewEngineWithSeed creates a new game engine for a numbered deal
func NewEngineWithSeed(seed int64) *GameEngine {
	return &GameEngine{
		deal:    SeedDeal(seed),
		state:   Initial(seed),
		history: []MoveHistoryEntry{},
	}
}

// GetState returns the current game state
func (e *GameEngine) GetState() GameState {
	return e.state
}

// Seed returns the seed of the current deal
func (e *GameEngine) Seed() int64 {
	return e.deal.Seed
}

// GetDeal returns the preset the current game was dealt from
func (e *GameEngine) GetDeal() *DealConfig {
	return e.deal
}

// IsWon returns whether every foundation is complete
func (e *GameEngine) IsWon() bool {
	return e.state.IsWon()
}

// Locate returns the pile currently holding card
func (e *GameEngine) Locate(card Card) (PileRef, bool) {
	return e.state.Locate(card)
}

// CanMove checks whether the move would be accepted
func (e *GameEngine) CanMove(card Card, from, to PileRef) bool {
	return e.state.CanMove(card, from, to)
}

// Move attempts to move card between piles. The state only changes when the
// move is legal; every attempt is recorded in the history.
func (e *GameEngine) Move(card Card, from, to PileRef) bool {
	next, ok := e.state.Move(card, from, to)

	reason := ReasonNone
	if ok {
		e.state = next
	} else {
		reason = e.state.Diagnose(card, from, to)
	}

	e.addMoveToHistory(card, from, to, ok, reason)
	return ok
}

// Reset deals the current seed again. The history is kept.
func (e *GameEngine) Reset() GameState {
	e.state = Initial(e.deal.Seed)
	e.currentMoves = 0
	return e.state
}

// NewDeal starts a different numbered deal, typically after a win
func (e *GameEngine) NewDeal(seed int64) GameState {
	e.deal = SeedDeal(seed)
	e.state = Initial(seed)
	e.currentMoves = 0
	return e.state
}

// CurrentMovesCount returns the number of moves since the last reset or deal
func (e *GameEngine) CurrentMovesCount() int {
	return e.currentMoves
}

// GetMoveHistory returns a copy of the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return slices.Clone(e.history)
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	last := e.history[len(e.history)-1]
	return &last
}

func (e *GameEngine) addMoveToHistory(card Card, from, to PileRef, success bool, reason RejectReason) {
	e.history = append(e.history, MoveHistoryEntry{
		Card:       card,
		From:       from,
		To:         to,
		Success:    success,
		Reason:     reason,
		MoveNumber: len(e.history) + 1,
		Timestamp:  time.Now().Unix(),
	})
	e.currentMoves++
}
