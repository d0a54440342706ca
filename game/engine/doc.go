// Package engine provides the Freecell rule engine.
//
// The engine package implements:
//   - Cards, suits, ranks and colour classes
//   - The numbered-deal shuffler (a seeded linear congruential generator)
//   - Piles with the free cell, foundation and cascade acceptance rules
//   - Immutable game states and the pick, place and move transitions
//   - Win detection and card lookup
//
// Core Types:
//
// GameState is an immutable value holding 8 cascades, 4 foundations and
// 4 free cells. Pick, Place and Move return a new GameState and a boolean;
// a rejected move returns false and the receiver unchanged. PileRef addresses
// one pile of a state and can read it or derive an updated state from it.
// GameEngine wraps the current state of one game with a move log.
//
// Usage:
//
//	gs := engine.Initial(1)
//	card := engine.MustParseCard("6H")
//
//	from, ok := gs.Locate(card)
//	if !ok {
//		log.Fatal("card not dealt")
//	}
//
//	next, ok := gs.Move(card, from, engine.CellRef(0))
//	if ok {
//		gs = next
//	}
//
// Game Rules:
//
// A free cell holds at most one card. A foundation is built up by suit from
// the Ace. A cascade is built down in alternating colours; any card may be
// placed on an empty cascade. Only the top card of a pile can move. The game
// is won when all four foundations hold thirteen cards.
package engine
