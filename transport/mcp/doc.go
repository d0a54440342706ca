// Package mcp exposes Freecell to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call is translated into a request to
// the REST API (see package api) and the JSON answer is rendered as text an
// agent can read. No game state lives here.
//
// MCP Tools:
//   - create_session: start a game from a preset deal_id or a numbered seed
//   - list_sessions, get_session: inspect sessions
//   - game_state: the table plus every legal single-card move
//   - locate_card: which pile holds a card and how deeply it is buried
//   - move: one move, e.g. {card: "6S", to: "cell:0"}
//   - bulk_move: several moves, as objects or "CARD [FROM]>TO" strings
//   - describe_pile: a pile's cards and what it accepts right now
//   - reset_game, new_deal: restart or switch deals
//   - move_history: paginated log, rejected attempts included
//   - list_deals, game_instructions
//
// A move the rules forbid is a normal result that names the reason code.
// Only transport failures and bad input are reported as tool errors.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
