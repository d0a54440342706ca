// Package api provides the HTTP REST API for freecellar.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session ({"deal_id": "classic"} or {"seed": 617})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Several sessions side by side (?sessionIds=a,b or ?dealId=classic)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current table
//   - GET /api/sessions/{id}/locate?card=JD - Which pile holds a card
//   - POST /api/sessions/{id}/move - {"card": "6S", "from": "cascade:0", "to": "cell:0"}
//   - POST /api/sessions/{id}/bulk-move - {"moves": [{...}, {...}]}
//   - POST /api/sessions/{id}/reset - Deal the same game again
//   - POST /api/sessions/{id}/deal - Switch to another deal ({"seed": 617}, or random)
//   - GET /api/sessions/{id}/history - Move log (?page=&limit=&order=)
//
// Deal presets:
//   - GET /api/deals - List presets
//   - POST /api/deals - Save a preset
//   - GET /api/deals/{name} - Get a preset
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id} - WebSocket state updates
//
// Piles are addressed as "cascade:0".."cascade:7", "cell:0".."cell:3" and
// "foundation:0".."foundation:3". Cards are two-character labels such as
// "TD" or "AS".
//
// A move the rules forbid is answered with 200 and "success": false plus a
// reason code such as "not_on_top" or "cascade_sequence". Errors use the
// usual status codes with a JSON body:
//
//	{"error": "session not found: a1b2"}
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	http.Handle("/", api.NewServer(gameService, hub))
package api
