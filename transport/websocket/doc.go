// Package websocket pushes table updates to browsers and other watchers.
//
// A central Hub owns every connection. Each client is served by a read and
// a write goroutine; registration, removal and broadcasts are funnelled
// through the hub's event loop.
//
// Clients connect to /ws?session=<id> and receive one JSON message per
// change to that session:
//
//	{"session_id": "a1b2", "event": "state_update", "game_state": {...}}
//
// Messages a client sends are read and discarded so that close frames and
// pongs are still processed.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	hub.BroadcastToSession(sessionID, state)
package websocket
