// Package session provides in-memory session management for the Freecell
// server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session expiry by last access time
//
// Core Types:
//
// Manager stores sessions keyed by lower-cased ID. Each session owns its own
// engine.GameEngine dealt from a preset, plus creation and last access times.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters from crypto/rand. Callers may also pick
// their own ID of up to 64 letters, digits, '-' or '_'; lookups ignore case.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", deal)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//	removed := manager.CleanupExpiredSessions(24 * time.Hour)
//
// Sessions live only as long as the process.
package session
