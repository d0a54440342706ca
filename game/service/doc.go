// Package service provides the business logic layer for freecellar.
//
// The service package implements:
//   - Multi-session game management
//   - Deal preset loading and saving
//   - Single and bulk move processing with reject reasons
//   - Move history pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager loads deal presets from disk.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns a GameEngine for one numbered deal, and
// all engine access goes through the service lock.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	// Deal game #617
//	seed := int64(617)
//	info, err := gameService.CreateSession(ctx, "", &seed)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Move a card; From may be omitted
//	result, err := gameService.Move(ctx, info.ID, service.MoveRequest{Card: "6S", To: "cell:0"})
//
// Errors:
//
// Operations wrap ErrInvalidInput, ErrSessionNotFound or ErrDealNotFound so
// transports can map them with errors.Is. A move the rules reject is not an
// error; MoveResult.Reason carries the reject reason instead.
package service
