package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/freecellar/game/engine"
)

var (
	// ErrInvalidInput marks client mistakes such as an unparseable card or pile
	ErrInvalidInput = errors.New("invalid input")
	// ErrSessionNotFound is wrapped around session lookup failures
	ErrSessionNotFound = errors.New("session not found")
	// ErrDealNotFound is wrapped around preset lookup failures
	ErrDealNotFound = errors.New("deal not found")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, dealID string, seed *int64) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID string, req MoveRequest) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []MoveRequest) (*BulkMoveResult, error)
	Locate(ctx context.Context, sessionID, card string) (*LocateResult, error)
	Reset(ctx context.Context, sessionID string) (engine.GameState, error)
	NewDeal(ctx context.Context, sessionID string, seed *int64) (*SessionInfo, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Deal presets
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.DealConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.DealConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, deal *engine.DealConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles deal preset loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.DealConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.DealConfig
	SaveConfig(name string, config *engine.DealConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	DealID         string
	Engine         *engine.GameEngine
	Deal           *engine.DealConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
