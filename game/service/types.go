package service

import (
	"time"

	"github.com/wricardo/freecellar/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	DealID         string             `json:"deal_id"`
	Seed           int64              `json:"seed"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      engine.GameState   `json:"game_state"`
	Deal           *engine.DealConfig `json:"deal"`
	MoveCount      int                `json:"move_count"`
	Won            bool               `json:"won"`
}

// MoveRequest names a card and the piles to move it between. From may be
// empty, in which case the card is located first.
type MoveRequest struct {
	Card string `json:"card"`
	From string `json:"from,omitempty"`
	To   string `json:"to"`
}

// MoveResult contains the result of a move operation. A rejected move is not
// an error: Success is false and Reason says why.
type MoveResult struct {
	Success   bool                `json:"success"`
	Reason    engine.RejectReason `json:"reason,omitempty"`
	Message   string              `json:"message"`
	GameState engine.GameState    `json:"game_state"`
	Won       bool                `json:"won"`
	Events    []GameEvent         `json:"events,omitempty"`
	Step      *StepInfo           `json:"step,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int              `json:"moves_executed"`
	RequestedMoves int              `json:"requested_moves"`
	Success        bool             `json:"success"`
	GameState      engine.GameState `json:"game_state"`
	Events         []GameEvent      `json:"events"`
	StoppedReason  string           `json:"stopped_reason,omitempty"`   // Human-readable reason
	StopReasonCode string           `json:"stop_reason_code,omitempty"` // Machine-friendly RejectReason, or "invalid_move" / "victory"
	StoppedOnMove  int              `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool             `json:"truncated,omitempty"`
	Limit          int              `json:"limit,omitempty"`

	// Cards sent to the foundations during this call
	FoundationDelta int `json:"foundation_delta"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	Won     bool   `json:"won"`
	Message string `json:"message,omitempty"`
}

// StepInfo is a compact record for each attempted move
type StepInfo struct {
	Idx     int                 `json:"idx"`
	Card    string              `json:"card"`
	From    string              `json:"from"`
	To      string              `json:"to"`
	Success bool                `json:"success"`
	Reason  engine.RejectReason `json:"reason,omitempty"`
	Home    bool                `json:"home,omitempty"`
	Victory bool                `json:"victory,omitempty"`
}

// LocateResult tells where a card currently lies
type LocateResult struct {
	Card  string `json:"card"`
	Pile  string `json:"pile"`
	Depth int    `json:"depth"` // cards on top of it; 0 means it can be moved
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "move", "foundation", "victory", "reset", "new_deal"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Card      string    `json:"card,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a deal preset
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Seed        int64  `json:"seed"`
	Difficulty  string `json:"difficulty,omitempty"`
}
