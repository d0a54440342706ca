package engine

import "errors"

const (
	DeckSize       = 52
	SuitSize       = 13
	NumCascades    = 8
	NumFoundations = 4
	NumCells       = 4

	// Validation constants
	MaxSeed             = 0x7fffffff
	MaxBulkMoves        = 52
	WebSocketBufferSize = 256
)

var (
	ErrInvalidCard    = errors.New("invalid card")
	ErrInvalidDeck    = errors.New("invalid deck")
	ErrInvalidPileRef = errors.New("invalid pile reference")
	ErrInvalidLayout  = errors.New("invalid layout")
)

// RejectReason is a machine-friendly explanation of a rejected move
type RejectReason string

const (
	ReasonNone               RejectReason = ""
	ReasonNotInPile          RejectReason = "not_in_pile"
	ReasonNotOnTop           RejectReason = "not_on_top"
	ReasonHandBusy           RejectReason = "hand_busy"
	ReasonCellOccupied       RejectReason = "cell_occupied"
	ReasonFoundationNeedsAce RejectReason = "foundation_needs_ace"
	ReasonFoundationSequence RejectReason = "foundation_sequence"
	ReasonCascadeSequence    RejectReason = "cascade_sequence"
)

// Describe returns a short human-readable explanation
func (r RejectReason) Describe() string {
	switch r {
	case ReasonNone:
		return "move accepted"
	case ReasonNotInPile:
		return "the card is not in the source pile"
	case ReasonNotOnTop:
		return "only the top card of a pile can move"
	case ReasonHandBusy:
		return "a card is already being held"
	case ReasonCellOccupied:
		return "a free cell holds only one card"
	case ReasonFoundationNeedsAce:
		return "an empty foundation only takes an Ace"
	case ReasonFoundationSequence:
		return "foundations build up by suit"
	case ReasonCascadeSequence:
		return "cascades build down in alternating colours"
	}
	return string(r)
}

// MoveHistoryEntry represents a single attempted move in the engine's log
type MoveHistoryEntry struct {
	Card       Card         `json:"card"`
	From       PileRef      `json:"from"`
	To         PileRef      `json:"to"`
	Success    bool         `json:"success"`
	Reason     RejectReason `json:"reason,omitempty"`
	MoveNumber int          `json:"move_number"`
	Timestamp  int64        `json:"timestamp"`
}

// DealConfig is a named numbered deal loaded from JSON
type DealConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Seed        int64  `json:"seed"`
	Difficulty  string `json:"difficulty,omitempty"`
}
