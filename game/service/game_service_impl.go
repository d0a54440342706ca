package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/freecellar/game/engine"
)

// Numbered deals drawn when a new deal is requested without a seed
const randomSeedRange = 32000

// Option configures a GameService
type Option func(*gameServiceImpl)

// WithMaxBulkMoves caps the number of moves one BulkMove call executes
func WithMaxBulkMoves(n int) Option {
	return func(s *gameServiceImpl) {
		if n > 0 {
			s.maxBulkMoves = n
		}
	}
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions     SessionManager
	configs      ConfigManager
	maxBulkMoves int
	mu           sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions:     sessions,
		configs:      configs,
		maxBulkMoves: engine.MaxBulkMoves,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getConfigID returns the config_id for a preset display name
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func seedDealID(seed int64) string {
	return fmt.Sprintf("seed:%d", seed)
}

func checkSeed(seed int64) error {
	if seed < 0 || seed > engine.MaxSeed {
		return fmt.Errorf("%w: seed must be between 0 and %d, got %d", ErrInvalidInput, engine.MaxSeed, seed)
	}
	return nil
}

// getSession looks up a session and marks it accessed. Callers hold the
// write lock since the access time is updated.
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionNotFound, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func sessionInfo(sess *Session) *SessionInfo {
	state := sess.Engine.GetState()
	return &SessionInfo{
		ID:             sess.ID,
		DealID:         sess.DealID,
		Seed:           sess.Engine.Seed(),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      state,
		Deal:           sess.Engine.GetDeal(),
		MoveCount:      sess.Engine.CurrentMovesCount(),
		Won:            state.IsWon(),
	}
}

// CreateSession creates a new game session. A seed deals that numbered game;
// otherwise dealID names a preset, and an empty dealID uses the default.
func (s *gameServiceImpl) CreateSession(ctx context.Context, dealID string, seed *int64) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deal *engine.DealConfig
	switch {
	case seed != nil && dealID != "":
		return nil, fmt.Errorf("%w: give either a deal_id or a seed, not both", ErrInvalidInput)

	case seed != nil:
		if err := checkSeed(*seed); err != nil {
			return nil, err
		}
		deal = engine.SeedDeal(*seed)
		dealID = seedDealID(*seed)

	case dealID != "":
		var err error
		deal, err = s.configs.LoadConfig(dealID)
		if err != nil {
			// Provide helpful error message with available options
			availableConfigs, listErr := s.configs.ListConfigs()
			if listErr == nil && len(availableConfigs) > 0 {
				var configIDs []string
				for _, cfg := range availableConfigs {
					configIDs = append(configIDs, cfg.ConfigID)
				}
				return nil, fmt.Errorf("%w: '%s' (available: %s): %w", ErrDealNotFound, dealID, strings.Join(configIDs, ", "), err)
			}
			return nil, fmt.Errorf("%w: '%s': %w", ErrDealNotFound, dealID, err)
		}

	default:
		deal = s.configs.GetDefault()
		dealID = s.getConfigID(deal.Name)
	}

	// Let the session manager generate the ID
	session, err := s.sessions.Create("", deal)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	session.DealID = dealID

	return sessionInfo(session), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %w", ErrSessionNotFound, err)
	}
	return nil
}

// parseMove turns a request into engine values. An empty From is resolved by
// locating the card in state.
func parseMove(state engine.GameState, req MoveRequest) (engine.Card, engine.PileRef, engine.PileRef, error) {
	card, err := engine.ParseCard(req.Card)
	if err != nil {
		return engine.Card{}, engine.PileRef{}, engine.PileRef{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	to, err := engine.ParsePileRef(req.To)
	if err != nil {
		return engine.Card{}, engine.PileRef{}, engine.PileRef{}, fmt.Errorf("%w: to: %w", ErrInvalidInput, err)
	}

	var from engine.PileRef
	if strings.TrimSpace(req.From) == "" {
		var ok bool
		if from, ok = state.Locate(card); !ok {
			return engine.Card{}, engine.PileRef{}, engine.PileRef{}, fmt.Errorf("%w: %s is not on the table", ErrInvalidInput, card)
		}
	} else if from, err = engine.ParsePileRef(req.From); err != nil {
		return engine.Card{}, engine.PileRef{}, engine.PileRef{}, fmt.Errorf("%w: from: %w", ErrInvalidInput, err)
	}

	return card, from, to, nil
}

// applyMove runs one move on the session engine and reports it as a step
func applyMove(sess *Session, idx int, card engine.Card, from, to engine.PileRef) (StepInfo, []GameEvent) {
	ok := sess.Engine.Move(card, from, to)
	step := StepInfo{
		Idx:     idx,
		Card:    card.String(),
		From:    from.String(),
		To:      to.String(),
		Success: ok,
	}
	if !ok {
		if last := sess.Engine.GetLastMove(); last != nil {
			step.Reason = last.Reason
		}
		return step, nil
	}

	now := time.Now()
	events := []GameEvent{{
		Type:      "move",
		Message:   fmt.Sprintf("Moved %s from %s to %s", card, from, to),
		Timestamp: now,
		Card:      card.String(),
	}}

	if to.Group == engine.Foundations {
		step.Home = true
		events = append(events, GameEvent{
			Type:      "foundation",
			Message:   fmt.Sprintf("%s sent to the foundation", card.Symbol()),
			Timestamp: now,
			Card:      card.String(),
		})
	}

	if sess.Engine.IsWon() {
		step.Victory = true
		events = append(events, GameEvent{
			Type:      "victory",
			Message:   "Victory! All four foundations are complete",
			Timestamp: now,
		})
	}

	return step, events
}

func stepMessage(step StepInfo) string {
	if step.Success {
		if step.Victory {
			return fmt.Sprintf("Moved %s to %s. You won!", step.Card, step.To)
		}
		return fmt.Sprintf("Moved %s from %s to %s", step.Card, step.From, step.To)
	}
	return fmt.Sprintf("Cannot move %s from %s to %s: %s", step.Card, step.From, step.To, step.Reason.Describe())
}

func foundationCount(state engine.GameState) int {
	n := 0
	for _, f := range state.Foundations() {
		n += f.Height()
	}
	return n
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, req MoveRequest) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	card, from, to, err := parseMove(sess.Engine.GetState(), req)
	if err != nil {
		return nil, err
	}

	step, events := applyMove(sess, 1, card, from, to)
	state := sess.Engine.GetState()

	return &MoveResult{
		Success:   step.Success,
		Reason:    step.Reason,
		Message:   stepMessage(step),
		GameState: state,
		Won:       state.IsWon(),
		Events:    events,
		Step:      &step,
	}, nil
}

// BulkMove executes moves in order and stops at the first one that is
// rejected or cannot be parsed.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []MoveRequest) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	if len(moves) == 0 {
		return nil, fmt.Errorf("%w: no moves given", ErrInvalidInput)
	}

	startFoundations := foundationCount(sess.Engine.GetState())

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	// Limit moves to prevent abuse
	if len(moves) > s.maxBulkMoves {
		result.Truncated = true
		result.Limit = s.maxBulkMoves
		moves = moves[:s.maxBulkMoves]
	}

	for i, move := range moves {
		if sess.Engine.IsWon() {
			result.StoppedReason = "game already won"
			result.StopReasonCode = "victory"
			result.StoppedOnMove = i + 1
			break
		}

		card, from, to, err := parseMove(sess.Engine.GetState(), move)
		if err != nil {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d invalid: %v", i+1, err)
			result.StopReasonCode = "invalid_move"
			result.StoppedOnMove = i + 1
			break
		}

		step, events := applyMove(sess, i+1, card, from, to)
		result.Steps = append(result.Steps, step)
		if !step.Success {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d rejected: %s", i+1, stepMessage(step))
			result.StopReasonCode = string(step.Reason)
			result.StoppedOnMove = i + 1
			break
		}

		result.MovesExecuted++
		result.Events = append(result.Events, events...)
	}

	state := sess.Engine.GetState()
	result.GameState = state
	result.Won = state.IsWon()
	result.FoundationDelta = foundationCount(state) - startFoundations

	if result.Won && result.StopReasonCode == "" {
		result.StopReasonCode = "victory"
	}

	switch {
	case result.Won:
		result.Message = "Victory! All four foundations are complete"
	case result.Success:
		result.Message = fmt.Sprintf("Executed %d moves", result.MovesExecuted)
	default:
		result.Message = result.StoppedReason
	}

	return result, nil
}

// Locate reports which pile holds a card and how deeply it is buried
func (s *gameServiceImpl) Locate(ctx context.Context, sessionID, cardLabel string) (*LocateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	card, err := engine.ParseCard(cardLabel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	state := sess.Engine.GetState()
	ref, ok := state.Locate(card)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not on the table", ErrInvalidInput, card)
	}

	cards := state.Pile(ref).Cards()
	return &LocateResult{
		Card:  card.String(),
		Pile:  ref.String(),
		Depth: len(cards) - 1 - slices.Index(cards, card),
	}, nil
}

// Reset deals the session's current seed again
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return engine.GameState{}, err
	}

	return sess.Engine.Reset(), nil
}

// NewDeal switches the session to another numbered deal. A nil seed picks a
// random deal between 1 and 32000.
func (s *gameServiceImpl) NewDeal(ctx context.Context, sessionID string, seed *int64) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	next := rand.Int64N(randomSeedRange) + 1
	if seed != nil {
		if err := checkSeed(*seed); err != nil {
			return nil, err
		}
		next = *seed
	}

	sess.Engine.NewDeal(next)
	sess.DealID = seedDealID(next)
	sess.Deal = sess.Engine.GetDeal()

	return sessionInfo(sess), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return engine.GameState{}, err
	}
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveHistoryEntry{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = slices.Clone(history[start:end])
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available deal presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific deal preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.DealConfig, error) {
	config, err := s.configs.LoadConfig(configName)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s': %w", ErrDealNotFound, configName, err)
	}
	return config, nil
}

// SaveConfig validates a deal preset and saves it to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.DealConfig) error {
	if config == nil {
		return fmt.Errorf("%w: deal is required", ErrInvalidInput)
	}
	if err := engine.ValidateDealConfig(config); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s.configs.SaveConfig(configName, config)
}
