package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/freecellar/game/engine"
	"github.com/wricardo/freecellar/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Freecellar",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Freecell - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Move all 52 cards onto the four foundations, Ace to King by suit.

PILES:
- cascade:0..7 - the eight table columns; build down in alternating colours
- cell:0..3 - free cells holding one card each
- foundation:0..3 - build up by suit from Ace

AVAILABLE TOOLS:
- create_session: Start a game (preset deal_id or numbered seed)
- game_state: Show the table and the legal moves
- move: Move one top card - requires intent explanation
- bulk_move: Several moves in order, stopping at the first rejected one
- locate_card: Find which pile holds a card
- describe_pile: Show a pile and which cards it accepts
- reset_game / new_deal: Restart the deal or switch deals
- move_history, list_sessions, get_session, list_deals, game_instructions

NOTE: The 'intent' parameter on move/bulk_move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func moveProperties() map[string]interface{} {
	return map[string]interface{}{
		"card": map[string]interface{}{
			"type":        "string",
			"description": "Card label such as 6S, TD or AH (rank A23456789TJQK, suit SHDC)",
		},
		"from": map[string]interface{}{
			"type":        "string",
			"description": "Source pile such as cascade:0 or cell:2 (optional, located automatically)",
		},
		"to": map[string]interface{}{
			"type":        "string",
			"description": "Destination pile such as cell:0, foundation:1 or cascade:7",
		},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session. Give a preset deal_id or a numbered deal seed, or neither for the default deal",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"deal_id": map[string]interface{}{
					"type":        "string",
					"description": "Deal preset to use (see list_deals)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Numbered deal, e.g. 617",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current table and the legal moves",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "locate_card",
		Description: "Find the pile holding a card and how many cards lie on top of it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"card": map[string]interface{}{
					"type":        "string",
					"description": "Card label such as QH",
				},
			},
			Required: []string{"session_id", "card"},
		},
	}, c.handleLocateCard)

	moveProps := moveProperties()
	moveProps["session_id"] = sessionIDProperty()
	moveProps["intent"] = map[string]interface{}{
		"type":        "string",
		"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
	}
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the top card of one pile onto another",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: moveProps,
			Required:   []string{"session_id", "card", "to"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: "Execute multiple moves in sequence, stopping at the first rejected move. Each move is an object {card, from?, to} or a string like \"6S>cell:0\" or \"6S cascade:0>cell:0\"",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"anyOf": []interface{}{
							map[string]interface{}{"type": "string"},
							map[string]interface{}{
								"type":       "object",
								"properties": moveProperties(),
								"required":   []string{"card", "to"},
							},
						},
					},
					"description": "Array of moves",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Deal the same game again from the start",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_deal",
		Description: "Switch the session to another numbered deal (random when no seed is given)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Numbered deal (optional)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleNewDeal)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session, rejected attempts included",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest or newest first (default desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_deals",
		Description: "List available deal presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListDeals)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_pile",
		Description: "Describe one pile: its cards, its top card, its movable run and which cards it accepts right now",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"pile": map[string]interface{}{
					"type":        "string",
					"description": "Pile such as cascade:3, cell:0 or foundation:2",
				},
			},
			Required: []string{"session_id", "pile"},
		},
	}, c.handleDescribePile)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// intArg returns an integer argument, or nil when it is absent
func intArg(request mcp.CallToolRequest, key string) *int64 {
	if _, ok := request.GetArguments()[key]; !ok {
		return nil
	}
	n := int64(request.GetInt(key, 0))
	return &n
}

// parseMoveSpec accepts "6S>cell:0" or "6S cascade:0>cell:0"
func parseMoveSpec(spec string) (service.MoveRequest, error) {
	left, to, ok := strings.Cut(spec, ">")
	if !ok {
		return service.MoveRequest{}, fmt.Errorf("move %q: want CARD>PILE or CARD FROM>PILE", spec)
	}
	fields := strings.Fields(left)
	req := service.MoveRequest{To: strings.TrimSpace(to)}
	switch len(fields) {
	case 1:
		req.Card = fields[0]
	case 2:
		req.Card, req.From = fields[0], fields[1]
	default:
		return service.MoveRequest{}, fmt.Errorf("move %q: want CARD>PILE or CARD FROM>PILE", spec)
	}
	return req, nil
}

// parseMoves converts the raw bulk_move argument into move requests
func parseMoves(raw []interface{}) ([]service.MoveRequest, error) {
	moves := make([]service.MoveRequest, 0, len(raw))
	for i, m := range raw {
		switch v := m.(type) {
		case string:
			req, err := parseMoveSpec(v)
			if err != nil {
				return nil, err
			}
			moves = append(moves, req)
		case map[string]interface{}:
			card, _ := v["card"].(string)
			from, _ := v["from"].(string)
			to, _ := v["to"].(string)
			moves = append(moves, service.MoveRequest{Card: card, From: from, To: to})
		default:
			return nil, fmt.Errorf("move %d: expected a string or an object", i+1)
		}
	}
	return moves, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]interface{}{}
	if dealID := request.GetString("deal_id", ""); dealID != "" {
		body["deal_id"] = dealID
	}
	if seed := intArg(request, "seed"); seed != nil {
		body["seed"] = *seed
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nDeal: %s (#%d)\n\n%s",
		session.ID, session.DealID, session.Seed, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := ""
		if s.Won {
			status = " WON"
		}
		fmt.Fprintf(&b, "- %s (Deal: %s, Moves: %d, Home: %d/52, Created: %s)%s\n",
			s.ID, s.DealID, s.MoveCount, foundationCount(s.GameState), s.CreatedAt.Format("15:04:05"), status)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(state)
	if moves := possibleMoves(state); len(moves) > 0 && !state.IsWon() {
		result += "\nLegal moves: " + strings.Join(moves, ", ") + "\n"
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleLocateCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	card, err := request.RequireString("card")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var loc service.LocateResult
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/locate?card="+url.QueryEscape(card)), nil, &loc); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s is in %s", loc.Card, loc.Pile)
	if loc.Depth == 0 {
		result += " on top (movable)"
	} else {
		result += fmt.Sprintf(" under %d card(s)", loc.Depth)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = request.GetString("intent", "")

	body := service.MoveRequest{
		Card: request.GetString("card", ""),
		From: request.GetString("from", ""),
		To:   request.GetString("to", ""),
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	_ = request.GetString("intent", "")

	raw, _ := request.GetArguments()["moves"].([]interface{})
	moves, err := parseMoves(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.BulkMoveResult
	body := map[string]interface{}{"moves": moves}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var response struct {
		Message string           `json:"message"`
		State   engine.GameState `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))), nil
}

func (c *Client) handleNewDeal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	body := map[string]interface{}{}
	if seed := intArg(request, "seed"); seed != nil {
		body["seed"] = *seed
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/deal"), body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Dealt game #%d\n\n%s", session.Seed, formatGameState(session.GameState))), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	params := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		params.Set("page", fmt.Sprint(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order := request.GetString("order", ""); order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListDeals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var deals []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/deals", nil, &deals); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Deals:\n\n")
	for _, deal := range deals {
		fmt.Fprintf(&b, "• %s (deal_id: %s)\n  %s\n  Deal #%d", deal.Name, deal.ConfigID, deal.Description, deal.Seed)
		if deal.Difficulty != "" {
			fmt.Fprintf(&b, ", %s", deal.Difficulty)
		}
		b.WriteString("\n\n")
	}
	b.WriteString("Any other numbered deal can be played with create_session {\"seed\": N}.\n")

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribePile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	ref, err := engine.ParsePileRef(request.GetString("pile", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%v. Piles are cascade:0-7, cell:0-3 and foundation:0-3", err)), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(describePile(state, ref)), nil
}

const instructions = `Freecell - Complete Instructions

GAME OBJECTIVE:
Move all 52 cards to the four foundations. Each foundation holds one suit,
built up from Ace to King.

THE TABLE:
• 8 cascades (cascade:0 .. cascade:7): the whole deck is dealt face up into
  them at the start, 7 cards in the first four and 6 in the rest
• 4 free cells (cell:0 .. cell:3): parking spots for a single card each
• 4 foundations (foundation:0 .. foundation:3): one suit each, Ace first

CARD LABELS:
Rank A 2 3 4 5 6 7 8 9 T J Q K followed by suit S H D C.
Examples: AS = Ace of Spades, TD = Ten of Diamonds, QH = Queen of Hearts.
Spades and Clubs are black; Hearts and Diamonds are red.

MOVEMENT RULES:
• Only the top (last) card of a pile can move, one card at a time
• Free cell: accepts any card when empty
• Foundation: accepts an Ace when empty, then the next rank of the same suit
• Cascade: accepts any card when empty, otherwise a card one rank lower and
  of the opposite colour (e.g. a red 9 onto a black T)
• Cards on a foundation may still be moved back to a cell or cascade

MOVEMENT COMMANDS:
• move {card: "6S", to: "cell:0"} - the source pile is found automatically
• move {card: "6S", from: "cascade:0", to: "cell:0"} - explicit source
• bulk_move {moves: ["3D>cell:0", "2C>cell:1", "AC>foundation:0"]}
  stops at the first rejected move and reports the reason

REJECT REASONS:
• not_in_pile - the card is not in the named source pile
• not_on_top - the card is buried; move the cards above it first
• cell_occupied - free cells hold one card
• foundation_needs_ace - an empty foundation only takes an Ace
• foundation_sequence - wrong suit or rank for that foundation
• cascade_sequence - needs one rank lower in the opposite colour

STRATEGY:
• Free the Aces and Twos early; locate_card shows how deeply they are buried
• Keep free cells empty as long as possible, they are your working space
• An empty cascade is worth more than an empty cell
• Use describe_pile to see which cards a pile accepts right now
• game_state lists every legal single-card move

VICTORY CONDITIONS:
The game is won when all four foundations hold 13 cards.
Use new_deal to play another numbered deal.

Good luck!`
