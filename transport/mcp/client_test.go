package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/freecellar/api"
	"github.com/wricardo/freecellar/game/config"
	"github.com/wricardo/freecellar/game/engine"
	"github.com/wricardo/freecellar/game/service"
	"github.com/wricardo/freecellar/game/session"
)

type toolHandler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// newTestAPI serves the real REST API over an in-memory session store and a
// preset directory holding classic.json
func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	classic := `{"name": "Classic", "description": "Deal #1", "seed": 1, "difficulty": "easy"}`
	if err := os.WriteFile(filepath.Join(dir, "classic.json"), []byte(classic), 0o644); err != nil {
		t.Fatalf("Failed to write preset: %v", err)
	}

	configs, err := config.NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}

	gameService := service.NewGameService(session.NewManager(), configs)
	server := httptest.NewServer(api.NewServer(gameService, nil))
	t.Cleanup(server.Close)
	return server
}

func callTool(t *testing.T, handler toolHandler, args map[string]interface{}) (string, bool) {
	t.Helper()

	request := mcp.CallToolRequest{}
	request.Params.Arguments = args

	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected content in result")
	}

	textContent, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Expected TextContent, got %T", result.Content[0])
	}
	return textContent.Text, result.IsError
}

// createSession starts a game through the tool and returns its session ID
func createSession(t *testing.T, client *Client, args map[string]interface{}) string {
	t.Helper()

	text, isErr := callTool(t, client.handleCreateSession, args)
	if isErr {
		t.Fatalf("create_session failed: %s", text)
	}

	line := strings.SplitN(text, "\n", 2)[0]
	id := strings.TrimPrefix(line, "Created session: ")
	if id == "" || id == line {
		t.Fatalf("Could not find session ID in %q", text)
	}
	return id
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080/"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected JSON content type, got %q", r.Header.Get("Content-Type"))
		}
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"echo":   body["card"],
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	err := client.apiCall(context.Background(), "POST", "/api/test", map[string]string{"card": "AS"}, &response)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["method"] != "POST" || response["path"] != "/api/test" || response["echo"] != "AS" {
		t.Errorf("Unexpected response: %v", response)
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for unreachable server")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"json error body", `{"error": "session not found: abc"}`, "session not found: abc"},
		{"plain body", "Internal Server Error", "API error: 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
			if err == nil {
				t.Fatal("Expected error for HTTP 500 response")
			}
			if err.Error() != tt.wantErr {
				t.Errorf("Expected error %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestParseMoveSpec(t *testing.T) {
	tests := []struct {
		spec    string
		want    service.MoveRequest
		wantErr bool
	}{
		{"6S>cell:0", service.MoveRequest{Card: "6S", To: "cell:0"}, false},
		{"6S cascade:0>cell:0", service.MoveRequest{Card: "6S", From: "cascade:0", To: "cell:0"}, false},
		{" ah  cascade:6 > foundation:1 ", service.MoveRequest{Card: "ah", From: "cascade:6", To: "foundation:1"}, false},
		{"6S cell:0", service.MoveRequest{}, true},
		{">cell:0", service.MoveRequest{}, true},
		{"a b c>cell:0", service.MoveRequest{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := parseMoveSpec(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseMoveSpec(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseMoveSpec(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseMoves(t *testing.T) {
	moves, err := parseMoves([]interface{}{
		"3D>cell:1",
		map[string]interface{}{"card": "2C", "from": "cascade:5", "to": "cell:2"},
	})
	if err != nil {
		t.Fatalf("parseMoves failed: %v", err)
	}
	if len(moves) != 2 {
		t.Fatalf("Expected 2 moves, got %d", len(moves))
	}
	if moves[1] != (service.MoveRequest{Card: "2C", From: "cascade:5", To: "cell:2"}) {
		t.Errorf("Unexpected object move: %+v", moves[1])
	}

	if _, err := parseMoves([]interface{}{42.0}); err == nil {
		t.Error("Expected error for a numeric move")
	}
}

func TestFormatGameState(t *testing.T) {
	result := formatGameState(engine.Initial(1))

	expectedContent := []string{
		"Foundations: [--] [--] [--] [--]  (0/52 home)",
		"Cells:       [--] [--] [--] [--]",
		"  0: JD KD 2S 4C 3S 6D 6S",
		"  5: 7H QC AS AC 2C 3D",
	}
	for _, content := range expectedContent {
		if !strings.Contains(result, content) {
			t.Errorf("Expected %q in formatted state:\n%s", content, result)
		}
	}

	if strings.Contains(result, "VICTORY") {
		t.Error("Fresh deal must not report victory")
	}
}

func TestFormatGameState_Victory(t *testing.T) {
	var layout engine.Layout
	for _, suit := range []engine.Suit{engine.Spade, engine.Diamond, engine.Heart, engine.Club} {
		var pile []engine.Card
		for rank := engine.Ace; rank <= engine.King; rank++ {
			pile = append(pile, engine.NewCard(rank, suit))
		}
		layout.Foundations = append(layout.Foundations, pile)
	}
	state, err := engine.NewGameState(layout)
	if err != nil {
		t.Fatalf("NewGameState failed: %v", err)
	}

	result := formatGameState(state)
	if !strings.Contains(result, "VICTORY") {
		t.Errorf("Expected victory banner, got:\n%s", result)
	}
	if !strings.Contains(result, "(52/52 home)") {
		t.Errorf("Expected all cards home, got:\n%s", result)
	}
	if !strings.Contains(result, "  7: (empty)") {
		t.Errorf("Expected empty cascades, got:\n%s", result)
	}
}

func TestPossibleMoves(t *testing.T) {
	// Deal #1 has no cascade-to-cascade or foundation moves, so every top
	// card may only go to the first free cell
	moves := possibleMoves(engine.Initial(1))

	if len(moves) != engine.NumCascades {
		t.Fatalf("Expected %d moves, got %d: %v", engine.NumCascades, len(moves), moves)
	}
	for _, m := range moves {
		if !strings.HasSuffix(m, ">cell:0") {
			t.Errorf("Expected only cell:0 destinations, got %q", m)
		}
	}
	if moves[0] != "6S cascade:0>cell:0" {
		t.Errorf("Expected first move 6S cascade:0>cell:0, got %q", moves[0])
	}
}

func TestPossibleMoves_FoundationFirst(t *testing.T) {
	state := engine.Initial(1)
	for _, step := range []struct{ card, from, to string }{
		{"3D", "cascade:5", "cell:0"},
		{"2C", "cascade:5", "cell:1"},
	} {
		from, _ := engine.ParsePileRef(step.from)
		to, _ := engine.ParsePileRef(step.to)
		var ok bool
		if state, ok = state.Move(engine.MustParseCard(step.card), from, to); !ok {
			t.Fatalf("Setup move %s failed", step.card)
		}
	}

	moves := possibleMoves(state)
	if len(moves) == 0 || moves[0] != "AC cascade:5>foundation:0" {
		t.Errorf("Expected AC to foundation first, got %v", moves)
	}
	for _, m := range moves {
		if strings.HasPrefix(m, "3D cell:0>cell:") {
			t.Errorf("Cell to cell moves should not be listed, got %q", m)
		}
	}
}

func TestAccepted(t *testing.T) {
	state := engine.Initial(1)

	tests := []struct {
		name string
		pile engine.Pile
		want string
	}{
		{"empty cell", state.Pile(engine.CellRef(0)), "any card"},
		{"empty foundation", state.Pile(engine.FoundationRef(0)), "any Ace"},
		{"red top cascade", state.Pile(engine.CascadeRef(5)), "2S or 2C"},
		{"black top cascade", state.Pile(engine.CascadeRef(0)), "5H or 5D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := accepted(tt.pile); got != tt.want {
				t.Errorf("accepted() = %q, want %q", got, tt.want)
			}
		})
	}

	foundation, _ := engine.NewPile(engine.FoundationRule).Put(engine.MustParseCard("AH"))
	if got := accepted(foundation); got != "2H" {
		t.Errorf("Expected foundation to accept 2H, got %q", got)
	}
	cell, _ := engine.NewPile(engine.CellRule).Put(engine.MustParseCard("KS"))
	if got := accepted(cell); got != "nothing (occupied)" {
		t.Errorf("Expected occupied cell, got %q", got)
	}
}

func TestFormatMoveResult(t *testing.T) {
	result := &service.MoveResult{
		Success:   true,
		Message:   "Moved AC from cascade:5 to foundation:0",
		GameState: engine.Initial(1),
		Events: []service.GameEvent{
			{Type: "foundation", Message: "A♣ sent to the foundation"},
		},
	}

	formatted := formatMoveResult(result)
	for _, content := range []string{"✓ Move successful", "Moved AC", "- foundation: A♣ sent to the foundation", "Cascades"} {
		if !strings.Contains(formatted, content) {
			t.Errorf("Expected %q in:\n%s", content, formatted)
		}
	}
}

func TestFormatMoveResult_Rejected(t *testing.T) {
	result := &service.MoveResult{
		Success:   false,
		Reason:    engine.ReasonNotOnTop,
		Message:   "Cannot move AS from cascade:5 to cell:0: " + engine.ReasonNotOnTop.Describe(),
		GameState: engine.Initial(1),
	}

	formatted := formatMoveResult(result)
	if !strings.Contains(formatted, "✗ Move rejected (not_on_top)") {
		t.Errorf("Expected rejection header, got:\n%s", formatted)
	}
	if !strings.Contains(formatted, "only the top card") {
		t.Errorf("Expected reason text, got:\n%s", formatted)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	text, isErr := callTool(t, client.handleGameInstructions, nil)
	if isErr {
		t.Fatal("Expected instructions, got error")
	}

	expectedContent := []string{
		"Freecell",
		"cascade:0",
		"foundation:0",
		"cell_occupied",
		"cascade_sequence",
		"bulk_move",
		"VICTORY CONDITIONS",
	}
	for _, content := range expectedContent {
		if !strings.Contains(text, content) {
			t.Errorf("Instructions should contain %q", content)
		}
	}
}

func TestClient_createSession(t *testing.T) {
	client := NewClient(newTestAPI(t).URL)

	tests := []struct {
		name     string
		args     map[string]interface{}
		contains []string
		wantErr  bool
	}{
		{
			name:     "default preset",
			args:     nil,
			contains: []string{"Deal: classic (#1)", "  0: JD KD 2S 4C 3S 6D 6S"},
		},
		{
			name:     "numbered deal",
			args:     map[string]interface{}{"seed": float64(617)},
			contains: []string{"Deal: seed:617 (#617)", "  4: 5S 6D 6S 8S 7C JC"},
		},
		{
			name:     "unknown preset",
			args:     map[string]interface{}{"deal_id": "nope"},
			contains: []string{"nope", "classic"},
			wantErr:  true,
		},
		{
			name:     "seed out of range",
			args:     map[string]interface{}{"seed": float64(-1)},
			contains: []string{"seed"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := callTool(t, client.handleCreateSession, tt.args)
			if isErr != tt.wantErr {
				t.Fatalf("Expected IsError=%v, got %v: %s", tt.wantErr, isErr, text)
			}
			for _, content := range tt.contains {
				if !strings.Contains(text, content) {
					t.Errorf("Expected %q in:\n%s", content, text)
				}
			}
		})
	}
}

func TestClient_Integration(t *testing.T) {
	client := NewClient(newTestAPI(t).URL)
	sessionID := createSession(t, client, nil)

	t.Run("game_state lists legal moves", func(t *testing.T) {
		text, isErr := callTool(t, client.handleGameState, map[string]interface{}{"session_id": sessionID})
		if isErr {
			t.Fatalf("game_state failed: %s", text)
		}
		if !strings.Contains(text, "Legal moves: 6S cascade:0>cell:0") {
			t.Errorf("Expected legal moves, got:\n%s", text)
		}
	})

	t.Run("locate_card", func(t *testing.T) {
		text, _ := callTool(t, client.handleLocateCard, map[string]interface{}{"session_id": sessionID, "card": "as"})
		if text != "AS is in cascade:5 under 3 card(s)" {
			t.Errorf("Unexpected locate result %q", text)
		}

		text, _ = callTool(t, client.handleLocateCard, map[string]interface{}{"session_id": sessionID, "card": "6S"})
		if !strings.HasSuffix(text, "on top (movable)") {
			t.Errorf("Expected 6S on top, got %q", text)
		}

		if _, isErr := callTool(t, client.handleLocateCard, map[string]interface{}{"session_id": sessionID}); !isErr {
			t.Error("Expected error without card")
		}
	})

	t.Run("move then rejected move", func(t *testing.T) {
		text, _ := callTool(t, client.handleMove, map[string]interface{}{
			"session_id": sessionID,
			"card":       "6S",
			"to":         "cell:0",
			"intent":     "free the diamonds",
		})
		if !strings.Contains(text, "✓ Move successful") {
			t.Fatalf("Expected success, got:\n%s", text)
		}
		if !strings.Contains(text, "Cells:       [6S] [--] [--] [--]") {
			t.Errorf("Expected 6S in the first cell, got:\n%s", text)
		}

		text, isErr := callTool(t, client.handleMove, map[string]interface{}{
			"session_id": sessionID,
			"card":       "9C",
			"from":       "cascade:1",
			"to":         "cell:0",
		})
		if isErr {
			t.Fatalf("A rejected move is not a tool error: %s", text)
		}
		if !strings.Contains(text, "✗ Move rejected (cell_occupied)") {
			t.Errorf("Expected cell_occupied, got:\n%s", text)
		}
	})

	t.Run("bulk_move", func(t *testing.T) {
		text, _ := callTool(t, client.handleBulkMove, map[string]interface{}{
			"session_id": sessionID,
			"moves": []interface{}{
				"3D>cell:1",
				map[string]interface{}{"card": "2C", "to": "cell:2"},
				"AC cascade:5>foundation:0",
			},
		})
		for _, content := range []string{"Executed 3/3 moves", "Sent home: 1 card(s)", "3. AC cascade:5 → foundation:0 ✓ (home)"} {
			if !strings.Contains(text, content) {
				t.Errorf("Expected %q in:\n%s", content, text)
			}
		}

		text, _ = callTool(t, client.handleBulkMove, map[string]interface{}{
			"session_id": sessionID,
			"moves":      []interface{}{"2H>foundation:1"},
		})
		if !strings.Contains(text, "Executed 0/1 moves") || !strings.Contains(text, "✗ foundation_needs_ace") {
			t.Errorf("Expected stop at foundation_needs_ace, got:\n%s", text)
		}

		if _, isErr := callTool(t, client.handleBulkMove, map[string]interface{}{
			"session_id": sessionID,
			"moves":      []interface{}{"nonsense"},
		}); !isErr {
			t.Error("Expected error for unparseable move")
		}
	})

	t.Run("describe_pile", func(t *testing.T) {
		text, isErr := callTool(t, client.handleDescribePile, map[string]interface{}{"session_id": sessionID, "pile": "foundation:0"})
		if isErr {
			t.Fatalf("describe_pile failed: %s", text)
		}
		for _, content := range []string{"Pile: foundation:0 (foundation rule)", "Top card: AC (black)", "Accepts: 2C", "Movable here now: 2C from cell:2"} {
			if !strings.Contains(text, content) {
				t.Errorf("Expected %q in:\n%s", content, text)
			}
		}

		if _, isErr := callTool(t, client.handleDescribePile, map[string]interface{}{"session_id": sessionID, "pile": "deck:0"}); !isErr {
			t.Error("Expected error for unknown pile")
		}
	})

	t.Run("move_history", func(t *testing.T) {
		text, _ := callTool(t, client.handleMoveHistory, map[string]interface{}{
			"session_id": sessionID,
			"order":      "asc",
			"limit":      float64(2),
		})
		if !strings.Contains(text, "1. 6S cascade:0 → cell:0 ✓") {
			t.Errorf("Expected first move in ascending history, got:\n%s", text)
		}
		if !strings.Contains(text, "2. 9C cascade:1 → cell:0 ✗ cell_occupied") {
			t.Errorf("Expected rejected attempt in history, got:\n%s", text)
		}
		if !strings.Contains(text, "More moves on page 2") {
			t.Errorf("Expected a next page hint, got:\n%s", text)
		}
	})

	t.Run("reset_game", func(t *testing.T) {
		text, _ := callTool(t, client.handleReset, map[string]interface{}{"session_id": sessionID})
		if !strings.Contains(text, "Game reset successfully") || !strings.Contains(text, "(0/52 home)") {
			t.Errorf("Expected a fresh table, got:\n%s", text)
		}
	})

	t.Run("new_deal", func(t *testing.T) {
		text, _ := callTool(t, client.handleNewDeal, map[string]interface{}{"session_id": sessionID, "seed": float64(617)})
		if !strings.Contains(text, "Dealt game #617") || !strings.Contains(text, "  6: 2D AS 3D 4D 2C JH") {
			t.Errorf("Expected deal #617, got:\n%s", text)
		}
	})

	t.Run("sessions and deals", func(t *testing.T) {
		text, _ := callTool(t, client.handleListSessions, nil)
		if !strings.Contains(text, "Active Sessions (1)") || !strings.Contains(text, sessionID) {
			t.Errorf("Expected the session listed, got:\n%s", text)
		}

		text, _ = callTool(t, client.handleGetSession, map[string]interface{}{"session_id": sessionID})
		if !strings.Contains(text, "Session: "+sessionID) {
			t.Errorf("Expected session details, got:\n%s", text)
		}

		if _, isErr := callTool(t, client.handleGetSession, map[string]interface{}{"session_id": "missing"}); !isErr {
			t.Error("Expected error for missing session")
		}

		text, _ = callTool(t, client.handleListDeals, nil)
		if !strings.Contains(text, "Classic (deal_id: classic)") {
			t.Errorf("Expected classic preset, got:\n%s", text)
		}
	})
}

func TestClient_ToolsOverJSONRPC(t *testing.T) {
	client := NewClient(newTestAPI(t).URL)

	response := client.GetMCPServer().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc": "2.0", "id": 1, "method": "tools/list"}`))
	data, err := json.Marshal(response)
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}

	for _, tool := range []string{
		"create_session", "list_sessions", "get_session", "game_state",
		"locate_card", "move", "bulk_move", "reset_game", "new_deal",
		"move_history", "list_deals", "game_instructions", "describe_pile",
	} {
		if !strings.Contains(string(data), `"name":"`+tool+`"`) {
			t.Errorf("Expected tool %s to be registered", tool)
		}
	}

	response = client.GetMCPServer().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc": "2.0", "id": 2, "method": "tools/call", "params": {"name": "create_session", "arguments": {"seed": 11982}}}`))
	data, err = json.Marshal(response)
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}
	if !strings.Contains(string(data), "Deal: seed:11982 (#11982)") {
		t.Errorf("Expected deal #11982 session, got %s", data)
	}
}
