package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"gameroom/game/engine"
	"gameroom/game/service"
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
		baseURL: baseURL,
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
		"Game Room Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Game Room Server - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Two games run on top of the same rooms:
- A 21-variant card game: hit or stand toward 21, aces always count 1.
- A memory color game: repeat the accepted color sequence and extend it by one.

Every tool takes a user_id identifying the acting player.

AVAILABLE TOOLS:
- create_room / join_room / list_rooms / get_room: room boilerplate
- start_room: begin the room's memory color game
- create_game: create a card game for a room
- start_round: deal a round of the card game
- hit / stand: card game actions for the player on turn
- continue_round: vote on playing another round after one ends
- cancel_game: end a game outright
- current: the player-facing view of the live round
- submit_turn / add_color / list_turns: memory color game turns
- list_presets: available table presets
- game_instructions: full rules for both games`),
	)

	// Register all tools
	c.registerTools()
}

func userProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "ID of the acting user",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Room boilerplate
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_room",
		Description: "Create a new room with an optional table preset",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userProperty(),
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Display name for the room",
				},
				"preset": map[string]interface{}{
					"type":        "string",
					"description": "Table preset to use (optional)",
				},
			},
			Required: []string{"user_id", "name"},
		},
	}, c.handleCreateRoom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List rooms waiting for players",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_room",
		Description: "Get details of a specific room",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "Room ID to retrieve",
				},
			},
			Required: []string{"room_id"},
		},
	}, c.handleGetRoom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "join_room",
		Description: "Take a seat in a waiting room",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userProperty(),
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "Room to join",
				},
			},
			Required: []string{"user_id", "room_id"},
		},
	}, c.handleJoinRoom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_room",
		Description: "Start the room's memory color game (host only, needs at least two seated players)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userProperty(),
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "Room to start",
				},
			},
			Required: []string{"user_id", "room_id"},
		},
	}, c.handleStartRoom)

	// Card game
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_game",
		Description: "Create a card game for a room",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userProperty(),
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "Room the game belongs to",
				},
			},
			Required: []string{"user_id", "room_id"},
		},
	}, c.handleCreateGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_round",
		Description: "Deal a new round to the room's seated players",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userProperty(),
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
			},
			Required: []string{"user_id", "game_id"},
		},
	}, c.handleStartRound)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "hit",
		Description: "Draw one card. Only the player on turn can hit; busting over 21 ends your hand",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userProperty(),
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
			},
			Required: []string{"user_id", "game_id"},
		},
	}, c.handleHit)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "stand",
		Description: "Keep your hand and pass the turn",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userProperty(),
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
			},
			Required: []string{"user_id", "game_id"},
		},
	}, c.handleStand)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "continue_round",
		Description: "Vote on continuing after a round ends. One 'no' ends the game; unanimous 'yes' deals the next round",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userProperty(),
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"continue": map[string]interface{}{
					"type":        "boolean",
					"description": "True to play another round",
				},
			},
			Required: []string{"user_id", "game_id", "continue"},
		},
	}, c.handleContinueRound)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "cancel_game",
		Description: "Cancel a game outright",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userProperty(),
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
			},
			Required: []string{"user_id", "game_id"},
		},
	}, c.handleCancelGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "current",
		Description: "Get the player-facing view of the game's live round",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userProperty(),
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
			},
			Required: []string{"user_id", "game_id"},
		},
	}, c.handleCurrent)

	// Memory color game
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "submit_turn",
		Description: "Submit your reproduction of the accepted color sequence plus one new color. A wrong submission forfeits the game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userProperty(),
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"input": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x":    map[string]interface{}{"type": "integer"},
							"y":    map[string]interface{}{"type": "integer"},
							"code": map[string]interface{}{"type": "string"},
						},
					},
					"description": "The full submitted color sequence",
				},
			},
			Required: []string{"user_id", "game_id", "input"},
		},
	}, c.handleSubmitTurn)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "add_color",
		Description: "Confirm your pending turn: append its new tail color to the accepted sequence",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userProperty(),
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"color": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"x":    map[string]interface{}{"type": "integer"},
						"y":    map[string]interface{}{"type": "integer"},
						"code": map[string]interface{}{"type": "string"},
					},
					"description": "The new tail color",
				},
			},
			Required: []string{"user_id", "game_id", "color"},
		},
	}, c.handleAddColor)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_turns",
		Description: "List a memory color game's turns in order",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleListTurns)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_presets",
		Description: "List available table presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPresets)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the full rules for both games",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path, userID string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
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

func toolArgs(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

// parseColor converts a tool argument into an engine color.
func parseColor(raw interface{}) engine.Color {
	m, _ := raw.(map[string]interface{})
	x, _ := m["x"].(float64)
	y, _ := m["y"].(float64)
	code, _ := m["code"].(string)
	return engine.Color{X: int(x), Y: int(y), Code: code}
}

// Tool handlers

func (c *Client) handleCreateRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	userID, _ := args["user_id"].(string)
	name, _ := args["name"].(string)
	preset, _ := args["preset"].(string)

	body := map[string]string{"name": name}
	if preset != "" {
		body["preset"] = preset
	}

	var room service.Room
	if err := c.apiCall("POST", "/api/rooms", userID, body, &room); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRoom(&room)), nil
}

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int             `json:"count"`
		Rooms []*service.Room `json:"rooms"`
	}
	if err := c.apiCall("GET", "/api/rooms", "", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Waiting Rooms (%d):\n\n", response.Count)
	for _, r := range response.Rooms {
		result += fmt.Sprintf("- %s %q (host: %s, seats: %d, created: %s)\n",
			r.ID, r.Name, r.HostID, r.MaxSeats, r.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	roomID, _ := args["room_id"].(string)

	var room service.Room
	if err := c.apiCall("GET", "/api/rooms/"+roomID, "", nil, &room); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRoom(&room)), nil
}

func (c *Client) handleJoinRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	userID, _ := args["user_id"].(string)
	roomID, _ := args["room_id"].(string)

	var room service.Room
	if err := c.apiCall("POST", "/api/rooms/"+roomID+"/join", userID, nil, &room); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Joined room %s\n\n%s", roomID, formatRoom(&room))), nil
}

func (c *Client) handleStartRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	userID, _ := args["user_id"].(string)
	roomID, _ := args["room_id"].(string)

	var game service.Game
	if err := c.apiCall("POST", "/api/rooms/"+roomID+"/start", userID, nil, &game); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Memory color game started.\nGame: %s\nRoom: %s\nThe accepted sequence is empty; the host owns turn #1.",
		game.ID, game.RoomID)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleCreateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	userID, _ := args["user_id"].(string)
	roomID, _ := args["room_id"].(string)

	var game service.Game
	if err := c.apiCall("POST", "/api/rooms/"+roomID+"/games", userID, nil, &game); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created game: %s\nRoom: %s\nStatus: %s", game.ID, game.RoomID, game.Status)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleStartRound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	userID, _ := args["user_id"].(string)
	gameID, _ := args["game_id"].(string)

	if err := c.apiCall("POST", "/api/games/"+gameID+"/rounds", userID, nil, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Show the fresh round right away.
	return c.fetchSnapshot(gameID, userID, "Round started.\n\n")
}

func (c *Client) handleHit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.handleAction(request, "hit")
}

func (c *Client) handleStand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.handleAction(request, "stand")
}

func (c *Client) handleAction(request mcp.CallToolRequest, action string) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	userID, _ := args["user_id"].(string)
	gameID, _ := args["game_id"].(string)

	var outcome engine.TurnOutcome
	if err := c.apiCall("POST", "/api/games/"+gameID+"/"+action, userID, nil, &outcome); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTurnOutcome(action, &outcome)), nil
}

func (c *Client) handleContinueRound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	userID, _ := args["user_id"].(string)
	gameID, _ := args["game_id"].(string)
	cont, _ := args["continue"].(bool)

	var response struct {
		Outcome engine.VoteOutcome `json:"outcome"`
	}
	body := map[string]bool{"continue": cont}
	if err := c.apiCall("POST", "/api/games/"+gameID+"/continue", userID, body, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result string
	switch response.Outcome {
	case engine.VoteStarted:
		result = "All players voted to continue. A new round was dealt."
	case engine.VoteEnded:
		result = "A player declined. The game has ended."
	default:
		result = "Vote recorded. Waiting for the remaining players."
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleCancelGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	userID, _ := args["user_id"].(string)
	gameID, _ := args["game_id"].(string)

	if err := c.apiCall("POST", "/api/games/"+gameID+"/cancel", userID, nil, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Game %s canceled", gameID)), nil
}

func (c *Client) handleCurrent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	userID, _ := args["user_id"].(string)
	gameID, _ := args["game_id"].(string)

	return c.fetchSnapshot(gameID, userID, "")
}

func (c *Client) fetchSnapshot(gameID, userID, prefix string) (*mcp.CallToolResult, error) {
	var snap service.RoundSnapshot
	if err := c.apiCall("GET", "/api/games/"+gameID+"/current", userID, nil, &snap); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(prefix + formatSnapshot(&snap)), nil
}

func (c *Client) handleSubmitTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	userID, _ := args["user_id"].(string)
	gameID, _ := args["game_id"].(string)
	inputRaw, _ := args["input"].([]interface{})

	input := make([]engine.Color, 0, len(inputRaw))
	for _, raw := range inputRaw {
		input = append(input, parseColor(raw))
	}

	var turn engine.SequenceTurn
	body := map[string]interface{}{"input": input}
	if err := c.apiCall("POST", "/api/games/"+gameID+"/turns", userID, body, &turn); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !turn.Correct {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Turn #%d did not match the accepted sequence. You forfeited the game.", turn.TurnNumber)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Turn #%d matched. Confirm it with add_color to extend the accepted sequence.", turn.TurnNumber)), nil
}

func (c *Client) handleAddColor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	userID, _ := args["user_id"].(string)
	gameID, _ := args["game_id"].(string)

	body := map[string]interface{}{"color": parseColor(args["color"])}
	if err := c.apiCall("POST", "/api/games/"+gameID+"/colors", userID, body, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Color accepted. The sequence grew by one; it's the next player's turn."), nil
}

func (c *Client) handleListTurns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	gameID, _ := args["game_id"].(string)

	var response struct {
		Count int                    `json:"count"`
		Turns []*engine.SequenceTurn `json:"turns"`
	}
	if err := c.apiCall("GET", "/api/games/"+gameID+"/turns", "", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Turns (%d):\n\n", response.Count)
	for _, t := range response.Turns {
		status := "pending"
		if t.Finished {
			status = "finished"
		}
		if !t.Correct {
			status = "WRONG"
		}
		fmt.Fprintf(&b, "#%d by %s — %d colors, %s\n", t.TurnNumber, t.PlayerID, len(t.Input), status)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var presets []*service.PresetInfo
	if err := c.apiCall("GET", "/api/presets", "", nil, &presets); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Presets:\n\n"
	for _, p := range presets {
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Seats: %d, Colors: %d\n\n",
			p.Name, p.PresetID, p.Description, p.MaxSeats, p.Colors)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Game Room Server - Rules

ROOMS:
Players gather in rooms. The creator is the host and takes seat 0; later
joiners take seats in join order. Rooms seat a limited number of players set
by the table preset.

CARD GAME (21 variant):
- Card values run 1 through 13: ace is always 1, jack 11, queen 12, king 13.
- Each player is dealt two cards from a shuffled 52-card deck.
- On your turn: hit to draw one card, or stand to keep your hand.
- Going over 21 busts your hand. Hitting exactly 21 on two cards wins the
  round on the spot.
- When everyone is stood or busted, the highest non-busted score wins;
  ties share the win.
- After a round, every seated player votes with continue_round. A single
  "no" ends the game; a unanimous "yes" deals the next round.

MEMORY COLOR GAME:
- The room keeps an accepted color sequence, starting empty.
- On your turn, submit_turn with the whole accepted sequence plus exactly
  one new color of your choosing.
- A submission that does not reproduce the accepted sequence forfeits the
  game to your opponent immediately.
- A correct submission is confirmed with add_color, which appends the new
  color to the accepted sequence. The color must come from the room's
  palette.
- Turn numbers start at 1; the host owns the first (empty) turn.

IDENTITY:
Every tool takes user_id. Use the same user_id you joined the room with.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatRoom(room *service.Room) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Room: %s\nName: %s\nHost: %s\nStatus: %s\nSeats: %d\n",
		room.ID, room.Name, room.HostID, room.Status, room.MaxSeats)
	if len(room.Palette) > 0 {
		b.WriteString("Palette:")
		for _, c := range room.Palette {
			fmt.Fprintf(&b, " %s(%d,%d)", c.Code, c.X, c.Y)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatHand(hand []engine.Card) string {
	parts := make([]string, len(hand))
	for i, card := range hand {
		parts[i] = fmt.Sprintf("%s%s", card.Rank, suitSymbol(card.Suit))
	}
	return strings.Join(parts, " ")
}

func suitSymbol(s engine.Suit) string {
	switch s {
	case engine.Spades:
		return "♠"
	case engine.Hearts:
		return "♥"
	case engine.Diamonds:
		return "♦"
	case engine.Clubs:
		return "♣"
	default:
		return "?"
	}
}

func formatTurnOutcome(action string, outcome *engine.TurnOutcome) string {
	var b strings.Builder
	p := outcome.Player

	if outcome.Dealt != nil {
		fmt.Fprintf(&b, "You drew %s%s.\n", outcome.Dealt.Rank, suitSymbol(outcome.Dealt.Suit))
	} else {
		fmt.Fprintf(&b, "You %s.\n", action)
	}
	fmt.Fprintf(&b, "Hand: %s (%d points, %s)\n", formatHand(p.Hand), p.Points, p.State)

	if outcome.RoundEnded {
		if len(outcome.Winners) > 0 {
			fmt.Fprintf(&b, "Round over. Winners: %s\n", strings.Join(outcome.Winners, ", "))
		} else {
			b.WriteString("Round over. Everyone busted; no winner.\n")
		}
		b.WriteString("Vote with continue_round to play another round.")
	} else {
		fmt.Fprintf(&b, "Next to act: seat %d", outcome.NextSeat)
	}
	return b.String()
}

func formatSnapshot(snap *service.RoundSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Game: %s (%s)\n", snap.GameID, snap.GameStatus)
	if snap.RoundID == "" {
		b.WriteString("No round dealt yet.")
		return b.String()
	}
	fmt.Fprintf(&b, "Round: %s (%s)\n", snap.RoundID, snap.RoundStatus)
	fmt.Fprintf(&b, "Deck remaining: %d cards\n", snap.DeckRemaining)
	if snap.RoundStatus == engine.RoundInProgress {
		fmt.Fprintf(&b, "On turn: seat %d\n", snap.TurnSeatIndex)
	}

	b.WriteString("\nPlayers:\n")
	for _, p := range snap.Players {
		marker := " "
		if snap.RoundStatus == engine.RoundInProgress && p.SeatIndex == snap.TurnSeatIndex {
			marker = ">"
		}
		win := ""
		if p.Winner {
			win = " WINNER"
		}
		fmt.Fprintf(&b, "%s seat %d %s: %s (%d, %s)%s\n",
			marker, p.SeatIndex, p.UserID, formatHand(p.Hand), p.Points, p.State, win)
	}

	if snap.You != nil {
		fmt.Fprintf(&b, "\nYour hand: %s (%d points, %s)\n",
			formatHand(snap.You.Hand), snap.You.Points, snap.You.State)
	}
	return b.String()
}
