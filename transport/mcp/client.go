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

	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/service"
	"github.com/wricardo/mcp-training/propertygame/game/simulation"
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
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Property Game Simulator",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Property Game Simulator - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Players with fixed purchase strategies roll a die around a ring of properties,
buy, pay rent and go bankrupt. The last solvent player wins; after 1000 rounds
the richest player wins.

AVAILABLE TOOLS:
- simulate: Play one full game and get the result
- run_batch: Play many games and compare strategy win rates
- create_session: Create a game you can step through turn by turn
- step_session: Play n turns of a session
- run_session: Play a session to the end
- session_state: Board, balances and positions of a session
- session_history: Paged event log of a session
- session_result: Winner and standings of a session
- get_session / list_sessions / delete_session: Session management
- list_configs: List game presets
- game_rules: Full rules and strategy descriptions`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// gameProperties are the overrides shared by simulate, run_batch and create_session
func gameProperties() map[string]interface{} {
	return map[string]interface{}{
		"config": map[string]interface{}{
			"type":        "string",
			"description": "Preset name (optional, defaults to classic)",
		},
		"board_size": map[string]interface{}{
			"type":        "integer",
			"description": "Number of properties on the board (optional)",
		},
		"players": map[string]interface{}{
			"type":        "integer",
			"description": "Number of players (optional)",
		},
		"strategies": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "string",
				"enum": engine.StrategyNames(),
			},
			"description": "Strategies assigned round-robin to the players (optional)",
		},
		"seed": map[string]interface{}{
			"type":        "integer",
			"description": "Random seed for a reproducible game (optional)",
		},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Simulation
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "simulate",
		Description: "Play one complete game and return the winner, standings and round count",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: gameProperties(),
		},
	}, c.handleSimulate)

	batchProperties := gameProperties()
	batchProperties["games"] = map[string]interface{}{
		"type":        "integer",
		"description": "Number of games to play",
	}
	batchProperties["workers"] = map[string]interface{}{
		"type":        "integer",
		"description": "Concurrent workers (optional)",
	}
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_batch",
		Description: "Play many independent games and report win rates per strategy",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: batchProperties,
			Required:   []string{"games"},
		},
	}, c.handleRunBatch)

	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session that can be stepped turn by turn",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: gameProperties(),
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

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a game session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleDeleteSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "step_session",
		Description: "Play the next n turns of a session (default 1)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"n": map[string]interface{}{
					"type":        "integer",
					"description": "Number of turns to play",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleStep)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_session",
		Description: "Play a session until the game ends",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleRun)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "session_state",
		Description: "Get the current board, balances and positions of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "session_history",
		Description: "Get the event log of a session",
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
					"description": "Events per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest first (asc) or newest first (desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "session_result",
		Description: "Get the winner and standings of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleResult)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Get the complete game rules and strategy descriptions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameRules)
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

func sessionPath(args map[string]interface{}, suffix string) (string, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix, nil
}

func intArg(args map[string]interface{}, name string) int {
	if v, ok := args[name].(float64); ok {
		return int(v)
	}
	return 0
}

// gameRequestFromArgs maps tool arguments onto a service request
func gameRequestFromArgs(args map[string]interface{}) service.GameRequest {
	req := service.GameRequest{
		BoardSize: intArg(args, "board_size"),
		Players:   intArg(args, "players"),
	}
	req.ConfigName, _ = args["config"].(string)
	if seed, ok := args["seed"].(float64); ok {
		req.Seed = int64(seed)
	}
	if raw, ok := args["strategies"].([]interface{}); ok {
		for _, s := range raw {
			if name, ok := s.(string); ok {
				req.Strategies = append(req.Strategies, name)
			}
		}
	}
	return req
}

// gameQuery encodes a request as /api/simulate query parameters
func gameQuery(req service.GameRequest) string {
	values := url.Values{}
	if req.ConfigName != "" {
		values.Set("config", req.ConfigName)
	}
	if req.BoardSize != 0 {
		values.Set("board_size", fmt.Sprint(req.BoardSize))
	}
	if req.Players != 0 {
		values.Set("players", fmt.Sprint(req.Players))
	}
	if req.Seed != 0 {
		values.Set("seed", fmt.Sprint(req.Seed))
	}
	if len(req.Strategies) > 0 {
		values.Set("strategies", strings.Join(req.Strategies, ","))
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// Tool handlers

func (c *Client) handleSimulate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := gameRequestFromArgs(request.GetArguments())

	var response service.SimulateResponse
	if err := c.apiCall(ctx, "GET", "/api/simulate"+gameQuery(req), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Simulation (config: %s, seed: %d, board: %d properties)\n\n",
		response.ConfigID, response.Seed, response.BoardSize)
	result += formatResult(&response.Result)
	result += "\n" + formatStandings(response.Standings)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleRunBatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	body := service.BatchRequest{
		GameRequest: gameRequestFromArgs(args),
		Games:       intArg(args, "games"),
		Workers:     intArg(args, "workers"),
	}

	var response service.BatchResponse
	if err := c.apiCall(ctx, "POST", "/api/batch", body, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBatch(&response)), nil
}

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := gameRequestFromArgs(request.GetArguments())

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nSeed: %d\n\n%s",
		session.ID, session.ConfigID, session.Seed, formatSnapshot(&session.Snapshot))
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

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := fmt.Sprintf("round %d", s.Snapshot.Round)
		if s.Snapshot.Finished {
			status = "finished"
		}
		result += fmt.Sprintf("- %s (Config: %s, %s, Created: %s)\n",
			s.ID, s.ConfigID, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request.GetArguments(), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", path, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request.GetArguments(), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := c.apiCall(ctx, "DELETE", path, nil, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Session deleted"), nil
}

func (c *Client) handleStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	path, err := sessionPath(args, "/step")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	n := intArg(args, "n")
	if n == 0 {
		n = 1
	}

	var response service.StepResponse
	if err := c.apiCall(ctx, "POST", path, map[string]int{"n": n}, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatStepResponse(&response)), nil
}

func (c *Client) handleRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request.GetArguments(), "/run")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response service.StepResponse
	if err := c.apiCall(ctx, "POST", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatStepResponse(&response)), nil
}

func (c *Client) handleState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request.GetArguments(), "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var snapshot engine.Snapshot
	if err := c.apiCall(ctx, "GET", path, nil, &snapshot); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSnapshot(&snapshot)), nil
}

func (c *Client) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	path, err := sessionPath(args, "/history")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	values := url.Values{}
	if page := intArg(args, "page"); page > 0 {
		values.Set("page", fmt.Sprint(page))
	}
	if limit := intArg(args, "limit"); limit > 0 {
		values.Set("limit", fmt.Sprint(limit))
	}
	if order, _ := args["order"].(string); order != "" {
		values.Set("order", order)
	}
	if len(values) > 0 {
		path += "?" + values.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleResult(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request.GetArguments(), "/result")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response service.ResultResponse
	if err := c.apiCall(ctx, "GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := ""
	if !response.Finished {
		result = "Game still in progress, provisional ranking:\n\n"
	}
	result += formatResult(&response.Result) + "\n" + formatStandings(response.Standings)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		strategies := "round-robin default"
		if len(config.Strategies) > 0 {
			strategies = strings.Join(config.Strategies, ", ")
		}
		result += fmt.Sprintf("• %s\n  %s\n  Board: %d properties, Players: %d, Strategies: %s\n\n",
			config.ConfigID, config.Description, config.BoardSize, config.Players, strategies)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameRules()), nil
}

func gameRules() string {
	return fmt.Sprintf(`Property Game - Rules

SETUP:
• The board is a ring of properties, each with a price between %d and %d
• Rent is %d%% of the price
• Every player starts on property 0 with a balance of %d
• Turn order is shuffled once at the start

TURN:
1. Roll a %d-sided die and advance around the ring
2. Wrapping past the end of the ring pays a lap bonus of %d
3. Landing on another player's property pays its rent to the owner
4. A player whose balance drops below zero is eliminated and their properties return to the bank
5. Landing on a free property offers it for sale; the strategy decides whether to buy

STRATEGIES:
• impulsive - buys every property it can afford
• demanding - buys only when the rent exceeds %d
• cautious - buys only when at least %d remains after paying
• random - buys with probability 50%%

GAME END:
• The last active player wins
• After %d turns the richest active player wins; ties go to the earlier player in turn order

Aliases impulsivo, exigente, cauteloso and aleatorio are accepted for the strategies.
Use a seed to replay the exact same game.`,
		engine.MinPrice, engine.MaxPrice, engine.RentPercent, engine.StartingBalance,
		engine.DieFaces, engine.LapBonus, engine.DemandingMinRent, engine.CautiousReserve,
		engine.MaxRounds)
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nSeed: %d\nCreated: %s\nLast accessed: %s\n\n%s",
		session.ID, session.ConfigID, session.Seed,
		session.CreatedAt.Format(time.RFC3339), session.LastAccessedAt.Format(time.RFC3339),
		formatSnapshot(&session.Snapshot))
}

func formatSnapshot(snapshot *engine.Snapshot) string {
	if snapshot == nil {
		return "State: unavailable"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Round: %d/%d\n", snapshot.Round, engine.MaxRounds)

	if snapshot.Finished {
		if snapshot.TerminatedByTimeout {
			fmt.Fprintf(&b, "🏁 FINISHED by round limit, winner: %s\n", snapshot.Winner)
		} else {
			fmt.Fprintf(&b, "🏁 FINISHED, winner: %s\n", snapshot.Winner)
		}
	}

	order := make([]string, len(snapshot.TurnOrder))
	for i, id := range snapshot.TurnOrder {
		order[i] = fmt.Sprint(id)
	}
	fmt.Fprintf(&b, "Turn order: %s\n\nPlayers:\n", strings.Join(order, " → "))

	for _, p := range snapshot.Players {
		status := "active"
		if !p.Active {
			status = "💀 eliminated"
		}
		fmt.Fprintf(&b, "  #%d %-9s balance=%d position=%d properties=%d %s\n",
			p.ID, p.Strategy, p.Balance, p.Position, len(p.Holdings), status)
	}

	owned := 0
	for _, property := range snapshot.Properties {
		if property.OwnerID != 0 {
			owned++
		}
	}
	fmt.Fprintf(&b, "\nBoard: %d properties, %d owned\n", len(snapshot.Properties), owned)

	return b.String()
}

func formatResult(result *engine.Result) string {
	finish := "last player standing"
	if result.TerminatedByTimeout {
		finish = "round limit"
	}
	return fmt.Sprintf("Winner: %s\nRounds: %d\nFinished by: %s\nRanking: %s\n",
		result.Winner, result.Rounds, finish, strings.Join(result.Players, ", "))
}

func formatStandings(standings []engine.Standing) string {
	if len(standings) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Standings:\n")
	for _, s := range standings {
		fmt.Fprintf(&b, "%d. #%d %s balance=%d properties=%d\n",
			s.Place, s.PlayerID, s.Strategy, s.Balance, s.Holdings)
	}
	return b.String()
}

func formatStepResponse(response *service.StepResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Turns played: %d", response.Applied)
	if response.Truncated {
		fmt.Fprintf(&b, " (requested %d, limited to %d per call)", response.Requested, response.Limit)
	}
	b.WriteString("\n\n")

	for _, step := range response.Steps {
		b.WriteString(formatStepLine(step))
	}
	if len(response.Steps) > 0 {
		b.WriteString("\n")
	}

	if response.Finished && response.Result != nil {
		b.WriteString(formatResult(response.Result))
		b.WriteString("\n")
	}
	b.WriteString(formatSnapshot(&response.Snapshot))
	return b.String()
}

func formatStepLine(step simulation.StepResult) string {
	var flags []string
	if step.Purchased {
		flags = append(flags, "bought")
	}
	if step.Eliminated {
		flags = append(flags, "eliminated")
	}
	if step.Finished {
		flags = append(flags, "game over")
	}
	line := fmt.Sprintf("r%d #%d %s rolled %d: %d→%d balance=%d",
		step.Round, step.PlayerID, step.Strategy, step.Dice, step.From, step.To, step.Balance)
	if len(flags) > 0 {
		line += " [" + strings.Join(flags, ", ") + "]"
	}
	return line + "\n"
}

func formatBatch(response *service.BatchResponse) string {
	if response.BatchReport == nil {
		return "Batch: no report"
	}
	report := response.BatchReport

	var b strings.Builder
	fmt.Fprintf(&b, "Batch of %d games (config: %s, seed: %d, %dms)\n\n",
		report.Games, response.ConfigID, report.Seed, report.DurationMs)
	b.WriteString("Win rates:\n")
	for _, s := range report.Strategies {
		fmt.Fprintf(&b, "  %-9s %6.2f%% (%d wins / %d seats)\n", s.Strategy, s.WinRate*100, s.Wins, s.Seats)
	}
	fmt.Fprintf(&b, "\nRounds: avg %.1f, min %d, max %d\nTimeouts: %d\n",
		report.AverageRounds, report.MinRounds, report.MaxRounds, report.Timeouts)
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Event History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalEvents)

	for _, event := range history.Events {
		result += fmt.Sprintf("%d. [r%d %s] %s\n", event.Seq, event.Round, event.Type, event.Message)
	}

	return result
}
