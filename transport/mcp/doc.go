// Package mcp exposes the simulator to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call is translated into a request
// against the REST API and the JSON response is rendered as text.
//
// MCP Tools:
//   - simulate: Play one full game
//   - run_batch: Play many games and report win rates per strategy
//   - create_session, get_session, list_sessions, delete_session: Session management
//   - step_session, run_session: Advance a session turn by turn or to the end
//   - session_state, session_history, session_result: Inspect a session
//   - list_configs: List presets
//   - game_rules: Rules and strategy descriptions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
