// Package api provides the HTTP REST API of the property game simulator.
//
// Endpoints:
//
// Simulation:
//   - GET /api/simulate - Play one game to completion (config, board_size, players, seed, strategies)
//   - POST /api/batch - Play many games concurrently and report win rates per strategy
//   - GET /jogo/simular - Legacy alias (qtd_casas, jogadores) returning the bare result
//
// Session Management:
//   - POST /api/sessions - Create a session (config_id, board_size, players, strategies, seed)
//   - GET /api/sessions - List sessions (sort=created|accessed, order, limit)
//   - GET /api/sessions/{id} - Get a session with its current snapshot
//   - DELETE /api/sessions/{id} - Delete a session
//
// Stepping:
//   - POST /api/sessions/{id}/step - Play n turns (body {"n": 5} or ?n=5, default 1)
//   - POST /api/sessions/{id}/run - Play until the game ends
//   - GET /api/sessions/{id}/state - Current snapshot
//   - GET /api/sessions/{id}/history - Paged event log (page, limit, order)
//   - GET /api/sessions/{id}/result - Result and standings
//
// Configuration:
//   - GET /api/configs - List presets
//   - GET /api/configs/{name} - Get a preset
//   - POST /api/configs - Save a preset
//   - POST /api/configs/reload - Reread presets from disk (?name= for one)
//
// Every step and run is pushed to renderers subscribed on /ws?session={id}.
//
// Errors are returned as JSON:
//
//	{"error": "session \"abc\": session not found"}
//
// Invalid input maps to 400, unknown sessions and presets to 404, and a full
// session table to 503.
package api
