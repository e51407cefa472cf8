// Package service provides the business logic layer for the property trading simulator.
//
// The service package implements:
//   - One-shot simulations and batch tournaments
//   - Live sessions advanced a few turns at a time
//   - Preset resolution with per-request overrides
//   - Paginated event history
//
// Core Interfaces:
//
// GameService is the main service interface used by the HTTP API and the MCP
// tools. SessionManager stores live sessions and ConfigManager loads presets.
//
// Architecture:
//
// The service layer sits between the transports (HTTP/WebSocket/MCP) and the
// simulation driver. Every session owns its own driver and game, so sessions
// never share state. Calls on sessions are serialised by the service.
//
// Usage:
//
//	sessions := session.NewManager(log, 1000)
//	configs, _ := config.NewManager("configs")
//	svc := service.NewGameService(sessions, configs, log, service.DefaultLimits())
//
//	info, err := svc.CreateSession(ctx, service.GameRequest{ConfigName: "duel", Seed: 42})
//	if err != nil {
//		log.Fatal("create session", zap.Error(err))
//	}
//
//	steps, err := svc.Step(ctx, info.ID, 10)
//	final, err := svc.RunToEnd(ctx, info.ID)
package service
