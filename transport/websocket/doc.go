// Package websocket pushes live game snapshots to renderers.
//
// A central Hub tracks the connections subscribed to each session. Clients
// connect with ?session=<id> and receive a JSON Message after every step or
// run on that session:
//
//	{"session_id": "1a2b3c4d", "event": "state_update", "snapshot": {...}}
//
// Renderers are read-only; frames sent by clients are discarded. Clients that
// cannot keep up are disconnected.
//
// Usage:
//
//	hub := websocket.NewHub(log)
//	go hub.Run(ctx)
//
//	hub.BroadcastToSession(id, game.Snapshot())
package websocket
