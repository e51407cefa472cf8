// Package session provides live session storage for the simulator.
//
// A session owns one simulation driver, so clients can advance a game a few
// turns at a time and watch it between calls. Sessions live in memory only;
// a restart drops them.
//
// Session Identifiers:
//
// Generated IDs are the first 8 hex characters of a random UUID. Lookups are
// case-insensitive.
//
// Concurrency:
//
// The manager is safe for concurrent use. It guards its map only; callers
// that advance a session's driver serialise those calls themselves.
//
// Usage:
//
//	manager := session.NewManager(log, 1000)
//
//	sess, err := manager.Create("", "classic", preset, 0)
//	if err != nil {
//		return err
//	}
//	sess.Driver.StepN(10)
//
//	removed := manager.CleanupExpiredSessions(24 * time.Hour)
package session
