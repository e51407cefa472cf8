// Package simulation drives engine games from start to finish.
//
// A Driver advances one player at a time: roll the die, move, settle rent and
// offer the purchase when the player is still standing. Simulate plays a
// single game; RunBatch plays many games on a bounded worker pool and
// aggregates the win rate of every strategy.
//
// All randomness of a game comes from one math/rand source seeded from
// Options.Seed. A zero seed is replaced by one drawn from crypto/rand and
// reported back so any run can be replayed.
package simulation
