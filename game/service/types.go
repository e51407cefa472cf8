package service

import (
	"errors"
	"time"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/simulation"
)

// ErrInvalidRequest marks requests rejected before reaching the engine
var ErrInvalidRequest = errors.New("invalid request")

// GameRequest selects a preset and optional overrides for a game
type GameRequest struct {
	ConfigName string   `json:"config,omitempty"`
	BoardSize  int      `json:"board_size,omitempty"`
	Players    int      `json:"players,omitempty"`
	Strategies []string `json:"strategies,omitempty"`
	Seed       int64    `json:"seed,omitempty"`
}

// BatchRequest asks for a tournament of independent games
type BatchRequest struct {
	GameRequest
	Games   int `json:"games"`
	Workers int `json:"workers,omitempty"`
}

// SimulateResponse is a single finished game
type SimulateResponse struct {
	ConfigID string `json:"config_id"`
	simulation.Outcome
}

// BatchResponse is the aggregated report of a batch
type BatchResponse struct {
	ConfigID string `json:"config_id"`
	*simulation.BatchReport
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigID       string             `json:"config_id"`
	Seed           int64              `json:"seed"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameConfig     *engine.GameConfig `json:"game_config"`
	Snapshot       engine.Snapshot    `json:"snapshot"`
}

// StepResponse contains the turns applied by a step call
type StepResponse struct {
	SessionID string                  `json:"session_id"`
	Requested int                     `json:"requested"`
	Applied   int                     `json:"applied"`
	Truncated bool                    `json:"truncated,omitempty"`
	Limit     int                     `json:"limit,omitempty"`
	Steps     []simulation.StepResult `json:"steps"`
	Finished  bool                    `json:"finished"`
	Result    *engine.Result          `json:"result,omitempty"`
	Snapshot  engine.Snapshot         `json:"snapshot"`
}

// ResultResponse reports the outcome of a session's game
type ResultResponse struct {
	SessionID string            `json:"session_id"`
	Finished  bool              `json:"finished"`
	Result    engine.Result     `json:"result"`
	Standings []engine.Standing `json:"standings"`
}

// HistoryOptions configures event history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains a page of game events
type HistoryResponse struct {
	Events      []engine.Event `json:"events"`
	TotalEvents int            `json:"total_events"`
	Page        int            `json:"page"`
	PageSize    int            `json:"page_size"`
	TotalPages  int            `json:"total_pages"`
	HasNext     bool           `json:"has_next"`
	HasPrevious bool           `json:"has_previous"`
}

// ConfigInfo provides information about a simulation preset
type ConfigInfo struct {
	Filename    string   `json:"filename"`
	ConfigID    string   `json:"config_id"` // The identifier to use for session creation
	Name        string   `json:"name"`
	Description string   `json:"description"`
	BoardSize   int      `json:"board_size"`
	Players     int      `json:"players"`
	Strategies  []string `json:"strategies"`
}

// Limits bounds the work a single request may ask for
type Limits struct {
	MaxBatchGames   int
	BatchWorkers    int
	MaxStepsPerCall int
}

// DefaultLimits mirrors the settings defaults
func DefaultLimits() Limits {
	return Limits{
		MaxBatchGames:   10000,
		MaxStepsPerCall: 1000,
	}
}
