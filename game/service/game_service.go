package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/simulation"
)

// GameService defines all simulation operations
type GameService interface {
	// One-shot runs
	Simulate(ctx context.Context, req GameRequest) (*SimulateResponse, error)
	RunBatch(ctx context.Context, req BatchRequest) (*BatchResponse, error)

	// Session Management
	CreateSession(ctx context.Context, req GameRequest) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Step(ctx context.Context, sessionID string, n int) (*StepResponse, error)
	RunToEnd(ctx context.Context, sessionID string) (*StepResponse, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	GetResult(ctx context.Context, sessionID string) (*ResultResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
	ReloadConfigs(ctx context.Context, configName string) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, configID string, config *engine.GameConfig, seed int64) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Count() int
}

// ConfigManager handles preset loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	DefaultName() string
	SaveConfig(name string, config *engine.GameConfig) error
	ReloadConfig(name string) error
	RefreshCache()
}

// Session represents a live game advanced step by step
type Session struct {
	ID             string
	ConfigID       string
	Config         *engine.GameConfig
	Driver         *simulation.Driver
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
