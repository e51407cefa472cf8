package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
)

// Settings holds process-wide tunables read from the environment
type Settings struct {
	Host      string `env:"HOST" envDefault:"localhost"`
	Port      int    `env:"PORT" envDefault:"8080"`
	ConfigDir string `env:"CONFIG_DIR" envDefault:"configs"`

	Debug   bool `env:"PROPERTYGAME_DEBUG"`
	LogJSON bool `env:"PROPERTYGAME_LOG_JSON"`

	DefaultConfig    string `env:"PROPERTYGAME_DEFAULT_CONFIG" envDefault:"classic"`
	DefaultBoardSize int    `env:"PROPERTYGAME_BOARD_SIZE" envDefault:"20"`
	DefaultPlayers   int    `env:"PROPERTYGAME_PLAYERS" envDefault:"4"`

	MaxBatchGames   int `env:"PROPERTYGAME_MAX_BATCH_GAMES" envDefault:"10000"`
	BatchWorkers    int `env:"PROPERTYGAME_BATCH_WORKERS" envDefault:"0"`
	MaxStepsPerCall int `env:"PROPERTYGAME_MAX_STEPS" envDefault:"1000"`

	MaxSessions     int           `env:"PROPERTYGAME_MAX_SESSIONS" envDefault:"1000"`
	SessionTTL      time.Duration `env:"PROPERTYGAME_SESSION_TTL" envDefault:"24h"`
	CleanupInterval time.Duration `env:"PROPERTYGAME_CLEANUP_INTERVAL" envDefault:"1h"`

	NgrokEnabled   bool   `env:"NGROK_ENABLED"`
	NgrokAuthToken string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`
}

// LoadSettings parses Settings from the environment and validates them
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that the settings describe a playable setup
func (s Settings) Validate() error {
	if s.DefaultBoardSize < engine.MinBoardSize || s.DefaultBoardSize > engine.MaxBoardSize {
		return fmt.Errorf("%w: PROPERTYGAME_BOARD_SIZE must be between %d and %d, got %d",
			ErrInvalidConfig, engine.MinBoardSize, engine.MaxBoardSize, s.DefaultBoardSize)
	}
	if s.DefaultPlayers < engine.MinPlayers || s.DefaultPlayers > engine.MaxPlayers {
		return fmt.Errorf("%w: PROPERTYGAME_PLAYERS must be between %d and %d, got %d",
			ErrInvalidConfig, engine.MinPlayers, engine.MaxPlayers, s.DefaultPlayers)
	}
	if s.MaxBatchGames < 1 {
		return fmt.Errorf("%w: PROPERTYGAME_MAX_BATCH_GAMES must be positive", ErrInvalidConfig)
	}
	if s.MaxStepsPerCall < 1 {
		return fmt.Errorf("%w: PROPERTYGAME_MAX_STEPS must be positive", ErrInvalidConfig)
	}
	if s.SessionTTL <= 0 || s.CleanupInterval <= 0 {
		return fmt.Errorf("%w: session TTL and cleanup interval must be positive", ErrInvalidConfig)
	}
	return nil
}
