package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GameConfig is a named simulation setup loaded from a JSON preset
type GameConfig struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	BoardSize   int      `json:"board_size"`
	Players     int      `json:"players"`
	Strategies  []string `json:"strategies,omitempty"`
	// Prices fixes the board layout; when set it overrides BoardSize.
	Prices []int `json:"prices,omitempty"`
}

// DefaultGameConfig returns the classic four-player setup
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:        "classic",
		Description: "Classic table: 20 properties, one player per strategy",
		BoardSize:   20,
		Players:     4,
		Strategies:  StrategyNames(),
	}
}

// EffectiveBoardSize returns the number of tiles a game built from this config will have
func (c *GameConfig) EffectiveBoardSize() int {
	if len(c.Prices) > 0 {
		return len(c.Prices)
	}
	return c.BoardSize
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if config.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidConfig)
	}

	size := config.EffectiveBoardSize()
	if size < MinBoardSize || size > MaxBoardSize {
		return fmt.Errorf("%w: board_size must be between %d and %d, got %d", ErrInvalidConfig, MinBoardSize, MaxBoardSize, size)
	}
	for i, price := range config.Prices {
		if price <= 0 {
			return fmt.Errorf("%w: prices[%d] must be positive, got %d", ErrInvalidConfig, i, price)
		}
	}

	if config.Players < MinPlayers || config.Players > MaxPlayers {
		return fmt.Errorf("%w: players must be between %d and %d, got %d", ErrInvalidConfig, MinPlayers, MaxPlayers, config.Players)
	}

	for _, name := range config.Strategies {
		if _, err := CanonicalStrategyName(name); err != nil {
			return err
		}
	}

	return nil
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %v", filepath.Base(filename), err)
	}

	if config.Name == "" {
		config.Name = strings.TrimSuffix(filepath.Base(filename), ".json")
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
