package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	if s.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", s.Port)
	}
	if s.DefaultBoardSize != 20 || s.DefaultPlayers != 4 {
		t.Errorf("Expected 20 tiles and 4 players, got %d and %d", s.DefaultBoardSize, s.DefaultPlayers)
	}
	if s.SessionTTL != 24*time.Hour {
		t.Errorf("Expected 24h session TTL, got %v", s.SessionTTL)
	}
	if s.MaxStepsPerCall != 1000 {
		t.Errorf("Expected 1000 max steps, got %d", s.MaxStepsPerCall)
	}
	if s.DefaultConfig != DefaultConfigName {
		t.Errorf("Expected default preset %q, got %q", DefaultConfigName, s.DefaultConfig)
	}
}

func TestLoadSettings_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("PROPERTYGAME_BOARD_SIZE", "40")
	t.Setenv("PROPERTYGAME_SESSION_TTL", "30m")
	t.Setenv("PROPERTYGAME_DEBUG", "true")
	t.Setenv("PROPERTYGAME_DEFAULT_CONFIG", "duel")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s.Port != 9191 || s.DefaultBoardSize != 40 || s.SessionTTL != 30*time.Minute || !s.Debug || s.DefaultConfig != "duel" {
		t.Errorf("Environment not applied: %+v", s)
	}
}

func TestLoadSettings_ParseError(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := LoadSettings()
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Errorf("Expected parse env prefix, got %v", err)
	}
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero board", "PROPERTYGAME_BOARD_SIZE", "0"},
		{"too many players", "PROPERTYGAME_PLAYERS", "1000"},
		{"zero batch", "PROPERTYGAME_MAX_BATCH_GAMES", "0"},
		{"zero steps", "PROPERTYGAME_MAX_STEPS", "0"},
		{"zero ttl", "PROPERTYGAME_SESSION_TTL", "0s"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Setenv(test.key, test.value)
			_, err := LoadSettings()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
