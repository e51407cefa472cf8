package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// DefaultConfigName is the preset used when a request names none
const DefaultConfigName = "classic"

// Manager loads and caches simulation presets stored as JSON files
type Manager struct {
	configDir     string
	defaultName   string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	builtin       func() *engine.GameConfig
	mu            sync.RWMutex
}

// Option customizes a Manager
type Option func(*Manager)

// WithBuiltinSize sizes the built-in classic preset served when no classic.json exists
func WithBuiltinSize(boardSize, players int) Option {
	return func(m *Manager) {
		m.builtin = func() *engine.GameConfig {
			cfg := engine.DefaultGameConfig()
			cfg.BoardSize = boardSize
			cfg.Players = players
			return cfg
		}
	}
}

// NewManager creates a new configuration manager
func NewManager(configDir string, opts ...Option) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir:   configDir,
		defaultName: DefaultConfigName,
		configs:     make(map[string]*engine.GameConfig),
		builtin:   engine.DefaultGameConfig,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.loadDefaultConfig()
	return m, nil
}

// LoadConfig loads a preset by name. The built-in classic preset is served
// when no file of that name exists.
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	name = strings.TrimSuffix(name, ".json")
	if err := validateName(name); err != nil {
		return nil, err
	}

	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	config, err := m.readConfig(name)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) && name == DefaultConfigName {
			config = m.builtin()
		} else {
			return nil, err
		}
	}

	m.configs[name] = config
	return config, nil
}

func (m *Manager) readConfig(name string) (*engine.GameConfig, error) {
	configPath := filepath.Join(m.configDir, name+".json")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, name)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}
	if config.Name == "" {
		config.Name = name
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &config, nil
}

// ListConfigs returns information about all available presets, sorted by id
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	hasDefault := false

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		config, err := m.LoadConfig(name)
		if err != nil {
			// Skip invalid configs
			continue
		}
		if name == DefaultConfigName {
			hasDefault = true
		}

		configs = append(configs, newConfigInfo(entry.Name(), name, config))
	}

	if !hasDefault {
		config, err := m.LoadConfig(DefaultConfigName)
		if err == nil {
			configs = append(configs, newConfigInfo("", DefaultConfigName, config))
		}
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ConfigID < configs[j].ConfigID
	})
	return configs, nil
}

func newConfigInfo(filename, id string, config *engine.GameConfig) *service.ConfigInfo {
	return &service.ConfigInfo{
		Filename:    filename,
		ConfigID:    id,
		Name:        config.Name,
		Description: config.Description,
		BoardSize:   config.EffectiveBoardSize(),
		Players:     config.Players,
		Strategies:  append([]string(nil), config.Strategies...),
	}
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// DefaultName returns the name of the preset served as the default
func (m *Manager) DefaultName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultName
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	name = strings.TrimSuffix(name, ".json")
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultName = name
	m.defaultConfig = config
	return nil
}

// RefreshCache drops cached presets and reloads the default from disk
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.configs = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	m.loadDefaultConfig()
}

// loadDefaultConfig reads the default preset again. When it is missing or
// invalid the built-in classic setup is served instead.
func (m *Manager) loadDefaultConfig() {
	name := m.DefaultName()
	config, err := m.LoadConfig(name)
	if err != nil {
		name = DefaultConfigName
		config = m.builtin()
	}

	m.mu.Lock()
	m.defaultName = name
	m.defaultConfig = config
	m.mu.Unlock()
}

// SaveConfig validates a preset and writes it to disk
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	name = strings.TrimSuffix(name, ".json")
	if err := validateName(name); err != nil {
		return err
	}
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	configPath := filepath.Join(m.configDir, name+".json")

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = config
	if name == m.defaultName {
		m.defaultConfig = config
	}
	m.mu.Unlock()

	return nil
}

// validateName keeps preset names inside the config directory
func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: invalid config name %q", ErrInvalidConfig, name)
	}
	return nil
}

// ReloadConfig drops a cached preset and reads it again from disk.
// Reloading the default preset also replaces the default.
func (m *Manager) ReloadConfig(name string) error {
	name = strings.TrimSuffix(name, ".json")
	if err := validateName(name); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.configs, name)
	m.mu.Unlock()

	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if name == m.defaultName {
		m.defaultConfig = config
	}
	m.mu.Unlock()
	return nil
}

// Count returns the number of cached presets
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}
