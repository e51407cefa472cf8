// Package config provides preset and settings management for the simulator.
//
// The config package handles:
//   - Loading simulation presets from JSON files
//   - Preset validation through the engine rules
//   - Default preset management with a built-in classic fallback
//   - Process settings parsed from environment variables
//
// Preset Format:
//
// Presets are stored as JSON files in the configs directory:
//
//	{
//	  "name": "classic",
//	  "description": "Classic table: 20 properties, one player per strategy",
//	  "board_size": 20,
//	  "players": 4,
//	  "strategies": ["impulsive", "demanding", "cautious", "random"]
//	}
//
// Strategies are assigned round-robin, so player i gets
// strategies[i % len(strategies)]. An optional "prices" array fixes the board
// layout instead of drawing random prices.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	preset, err := manager.LoadConfig("duel")
//	presets, err := manager.ListConfigs()
//
//	settings, err := config.LoadSettings()
package config
