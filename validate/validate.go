// Command validate provides a small CLI that validates game preset JSON
// files in the ../configs directory (or the directory given as the first
// argument). It checks:
//   - JSON structure, rejecting unknown fields
//   - Board size, player count and fixed prices within the engine limits
//   - Strategy names, including the accepted aliases
//   - Playability: whether every seated strategy can ever buy on a fixed board
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
}

func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var config engine.GameConfig
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	id := strings.TrimSuffix(result.File, filepath.Ext(result.File))
	if config.Name == "" {
		config.Name = id
	} else if config.Name != id {
		result.Warnings = append(result.Warnings, fmt.Sprintf("name %q differs from file name %q", config.Name, id))
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	result.Warnings = append(result.Warnings, validatePlayability(&config)...)

	size := config.EffectiveBoardSize()
	layout := "random prices"
	if len(config.Prices) > 0 {
		layout = "fixed prices"
	}
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Board: %d properties (%s)", size, layout))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Players: %d", config.Players))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Strategies: %s", strings.Join(seatedStrategies(&config), ", ")))

	return result
}

// seatedStrategies returns the canonical strategy of every seat in order.
// The config must already be valid.
func seatedStrategies(config *engine.GameConfig) []string {
	names := config.Strategies
	if len(names) == 0 {
		names = engine.StrategyNames()
	}

	seats := make([]string, config.Players)
	for i := range seats {
		seats[i], _ = engine.CanonicalStrategyName(names[i%len(names)])
	}
	return seats
}

// validatePlayability reports setups that are legal but degenerate
func validatePlayability(config *engine.GameConfig) []string {
	var warnings []string

	if len(config.Strategies) > config.Players {
		warnings = append(warnings, fmt.Sprintf("%d strategies listed but only %d players seated", len(config.Strategies), config.Players))
	}
	if config.Players == 1 {
		warnings = append(warnings, "a single player wins before the first turn")
	}

	if len(config.Prices) == 0 {
		return warnings
	}

	seated := make(map[string]bool)
	for _, name := range seatedStrategies(config) {
		seated[name] = true
	}

	demandingBuys, cautiousBuys := false, false
	for i, price := range config.Prices {
		if price < engine.MinPrice || price > engine.MaxPrice {
			warnings = append(warnings, fmt.Sprintf("prices[%d]=%d is outside the random range %d-%d", i, price, engine.MinPrice, engine.MaxPrice))
		}
		if engine.NewProperty(i, price).Rent > engine.DemandingMinRent {
			demandingBuys = true
		}
		if engine.StartingBalance-price >= engine.CautiousReserve {
			cautiousBuys = true
		}
	}

	if seated[engine.StrategyDemanding] && !demandingBuys {
		warnings = append(warnings, fmt.Sprintf("demanding never buys: no rent exceeds %d", engine.DemandingMinRent))
	}
	if seated[engine.StrategyCautious] && !cautiousBuys {
		warnings = append(warnings, fmt.Sprintf("cautious cannot buy from the starting balance of %d", engine.StartingBalance))
	}

	return warnings
}

// main scans the preset directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No configurations found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Println("  ❌ " + err)
			}
		}
		for _, warning := range result.Warnings {
			fmt.Println("  ⚠️  " + warning)
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
