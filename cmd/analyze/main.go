// Command analyze plays a batch of games for every preset in the configs
// directory and prints win rates per strategy, round statistics, and simple
// board heuristics (which fixed-price properties each strategy would ever buy).
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/propertygame/game/config"
	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/simulation"
)

// Heuristics summarizes a board before any game is played
type Heuristics struct {
	Tiles       int
	FixedPrices bool
	MinPrice    int
	MaxPrice    int
	// Properties whose rent passes the demanding threshold
	DemandingEligible int
	// Properties a cautious player can buy from the starting balance
	CautiousEligible int
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "compare strategy win rates across presets",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory containing game presets"},
			&cli.IntFlag{Name: "games", Aliases: []string{"n"}, Value: 1000, Usage: "games per preset"},
			&cli.Int64Flag{Name: "seed", Value: 1, Usage: "base seed for every batch"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return analyzeAll(ctx, os.Stdout, cmd.String("config-dir"), cmd.Int("games"), cmd.Int64("seed"))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// analyzeAll runs one batch per preset. A preset that fails is reported and skipped.
func analyzeAll(ctx context.Context, w io.Writer, configDir string, games int, seed int64) error {
	manager, err := config.NewManager(configDir)
	if err != nil {
		return err
	}

	infos, err := manager.ListConfigs()
	if err != nil {
		return err
	}

	for _, info := range infos {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", info.ConfigID)

		cfg, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			fmt.Fprintf(w, "Error loading preset: %v\n", err)
			continue
		}

		if err := analyzeConfig(ctx, w, cfg, games, seed); err != nil {
			fmt.Fprintf(w, "Error running batch: %v\n", err)
		}
	}
	return nil
}

func analyzeConfig(ctx context.Context, w io.Writer, cfg *engine.GameConfig, games int, seed int64) error {
	fmt.Fprintf(w, "Name: %s\n", cfg.Name)
	fmt.Fprintf(w, "Players: %d\n", cfg.Players)

	h := computeHeuristics(cfg)
	if h.FixedPrices {
		fmt.Fprintf(w, "Board: %d fixed properties, prices %d-%d\n", h.Tiles, h.MinPrice, h.MaxPrice)
		fmt.Fprintf(w, "Demanding would buy: %d/%d\n", h.DemandingEligible, h.Tiles)
		fmt.Fprintf(w, "Cautious can buy from the start: %d/%d\n", h.CautiousEligible, h.Tiles)
		if h.DemandingEligible == 0 {
			fmt.Fprintf(w, "⚠️  WARNING: demanding players never buy on this board\n")
		}
	} else {
		fmt.Fprintf(w, "Board: %d random properties\n", h.Tiles)
	}

	opts := simulation.OptionsFromConfig(cfg, seed)
	report, err := simulation.RunBatch(ctx, simulation.BatchOptions{Options: opts, Games: games}, zap.NewNop())
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Games: %d (seed %d)\n", report.Games, report.Seed)
	for _, s := range report.Strategies {
		fmt.Fprintf(w, "  %-9s %6.2f%% (%d/%d)\n", s.Strategy, s.WinRate*100, s.Wins, s.Seats)
	}
	fmt.Fprintf(w, "Rounds: avg %.1f, min %d, max %d\n", report.AverageRounds, report.MinRounds, report.MaxRounds)

	if report.Timeouts > 0 {
		fmt.Fprintf(w, "⏱  %d games hit the round limit\n", report.Timeouts)
	} else {
		fmt.Fprintf(w, "✅ Every game ended by elimination\n")
	}
	return nil
}

// computeHeuristics inspects fixed prices. Random boards only report their size.
func computeHeuristics(cfg *engine.GameConfig) Heuristics {
	h := Heuristics{Tiles: cfg.EffectiveBoardSize()}
	if len(cfg.Prices) == 0 {
		return h
	}

	h.FixedPrices = true
	h.MinPrice, h.MaxPrice = cfg.Prices[0], cfg.Prices[0]
	for _, price := range cfg.Prices {
		h.MinPrice = min(h.MinPrice, price)
		h.MaxPrice = max(h.MaxPrice, price)

		property := engine.NewProperty(0, price)
		if property.Rent > engine.DemandingMinRent {
			h.DemandingEligible++
		}
		if engine.StartingBalance-price >= engine.CautiousReserve {
			h.CautiousEligible++
		}
	}
	return h
}
