package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
)

// BatchOptions configures a tournament of independent games
type BatchOptions struct {
	Options
	Games   int `json:"games"`
	Workers int `json:"workers,omitempty"`
}

// StrategyStats summarizes one strategy across a batch
type StrategyStats struct {
	Strategy string  `json:"strategy"`
	Seats    int     `json:"seats"`
	Wins     int     `json:"wins"`
	WinRate  float64 `json:"win_rate"`
}

// BatchReport aggregates the results of a batch
type BatchReport struct {
	Games         int             `json:"games"`
	Seed          int64           `json:"seed"`
	Strategies    []StrategyStats `json:"strategies"`
	Timeouts      int             `json:"timeouts"`
	AverageRounds float64         `json:"average_rounds"`
	MinRounds     int             `json:"min_rounds"`
	MaxRounds     int             `json:"max_rounds"`
	DurationMs    int64           `json:"duration_ms"`
}

// RunBatch plays opts.Games games concurrently. Per-game seeds are drawn in
// order from the base seed, so a batch with a fixed seed is reproducible
// regardless of scheduling.
func RunBatch(ctx context.Context, opts BatchOptions, log *zap.Logger) (*BatchReport, error) {
	if opts.Games < 1 {
		return nil, fmt.Errorf("%w: games must be at least 1, got %d", engine.ErrInvalidConfig, opts.Games)
	}
	if log == nil {
		log = zap.NewNop()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	base := opts.Options.withDefaults()
	seedSource := rand.New(rand.NewSource(base.Seed))
	seeds := make([]int64, opts.Games)
	for i := range seeds {
		seeds[i] = seedSource.Int63()
		if seeds[i] == 0 {
			seeds[i] = 1
		}
	}

	start := time.Now()
	results := make([]engine.Result, opts.Games)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range seeds {
		gameOpts := base
		gameOpts.Seed = seeds[i]
		g.Go(func() error {
			d, err := New(gameOpts, log)
			if err != nil {
				return err
			}
			result, err := d.Run(gctx)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := aggregateResults(results)
	report.Seed = base.Seed
	report.DurationMs = time.Since(start).Milliseconds()

	log.Info("batch finished",
		zap.Int("games", report.Games),
		zap.Int64("seed", report.Seed),
		zap.Int("timeouts", report.Timeouts),
		zap.Float64("average_rounds", report.AverageRounds),
	)
	return report, nil
}

// aggregateResults computes summary statistics
func aggregateResults(results []engine.Result) *BatchReport {
	report := &BatchReport{Games: len(results)}
	if len(results) == 0 {
		return report
	}

	seats := make(map[string]int)
	wins := make(map[string]int)
	var order []string
	totalRounds := 0
	report.MinRounds = results[0].Rounds

	for _, result := range results {
		for _, name := range result.Players {
			if _, ok := seats[name]; !ok {
				order = append(order, name)
			}
			seats[name]++
		}
		wins[result.Winner]++
		if result.TerminatedByTimeout {
			report.Timeouts++
		}

		totalRounds += result.Rounds
		if result.Rounds < report.MinRounds {
			report.MinRounds = result.Rounds
		}
		if result.Rounds > report.MaxRounds {
			report.MaxRounds = result.Rounds
		}
	}
	report.AverageRounds = float64(totalRounds) / float64(len(results))

	for _, name := range order {
		report.Strategies = append(report.Strategies, StrategyStats{
			Strategy: name,
			Seats:    seats[name],
			Wins:     wins[name],
			WinRate:  float64(wins[name]) / float64(len(results)),
		})
	}
	sort.SliceStable(report.Strategies, func(i, j int) bool {
		return report.Strategies[i].Wins > report.Strategies[j].Wins
	})

	return report
}
