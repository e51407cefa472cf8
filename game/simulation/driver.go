package simulation

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
)

const (
	DefaultBoardSize = 20
	DefaultPlayers   = 4
)

// Options describes one simulation run
type Options struct {
	BoardSize  int      `json:"board_size"`
	Players    int      `json:"players"`
	Seed       int64    `json:"seed,omitempty"`
	Strategies []string `json:"strategies,omitempty"`
	Prices     []int    `json:"prices,omitempty"`
}

// OptionsFromConfig turns a preset into run options
func OptionsFromConfig(cfg *engine.GameConfig, seed int64) Options {
	return Options{
		BoardSize:  cfg.BoardSize,
		Players:    cfg.Players,
		Seed:       seed,
		Strategies: append([]string(nil), cfg.Strategies...),
		Prices:     append([]int(nil), cfg.Prices...),
	}
}

// withDefaults fills zero values; negative values are left for validation
func (o Options) withDefaults() Options {
	if o.BoardSize == 0 && len(o.Prices) == 0 {
		o.BoardSize = DefaultBoardSize
	}
	if o.Players == 0 {
		o.Players = DefaultPlayers
	}
	if len(o.Strategies) == 0 {
		o.Strategies = engine.StrategyNames()
	}
	if o.Seed == 0 {
		o.Seed = NewSeed()
	}
	return o
}

// NewSeed draws a non-zero seed from the operating system
func NewSeed() int64 {
	var b [8]byte
	if _, err := cryptorand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}

// StepResult describes one applied turn
type StepResult struct {
	Round      int    `json:"round"`
	PlayerID   int    `json:"player_id"`
	Strategy   string `json:"strategy"`
	Dice       int    `json:"dice"`
	From       int    `json:"from"`
	To         int    `json:"to"`
	Balance    int    `json:"balance"`
	Purchased  bool   `json:"purchased"`
	Eliminated bool   `json:"eliminated"`
	Finished   bool   `json:"finished"`
}

// Driver plays a game turn by turn. Each pass walks a snapshot of the active
// players in turn order; players eliminated during the pass are skipped.
type Driver struct {
	game *engine.Game
	seed int64
	log  *zap.Logger

	pass []*engine.Player
	next int
}

// New builds a game from options. Every random draw comes from a single
// source seeded with opts.Seed.
func New(opts Options, log *zap.Logger) (*Driver, error) {
	opts = opts.withDefaults()

	if opts.Players < engine.MinPlayers || opts.Players > engine.MaxPlayers {
		return nil, fmt.Errorf("%w: players must be between %d and %d, got %d",
			engine.ErrInvalidConfig, engine.MinPlayers, engine.MaxPlayers, opts.Players)
	}
	if len(opts.Prices) == 0 && (opts.BoardSize < engine.MinBoardSize || opts.BoardSize > engine.MaxBoardSize) {
		return nil, fmt.Errorf("%w: board size must be between %d and %d, got %d",
			engine.ErrInvalidConfig, engine.MinBoardSize, engine.MaxBoardSize, opts.BoardSize)
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	players := make([]*engine.Player, opts.Players)
	for i := range players {
		strategy, err := engine.NewStrategy(opts.Strategies[i%len(opts.Strategies)], rng)
		if err != nil {
			return nil, err
		}
		players[i] = engine.NewPlayer(strategy)
	}

	var (
		game *engine.Game
		err  error
	)
	if len(opts.Prices) > 0 {
		var board *engine.Board
		board, err = engine.NewBoardFromPrices(opts.Prices, rng)
		if err != nil {
			return nil, err
		}
		game, err = engine.NewGameWithBoard(players, board, rng)
	} else {
		game, err = engine.NewGame(players, opts.BoardSize, rng)
	}
	if err != nil {
		return nil, err
	}

	d := NewDriver(game, log)
	d.seed = opts.Seed
	return d, nil
}

// NewDriver wraps a game built by the caller. Dice are rolled on the game's
// board, so the run is as reproducible as the source the board was built with.
func NewDriver(game *engine.Game, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{
		game: game,
		log:  log,
	}
}

// Step applies the next player's turn: roll, move, settle and, when the
// player is still standing, offer the purchase. It returns false once the
// game is finished.
func (d *Driver) Step() (StepResult, bool) {
	for !d.game.IsFinished() {
		if d.next >= len(d.pass) {
			d.pass = d.game.ActivePlayers()
			d.next = 0
		}
		player := d.pass[d.next]
		d.next++
		if !d.game.IsActive(player) {
			continue
		}

		from := player.Position
		dice := d.game.Board().RollDie()
		d.game.TakeTurn(player, dice)

		result := StepResult{
			PlayerID: player.ID,
			Strategy: player.StrategyName(),
			Dice:     dice,
			From:     from,
			To:       player.Position,
		}
		if !d.game.IsFinished() && d.game.IsActive(player) {
			result.Purchased = d.game.AttemptPurchase(player)
		}
		result.Round = d.game.Round()
		result.Balance = player.Balance
		result.Eliminated = !d.game.IsActive(player)
		result.Finished = d.game.IsFinished()

		d.log.Debug("turn applied",
			zap.Int("round", result.Round),
			zap.Int("player", result.PlayerID),
			zap.String("strategy", result.Strategy),
			zap.Int("dice", dice),
			zap.Int("position", result.To),
			zap.Int("balance", result.Balance),
			zap.Bool("purchased", result.Purchased),
			zap.Bool("eliminated", result.Eliminated),
		)
		return result, true
	}
	return StepResult{}, false
}

// StepN applies up to n turns and returns the ones applied
func (d *Driver) StepN(n int) []StepResult {
	if n < 0 {
		n = 0
	}
	steps := make([]StepResult, 0, n)
	for i := 0; i < n; i++ {
		step, ok := d.Step()
		if !ok {
			break
		}
		steps = append(steps, step)
	}
	return steps
}

// Run steps until the game finishes or ctx is cancelled
func (d *Driver) Run(ctx context.Context) (engine.Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			return d.game.Result(), err
		}
		if _, ok := d.Step(); !ok {
			break
		}
	}

	result := d.game.Result()
	d.log.Debug("game finished",
		zap.Int64("seed", d.seed),
		zap.String("winner", result.Winner),
		zap.Int("rounds", result.Rounds),
		zap.Bool("timeout", result.TerminatedByTimeout),
	)
	return result, nil
}

// Game returns the driven game
func (d *Driver) Game() *engine.Game {
	return d.game
}

// Seed returns the seed the game was built with, or 0 for caller-built games
func (d *Driver) Seed() int64 {
	return d.seed
}

// Outcome is the report of a finished simulation
type Outcome struct {
	Result    engine.Result     `json:"result"`
	Standings []engine.Standing `json:"standings"`
	Seed      int64             `json:"seed"`
	BoardSize int               `json:"board_size"`
}

// Simulate builds a game and plays it to the end
func Simulate(ctx context.Context, opts Options, log *zap.Logger) (*Outcome, error) {
	d, err := New(opts, log)
	if err != nil {
		return nil, err
	}

	result, err := d.Run(ctx)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Result:    result,
		Standings: d.game.Standings(),
		Seed:      d.seed,
		BoardSize: d.game.Board().Len(),
	}, nil
}
