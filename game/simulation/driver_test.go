package simulation

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
)

// queueRand replays Intn results and keeps the shuffle order unchanged
type queueRand struct {
	values []int
}

func (r *queueRand) Intn(n int) int {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v % n
}

func (r *queueRand) Shuffle(int, func(i, j int)) {}

func newScriptedDriver(t *testing.T, prices []int, dice []int, strategies ...engine.Strategy) (*Driver, []*engine.Player) {
	t.Helper()
	values := make([]int, len(dice))
	for i, d := range dice {
		values[i] = d - 1
	}
	rng := &queueRand{values: values}

	board, err := engine.NewBoardFromPrices(prices, rng)
	if err != nil {
		t.Fatalf("Failed to build board: %v", err)
	}
	players := make([]*engine.Player, len(strategies))
	for i, s := range strategies {
		players[i] = engine.NewPlayer(s)
	}
	game, err := engine.NewGameWithBoard(players, board, rng)
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}
	return NewDriver(game, zap.NewNop()), players
}

func TestDriver_Step(t *testing.T) {
	d, players := newScriptedDriver(t,
		[]int{300, 300, 300, 300, 300},
		[]int{1, 2, 1},
		engine.Impulsive{}, engine.Demanding{},
	)
	a, b := players[0], players[1]

	expected := []StepResult{
		{Round: 1, PlayerID: a.ID, Strategy: "impulsive", Dice: 1, From: 0, To: 1, Balance: 0, Purchased: true},
		{Round: 2, PlayerID: b.ID, Strategy: "demanding", Dice: 2, From: 0, To: 2, Balance: 0, Purchased: true},
		{Round: 3, PlayerID: a.ID, Strategy: "impulsive", Dice: 1, From: 1, To: 2, Balance: -75, Eliminated: true, Finished: true},
	}

	for i, want := range expected {
		got, ok := d.Step()
		if !ok {
			t.Fatalf("Step %d: expected a turn to be applied", i+1)
		}
		if got != want {
			t.Errorf("Step %d: expected %+v, got %+v", i+1, want, got)
		}
	}

	if _, ok := d.Step(); ok {
		t.Error("Expected no more steps after the game finished")
	}
	if d.Game().Result().Winner != "demanding" {
		t.Errorf("Expected demanding to win, got %s", d.Game().Result().Winner)
	}
}

func TestDriver_PassSkipsEliminated(t *testing.T) {
	d, players := newScriptedDriver(t,
		[]int{300, 300, 300, 300, 300},
		[]int{1, 2, 3, 1, 1, 2, 1},
		engine.Impulsive{}, engine.Impulsive{}, engine.Demanding{},
	)
	a, b, c := players[0], players[1], players[2]

	steps := d.StepN(6)
	if len(steps) != 6 {
		t.Fatalf("Expected 6 steps, got %d", len(steps))
	}
	if !steps[3].Eliminated || steps[3].PlayerID != a.ID {
		t.Errorf("Expected A to be eliminated on step 4, got %+v", steps[3])
	}
	if steps[4].PlayerID != b.ID || steps[4].Balance != 0 {
		t.Errorf("Expected B to pay rent on step 5, got %+v", steps[4])
	}
	if steps[5].PlayerID != c.ID || steps[5].Balance != 175 {
		t.Errorf("Expected C to collect rent and a lap bonus on step 6, got %+v", steps[5])
	}

	next, ok := d.Step()
	if !ok {
		t.Fatal("Expected the game to continue")
	}
	if next.PlayerID != b.ID {
		t.Errorf("Expected the next pass to start with B, got player %d", next.PlayerID)
	}
}

func TestDriver_StepNStopsAtEnd(t *testing.T) {
	d, _ := newScriptedDriver(t,
		[]int{300, 300, 300, 300, 300},
		[]int{1, 2, 1},
		engine.Impulsive{}, engine.Demanding{},
	)

	steps := d.StepN(50)
	if len(steps) != 3 {
		t.Errorf("Expected 3 steps before the game ended, got %d", len(steps))
	}
	if len(d.StepN(-1)) != 0 {
		t.Error("Expected negative step count to apply nothing")
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"negative board", Options{BoardSize: -1, Seed: 1}},
		{"board too large", Options{BoardSize: engine.MaxBoardSize + 1, Seed: 1}},
		{"negative players", Options{Players: -2, Seed: 1}},
		{"unknown strategy", Options{Strategies: []string{"greedy"}, Seed: 1}},
		{"bad price", Options{Prices: []int{100, 0}, Seed: 1}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := New(test.opts, nil)
			if !errors.Is(err, engine.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got: %v", err)
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	d, err := New(Options{}, nil)
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}

	if d.Seed() == 0 {
		t.Error("Expected a seed to be drawn")
	}
	if d.Game().Board().Len() != DefaultBoardSize {
		t.Errorf("Expected %d tiles, got %d", DefaultBoardSize, d.Game().Board().Len())
	}
	names := d.Game().Result().Players
	if !reflect.DeepEqual(names, engine.StrategyNames()) {
		t.Errorf("Expected round-robin strategies %v, got %v", engine.StrategyNames(), names)
	}
}

func TestNew_RoundRobinStrategies(t *testing.T) {
	d, err := New(Options{Players: 6, Strategies: []string{"cauteloso", "impulsive"}, Seed: 9}, nil)
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}

	want := []string{"cautious", "impulsive", "cautious", "impulsive", "cautious", "impulsive"}
	if got := d.Game().Result().Players; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestNew_FixedPrices(t *testing.T) {
	d, err := New(Options{Prices: []int{150, 250, 100}, Players: 2, Seed: 4}, nil)
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	props := d.Game().Board().Properties()
	if len(props) != 3 || props[0].Price != 150 || props[1].Rent != 62 {
		t.Errorf("Unexpected board: %+v %+v %+v", props[0], props[1], props[2])
	}
}

func TestSimulate_Reproducible(t *testing.T) {
	opts := Options{BoardSize: 20, Players: 4, Seed: 1234}

	first, err := Simulate(context.Background(), opts, zap.NewNop())
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	second, err := Simulate(context.Background(), opts, zap.NewNop())
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical outcomes for the same seed:\n%+v\n%+v", first, second)
	}
	if first.Seed != 1234 || first.BoardSize != 20 {
		t.Errorf("Unexpected outcome metadata: seed=%d board=%d", first.Seed, first.BoardSize)
	}
	if first.Result.Rounds < 1 || first.Result.Rounds > engine.MaxRounds {
		t.Errorf("Rounds out of range: %d", first.Result.Rounds)
	}
	if len(first.Standings) != 4 {
		t.Errorf("Expected 4 standings, got %d", len(first.Standings))
	}
}

func TestDriver_RunCancelled(t *testing.T) {
	d, err := New(Options{Seed: 77}, nil)
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = d.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
	if d.Game().Round() != 0 {
		t.Errorf("Expected no turns after cancellation, got %d", d.Game().Round())
	}
}
