package engine

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

// scriptedRand replays a fixed queue of Intn results. An exhausted queue
// yields 0. Shuffle is the identity unless reverse is set.
type scriptedRand struct {
	values  []int
	reverse bool
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v % n
}

func (r *scriptedRand) Shuffle(n int, swap func(i, j int)) {
	if !r.reverse {
		return
	}
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

func playOut(g *Game) {
	for !g.IsFinished() {
		for _, p := range g.ActivePlayers() {
			if g.IsFinished() {
				break
			}
			if !g.IsActive(p) {
				continue
			}
			if g.TakeTurn(p, g.Board().RollDie()) && !g.IsFinished() && g.IsActive(p) {
				g.AttemptPurchase(p)
			}
		}
	}
}

func assertHoldingsConsistent(t *testing.T, g *Game) {
	t.Helper()
	owned := 0
	for _, p := range g.InitialPlayers() {
		for _, property := range p.Holdings() {
			if property.Owner() != p {
				t.Errorf("Property %d is held by player %d but owned by %v", property.ID, p.ID, property.Owner())
			}
			owned++
		}
		if !g.IsActive(p) && len(p.Holdings()) > 0 {
			t.Errorf("Eliminated player %d still holds %d properties", p.ID, len(p.Holdings()))
		}
	}
	for _, property := range g.Board().Properties() {
		if owner := property.Owner(); owner != nil {
			if !owner.Owns(property) {
				t.Errorf("Property %d owner %d does not list it", property.ID, owner.ID)
			}
			owned--
		}
	}
	if owned != 0 {
		t.Errorf("Holdings and ownership disagree by %d properties", owned)
	}
}

func TestNewGame_Validation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	shared := NewPlayer(Impulsive{})

	tests := []struct {
		name      string
		players   []*Player
		boardSize int
	}{
		{"no players", nil, 20},
		{"nil player", []*Player{NewPlayer(Impulsive{}), nil}, 20},
		{"duplicate player", []*Player{shared, shared}, 20},
		{"missing strategy", []*Player{{Balance: StartingBalance}}, 20},
		{"zero board", []*Player{NewPlayer(Impulsive{})}, 0},
		{"negative board", []*Player{NewPlayer(Impulsive{})}, -1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g, err := NewGame(test.players, test.boardSize, rng)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got: %v", err)
			}
			if g != nil {
				t.Error("Expected nil game on error")
			}
		})
	}
}

func TestNewGame_SeatsPlayers(t *testing.T) {
	a := NewPlayer(Impulsive{})
	b := NewPlayer(Demanding{})
	c := NewPlayer(Cautious{})
	a.Balance, a.Position = 10, 3

	rng := &scriptedRand{reverse: true}
	g, err := NewGame([]*Player{a, b, c}, 4, rng)
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	for i, p := range g.InitialPlayers() {
		if p.ID != i+1 {
			t.Errorf("Expected player %d to have ID %d, got %d", i, i+1, p.ID)
		}
		if p.Balance != StartingBalance || p.Position != 0 || len(p.Holdings()) != 0 {
			t.Errorf("Expected player %d reset, got balance=%d position=%d holdings=%d",
				p.ID, p.Balance, p.Position, len(p.Holdings()))
		}
	}

	order := g.TurnOrder()
	if order[0] != c || order[1] != b || order[2] != a {
		t.Errorf("Expected reversed turn order, got %d,%d,%d", order[0].ID, order[1].ID, order[2].ID)
	}
	if !reflect.DeepEqual(g.ActivePlayers(), order) {
		t.Error("Expected active players to follow the turn order")
	}
	if g.Round() != 0 || g.IsFinished() || g.Winner() != nil {
		t.Error("Expected fresh game to be active at round 0")
	}
}

// Five tiles priced 300 (rent 75): impulsive buys tile 1, demanding buys
// tile 2, impulsive lands on tile 2, cannot pay and is eliminated.
func TestGame_GoldenTrace(t *testing.T) {
	rng := &scriptedRand{values: []int{200, 200, 200, 200, 200, 0, 1, 0}}
	a := NewPlayer(Impulsive{})
	b := NewPlayer(Demanding{})

	g, err := NewGame([]*Player{a, b}, 5, rng)
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}
	for _, property := range g.Board().Properties() {
		if property.Price != 300 || property.Rent != 75 {
			t.Fatalf("Expected price 300 rent 75, got %d/%d", property.Price, property.Rent)
		}
	}

	// Turn 1
	if !g.TakeTurn(a, g.Board().RollDie()) {
		t.Fatal("Expected turn 1 to apply")
	}
	if a.Position != 1 {
		t.Errorf("Expected A at 1, got %d", a.Position)
	}
	if !g.AttemptPurchase(a) || a.Balance != 0 {
		t.Errorf("Expected A to buy tile 1 and have 0, got %d", a.Balance)
	}

	// Turn 2
	g.TakeTurn(b, g.Board().RollDie())
	if b.Position != 2 {
		t.Errorf("Expected B at 2, got %d", b.Position)
	}
	if !g.AttemptPurchase(b) || b.Balance != 0 {
		t.Errorf("Expected B to buy tile 2 and have 0, got %d", b.Balance)
	}

	// Turn 3
	g.TakeTurn(a, g.Board().RollDie())
	if a.Balance != -75 {
		t.Errorf("Expected A balance -75, got %d", a.Balance)
	}
	if b.Balance != 75 {
		t.Errorf("Expected B balance 75, got %d", b.Balance)
	}
	if g.IsActive(a) {
		t.Error("Expected A to be eliminated")
	}
	if g.Board().At(1).IsOwned() {
		t.Error("Expected A's property to be released")
	}
	if g.Board().At(2).Owner() != b {
		t.Error("Expected B to keep tile 2")
	}
	if g.AttemptPurchase(a) {
		t.Error("Expected purchase after finish to be refused")
	}

	want := Result{
		Winner:              "demanding",
		Players:             []string{"impulsive", "demanding"},
		TerminatedByTimeout: false,
		Rounds:              3,
	}
	if got := g.Result(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected result %+v, got %+v", want, got)
	}
	if g.Winner() != b {
		t.Error("Expected B to be the declared winner")
	}

	wantEvents := []EventType{EventMove, EventPurchase, EventMove, EventPurchase, EventMove, EventRent, EventElimination, EventFinished}
	events := g.Events()
	if len(events) != len(wantEvents) {
		t.Fatalf("Expected %d events, got %d", len(wantEvents), len(events))
	}
	for i, event := range events {
		if event.Type != wantEvents[i] {
			t.Errorf("Event %d: expected %s, got %s", i, wantEvents[i], event.Type)
		}
		if event.Seq != i+1 {
			t.Errorf("Event %d: expected seq %d, got %d", i, i+1, event.Seq)
		}
	}
	if events[5].Amount != 75 || events[5].CounterpartID != b.ID {
		t.Errorf("Expected rent of 75 to player %d, got %+v", b.ID, events[5])
	}

	standings := g.Standings()
	if len(standings) != 2 {
		t.Fatalf("Expected 2 standings, got %d", len(standings))
	}
	if standings[0].PlayerID != b.ID || standings[0].Balance != 75 || standings[0].Holdings != 1 {
		t.Errorf("Unexpected first place: %+v", standings[0])
	}
	if standings[1].PlayerID != a.ID || standings[1].Place != 2 || standings[1].Holdings != 0 {
		t.Errorf("Unexpected second place: %+v", standings[1])
	}
	assertHoldingsConsistent(t, g)
}

func TestGame_SingleTileBoard(t *testing.T) {
	rng := &scriptedRand{}
	board, err := NewBoardFromPrices([]int{100}, rng)
	if err != nil {
		t.Fatalf("Failed to create board: %v", err)
	}
	a := NewPlayer(Impulsive{})
	b := NewPlayer(Impulsive{})
	g, err := NewGameWithBoard([]*Player{a, b}, board, rng)
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	g.TakeTurn(a, 3)
	if a.Position != 0 {
		t.Errorf("Expected position 0, got %d", a.Position)
	}
	if a.Balance != StartingBalance {
		t.Errorf("Expected no lap bonus on a single tile, got balance %d", a.Balance)
	}
	if !g.AttemptPurchase(a) || a.Balance != 200 {
		t.Errorf("Expected A to buy for 100 and have 200, got %d", a.Balance)
	}

	g.TakeTurn(b, 5)
	if b.Balance != 275 {
		t.Errorf("Expected B to pay 25 rent, got balance %d", b.Balance)
	}
	if a.Balance != 225 {
		t.Errorf("Expected A to receive 25 rent, got balance %d", a.Balance)
	}
	if g.AttemptPurchase(b) {
		t.Error("Expected B to be unable to buy an owned tile")
	}
	if g.IsFinished() || g.Round() != 2 {
		t.Errorf("Expected game running at round 2, got finished=%v round=%d", g.IsFinished(), g.Round())
	}
}

func TestGame_NoSelfRent(t *testing.T) {
	rng := &scriptedRand{}
	board, _ := NewBoardFromPrices([]int{200, 200}, rng)
	a := NewPlayer(Impulsive{})
	b := NewPlayer(Impulsive{})
	g, err := NewGameWithBoard([]*Player{a, b}, board, rng)
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	g.TakeTurn(a, 2)
	g.AttemptPurchase(a)
	if a.Balance != 100 {
		t.Fatalf("Expected balance 100 after purchase, got %d", a.Balance)
	}

	g.TakeTurn(a, 2)
	if a.Balance != 100 {
		t.Errorf("Expected no rent on own property, got balance %d", a.Balance)
	}
}

func TestGame_LapBonus(t *testing.T) {
	rng := &scriptedRand{}
	board, _ := NewBoardFromPrices([]int{100, 100, 100, 100, 100}, rng)

	tests := []struct {
		name      string
		start     int
		dice      int
		wantPos   int
		wantBonus bool
	}{
		{"no wrap", 0, 3, 3, false},
		{"wrap", 4, 2, 1, true},
		{"land on start", 3, 2, 0, true},
		{"full lap returns to origin", 0, 5, 0, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := NewPlayer(Demanding{})
			other := NewPlayer(Demanding{})
			g, err := NewGameWithBoard([]*Player{p, other}, board, rng)
			if err != nil {
				t.Fatalf("Failed to create game: %v", err)
			}
			p.Position = test.start

			g.TakeTurn(p, test.dice)

			if p.Position != test.wantPos {
				t.Errorf("Expected position %d, got %d", test.wantPos, p.Position)
			}
			want := StartingBalance
			if test.wantBonus {
				want += LapBonus
			}
			if p.Balance != want {
				t.Errorf("Expected balance %d, got %d", want, p.Balance)
			}
		})
	}
}

func TestGame_RoundIncrementsOncePerTurn(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	players := []*Player{NewPlayer(Impulsive{}), NewPlayer(Cautious{})}
	g, err := NewGame(players, 20, rng)
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	for i := 1; i <= 10 && !g.IsFinished(); i++ {
		p := g.ActivePlayers()[0]
		g.TakeTurn(p, g.Board().RollDie())
		g.AttemptPurchase(p)
		if g.Round() != i {
			t.Fatalf("Expected round %d, got %d", i, g.Round())
		}
	}
}

func TestGame_NoOpsWhenInactiveOrFinished(t *testing.T) {
	rng := &scriptedRand{values: []int{200, 200, 200, 200, 200, 0, 1, 0}}
	a := NewPlayer(Impulsive{})
	b := NewPlayer(Demanding{})
	g, _ := NewGame([]*Player{a, b}, 5, rng)
	playOut(g)

	round := g.Round()
	events := g.EventCount()
	balance := b.Balance

	if g.TakeTurn(a, 1) {
		t.Error("Expected eliminated player's turn to be refused")
	}
	if g.TakeTurn(b, 1) {
		t.Error("Expected turn after finish to be refused")
	}
	if g.AttemptPurchase(b) {
		t.Error("Expected purchase after finish to be refused")
	}
	if g.Round() != round || g.EventCount() != events || b.Balance != balance {
		t.Error("Expected refused actions to leave state untouched")
	}

	outsider := NewPlayer(Impulsive{})
	if g.TakeTurn(outsider, 1) || g.AttemptPurchase(outsider) {
		t.Error("Expected actions by a player outside the game to be refused")
	}
}

func TestGame_RoundLimit(t *testing.T) {
	// Neither strategy buys a 100 tile when the random source always says no.
	rng := &scriptedRand{reverse: true}
	board, _ := NewBoardFromPrices([]int{100}, rng)
	a := NewPlayer(Demanding{})
	b := NewPlayer(Random{Rng: rng})
	g, err := NewGameWithBoard([]*Player{a, b}, board, rng)
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	playOut(g)

	if !g.TerminatedByTimeout() {
		t.Error("Expected timeout termination")
	}
	if g.Round() != MaxRounds {
		t.Errorf("Expected %d rounds, got %d", MaxRounds, g.Round())
	}
	// Equal balances: the first player in turn order wins.
	want := Result{
		Winner:              "random",
		Players:             []string{"demanding", "random"},
		TerminatedByTimeout: true,
		Rounds:              MaxRounds,
	}
	if got := g.Result(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected result %+v, got %+v", want, got)
	}
	if g.Winner() != b {
		t.Error("Expected B to win the tie-break")
	}
}

func TestGame_Ranking(t *testing.T) {
	rng := &scriptedRand{}
	board, _ := NewBoardFromPrices([]int{100, 100, 100}, rng)
	a := NewPlayer(Impulsive{})
	b := NewPlayer(Demanding{})
	c := NewPlayer(Cautious{})
	g, err := NewGameWithBoard([]*Player{a, b, c}, board, rng)
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	a.Balance, b.Balance, c.Balance = 150, 400, 150

	ranked := g.Ranking()
	if ranked[0] != b || ranked[1] != a || ranked[2] != c {
		t.Errorf("Expected ranking B, A, C, got %d, %d, %d", ranked[0].ID, ranked[1].ID, ranked[2].ID)
	}
	if got := g.Result().Winner; got != "demanding" {
		t.Errorf("Expected provisional winner demanding, got %s", got)
	}
	if g.IsFinished() {
		t.Error("Expected Result not to finish the game")
	}
}

func TestGame_SinglePlayerWinsOnFirstTurn(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	p := NewPlayer(Cautious{})
	g, err := NewGame([]*Player{p}, 10, rng)
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	g.TakeTurn(p, g.Board().RollDie())

	if !g.IsFinished() || g.TerminatedByTimeout() {
		t.Error("Expected lone player to win by elimination")
	}
	if g.Result().Winner != "cautious" || g.Result().Rounds != 1 {
		t.Errorf("Unexpected result: %+v", g.Result())
	}
}

func TestGame_TerminatesWithinRoundLimit(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		players := []*Player{
			NewPlayer(Impulsive{}),
			NewPlayer(Demanding{}),
			NewPlayer(Cautious{}),
			NewPlayer(Random{Rng: rng}),
		}
		g, err := NewGame(players, 20, rng)
		if err != nil {
			t.Fatalf("seed %d: failed to create game: %v", seed, err)
		}

		playOut(g)

		if g.Round() > MaxRounds {
			t.Errorf("seed %d: expected at most %d rounds, got %d", seed, MaxRounds, g.Round())
		}
		if !g.TerminatedByTimeout() && len(g.ActivePlayers()) != 1 {
			t.Errorf("seed %d: elimination finish with %d active players", seed, len(g.ActivePlayers()))
		}
		for _, p := range g.ActivePlayers() {
			if p.Balance < 0 {
				t.Errorf("seed %d: active player %d has negative balance %d", seed, p.ID, p.Balance)
			}
		}
		assertHoldingsConsistent(t, g)
	}
}

func TestGame_SeedReproducible(t *testing.T) {
	run := func() (Result, []Event) {
		rng := rand.New(rand.NewSource(42))
		players := []*Player{
			NewPlayer(Impulsive{}),
			NewPlayer(Demanding{}),
			NewPlayer(Cautious{}),
			NewPlayer(Random{Rng: rng}),
		}
		g, err := NewGame(players, 20, rng)
		if err != nil {
			t.Fatalf("Failed to create game: %v", err)
		}
		playOut(g)
		return g.Result(), g.Events()
	}

	r1, e1 := run()
	r2, e2 := run()
	if !reflect.DeepEqual(r1, r2) {
		t.Errorf("Expected identical results, got %+v and %+v", r1, r2)
	}
	if !reflect.DeepEqual(e1, e2) {
		t.Error("Expected identical event logs for the same seed")
	}
}

func TestGame_Snapshot(t *testing.T) {
	rng := &scriptedRand{values: []int{200, 200, 200, 200, 200, 0, 1, 0}}
	a := NewPlayer(Impulsive{})
	b := NewPlayer(Demanding{})
	g, _ := NewGame([]*Player{a, b}, 5, rng)
	playOut(g)

	snap := g.Snapshot()
	if !snap.Finished || snap.Winner != "demanding" || snap.WinnerID != b.ID {
		t.Errorf("Unexpected snapshot header: %+v", snap)
	}
	if len(snap.Players) != 2 || snap.Players[0].Active || !snap.Players[1].Active {
		t.Errorf("Unexpected player views: %+v", snap.Players)
	}
	if !reflect.DeepEqual(snap.Players[1].Holdings, []int{3}) {
		t.Errorf("Expected B to hold property 3, got %v", snap.Players[1].Holdings)
	}
	if len(snap.Properties) != 5 || snap.Properties[2].OwnerID != b.ID || snap.Properties[1].OwnerID != 0 {
		t.Errorf("Unexpected property views: %+v", snap.Properties)
	}
	if !reflect.DeepEqual(snap.TurnOrder, []int{1, 2}) {
		t.Errorf("Expected turn order [1 2], got %v", snap.TurnOrder)
	}
	if snap.EventCount != len(g.Events()) {
		t.Errorf("Expected event count %d, got %d", len(g.Events()), snap.EventCount)
	}
}
