package engine

import (
	"fmt"
	"sort"
)

// Game holds the state of one simulation. It is not safe for concurrent use.
type Game struct {
	board *Board

	players    []*Player // active, in turn order
	initial    []*Player // as supplied
	turnOrder  []*Player // shuffle result, never mutated
	eliminated []*Player // in elimination order

	round    int
	finished bool
	timeout  bool
	winner   *Player

	events []Event
}

// NewGame generates a board of boardSize tiles and seats the players on it
func NewGame(players []*Player, boardSize int, rng Rand) (*Game, error) {
	if err := validatePlayers(players); err != nil {
		return nil, err
	}

	board, err := GenerateBoard(boardSize, rng)
	if err != nil {
		return nil, err
	}

	return NewGameWithBoard(players, board, rng)
}

// NewGameWithBoard seats the players on a prebuilt board. Players are reset,
// numbered 1..n in supplied order and shuffled once to fix the turn order.
func NewGameWithBoard(players []*Player, board *Board, rng Rand) (*Game, error) {
	if err := validatePlayers(players); err != nil {
		return nil, err
	}
	if board == nil || board.Len() < MinBoardSize {
		return nil, fmt.Errorf("%w: board is required", ErrInvalidConfig)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrInvalidConfig)
	}

	initial := make([]*Player, len(players))
	copy(initial, players)
	for i, p := range initial {
		p.ID = i + 1
		p.reset()
	}

	active := make([]*Player, len(players))
	copy(active, players)
	rng.Shuffle(len(active), func(i, j int) {
		active[i], active[j] = active[j], active[i]
	})

	turnOrder := make([]*Player, len(active))
	copy(turnOrder, active)

	return &Game{
		board:     board,
		players:   active,
		initial:   initial,
		turnOrder: turnOrder,
	}, nil
}

func validatePlayers(players []*Player) error {
	if len(players) < MinPlayers {
		return fmt.Errorf("%w: at least %d player is required", ErrInvalidConfig, MinPlayers)
	}
	seen := make(map[*Player]bool, len(players))
	for i, p := range players {
		if p == nil {
			return fmt.Errorf("%w: player %d is nil", ErrInvalidConfig, i+1)
		}
		if p.Strategy == nil {
			return fmt.Errorf("%w: player %d has no strategy", ErrInvalidConfig, i+1)
		}
		if seen[p] {
			return fmt.Errorf("%w: player %d supplied more than once", ErrInvalidConfig, i+1)
		}
		seen[p] = true
	}
	return nil
}

// TakeTurn moves the player by dice tiles and settles rent on the landed
// property. It returns false without touching state when the game is over or
// the player is no longer active.
func (g *Game) TakeTurn(player *Player, dice int) bool {
	if g.finished || !g.IsActive(player) {
		return false
	}

	from := player.Position
	to := g.board.Advance(from, dice)
	player.Position = to
	g.round++

	g.record(Event{
		Type:     EventMove,
		PlayerID: player.ID,
		Strategy: player.StrategyName(),
		Dice:     dice,
		From:     from,
		To:       to,
		Balance:  player.Balance,
		Message:  fmt.Sprintf("player %d rolled %d and moved from %d to %d", player.ID, dice, from, to),
	})

	// A lap is completed only when the position wraps strictly below where it started.
	if to < from {
		player.Balance += LapBonus
		g.record(Event{
			Type:     EventLapBonus,
			PlayerID: player.ID,
			Strategy: player.StrategyName(),
			From:     from,
			To:       to,
			Amount:   LapBonus,
			Balance:  player.Balance,
			Message:  fmt.Sprintf("player %d completed a lap and received %d", player.ID, LapBonus),
		})
	}

	property := g.board.At(to)
	if owner := property.owner; owner != nil && owner != player {
		g.settleRent(property, player)
	}

	g.checkTermination()
	return true
}

func (g *Game) settleRent(property *Property, tenant *Player) {
	owner := property.owner
	tenant.Balance -= property.Rent
	owner.Balance += property.Rent

	g.record(Event{
		Type:          EventRent,
		PlayerID:      tenant.ID,
		Strategy:      tenant.StrategyName(),
		From:          tenant.Position,
		To:            tenant.Position,
		PropertyID:    property.ID,
		Amount:        property.Rent,
		CounterpartID: owner.ID,
		Balance:       tenant.Balance,
		Message:       fmt.Sprintf("player %d paid %d rent to player %d for property %d", tenant.ID, property.Rent, owner.ID, property.ID),
	})

	if tenant.Balance < 0 {
		g.eliminate(tenant)
	}
}

// eliminate releases every holding and removes the player from the active list
func (g *Game) eliminate(player *Player) {
	released := len(player.holdings)
	player.releaseAll()

	for i, p := range g.players {
		if p == player {
			g.players = append(g.players[:i:i], g.players[i+1:]...)
			break
		}
	}
	g.eliminated = append(g.eliminated, player)

	g.record(Event{
		Type:     EventElimination,
		PlayerID: player.ID,
		Strategy: player.StrategyName(),
		From:     player.Position,
		To:       player.Position,
		Amount:   released,
		Balance:  player.Balance,
		Message:  fmt.Sprintf("player %d went bankrupt and released %d properties", player.ID, released),
	})
}

// AttemptPurchase offers the property under the player to its strategy. It
// returns true only when the purchase happened.
func (g *Game) AttemptPurchase(player *Player) bool {
	if g.finished || !g.IsActive(player) {
		return false
	}

	property := g.board.At(player.Position)
	if property.IsOwned() || player.Balance < property.Price {
		return false
	}
	if !player.Strategy.DecidePurchase(player, property) {
		return false
	}

	player.Balance -= property.Price
	player.acquire(property)

	g.record(Event{
		Type:       EventPurchase,
		PlayerID:   player.ID,
		Strategy:   player.StrategyName(),
		From:       player.Position,
		To:         player.Position,
		PropertyID: property.ID,
		Amount:     property.Price,
		Balance:    player.Balance,
		Message:    fmt.Sprintf("player %d bought property %d for %d", player.ID, property.ID, property.Price),
	})
	return true
}

func (g *Game) checkTermination() {
	if g.finished {
		return
	}

	switch {
	case len(g.players) == 1:
		g.winner = g.players[0]
	case len(g.players) == 0:
		// unreachable through rent settlement since the owner always survives
	case g.round >= MaxRounds:
		g.timeout = true
		g.winner = g.Ranking()[0]
	default:
		return
	}

	g.finished = true

	winner := NoWinner
	winnerID := 0
	if g.winner != nil {
		winner = g.winner.StrategyName()
		winnerID = g.winner.ID
	}
	reason := "elimination"
	if g.timeout {
		reason = "round limit"
	}
	g.record(Event{
		Type:     EventFinished,
		PlayerID: winnerID,
		Strategy: winner,
		Message:  fmt.Sprintf("game finished by %s after %d rounds, winner: %s", reason, g.round, winner),
	})
}

// Ranking returns the active players by balance descending. Ties go to the
// player who comes first in the turn order.
func (g *Game) Ranking() []*Player {
	ranked := make([]*Player, len(g.players))
	copy(ranked, g.players)

	index := g.turnIndex()
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Balance != ranked[j].Balance {
			return ranked[i].Balance > ranked[j].Balance
		}
		return index[ranked[i]] < index[ranked[j]]
	})
	return ranked
}

func (g *Game) turnIndex() map[*Player]int {
	index := make(map[*Player]int, len(g.turnOrder))
	for i, p := range g.turnOrder {
		index[p] = i
	}
	return index
}

// Result reports the winner, the competing strategies in supplied order, the
// termination cause and the rounds played. Before the game finishes the
// winner is whoever currently leads the ranking.
func (g *Game) Result() Result {
	winner := NoWinner
	switch {
	case g.winner != nil:
		winner = g.winner.StrategyName()
	case len(g.players) > 0:
		winner = g.Ranking()[0].StrategyName()
	}

	names := make([]string, len(g.initial))
	for i, p := range g.initial {
		names[i] = p.StrategyName()
	}

	return Result{
		Winner:              winner,
		Players:             names,
		TerminatedByTimeout: g.timeout,
		Rounds:              g.round,
	}
}

// Standings returns the final table: active players by ranking, followed by
// eliminated players from last to first eliminated.
func (g *Game) Standings() []Standing {
	ordered := g.Ranking()
	for i := len(g.eliminated) - 1; i >= 0; i-- {
		ordered = append(ordered, g.eliminated[i])
	}

	standings := make([]Standing, len(ordered))
	for i, p := range ordered {
		standings[i] = Standing{
			Place:    i + 1,
			PlayerID: p.ID,
			Strategy: p.StrategyName(),
			Balance:  p.Balance,
			Holdings: len(p.holdings),
		}
	}
	return standings
}

// Snapshot returns a read-only copy of the observable state
func (g *Game) Snapshot() Snapshot {
	players := make([]PlayerView, len(g.initial))
	for i, p := range g.initial {
		players[i] = p.view(g.IsActive(p))
	}

	properties := make([]PropertyView, g.board.Len())
	for i, property := range g.board.properties {
		view := PropertyView{ID: property.ID, Price: property.Price, Rent: property.Rent}
		if property.owner != nil {
			view.OwnerID = property.owner.ID
		}
		properties[i] = view
	}

	order := make([]int, len(g.turnOrder))
	for i, p := range g.turnOrder {
		order[i] = p.ID
	}

	snapshot := Snapshot{
		Round:               g.round,
		Finished:            g.finished,
		TerminatedByTimeout: g.timeout,
		TurnOrder:           order,
		Players:             players,
		Properties:          properties,
		EventCount:          len(g.events),
	}
	if g.winner != nil {
		snapshot.WinnerID = g.winner.ID
		snapshot.Winner = g.winner.StrategyName()
	}
	return snapshot
}

func (g *Game) record(event Event) {
	event.Seq = len(g.events) + 1
	event.Round = g.round
	g.events = append(g.events, event)
}

// Events returns a copy of the game log
func (g *Game) Events() []Event {
	out := make([]Event, len(g.events))
	copy(out, g.events)
	return out
}

// EventCount returns the number of logged events
func (g *Game) EventCount() int {
	return len(g.events)
}

// ActivePlayers returns the players still in the game, in turn order
func (g *Game) ActivePlayers() []*Player {
	out := make([]*Player, len(g.players))
	copy(out, g.players)
	return out
}

// InitialPlayers returns every player in the order they were supplied
func (g *Game) InitialPlayers() []*Player {
	out := make([]*Player, len(g.initial))
	copy(out, g.initial)
	return out
}

// TurnOrder returns the order fixed by the initial shuffle
func (g *Game) TurnOrder() []*Player {
	out := make([]*Player, len(g.turnOrder))
	copy(out, g.turnOrder)
	return out
}

// IsActive reports whether the player is still in the game
func (g *Game) IsActive(player *Player) bool {
	for _, p := range g.players {
		if p == player {
			return true
		}
	}
	return false
}

// Board returns the board the game is played on
func (g *Game) Board() *Board { return g.board }

// Round returns the number of turns applied so far
func (g *Game) Round() int { return g.round }

// IsFinished reports whether the game has ended
func (g *Game) IsFinished() bool { return g.finished }

// TerminatedByTimeout reports whether the game ended at the round limit
func (g *Game) TerminatedByTimeout() bool { return g.timeout }

// Winner returns the declared winner, or nil while the game is running
func (g *Game) Winner() *Player {
	return g.winner
}
