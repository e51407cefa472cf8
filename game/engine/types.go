package engine

import "errors"

// Game rules
const (
	StartingBalance = 300
	LapBonus        = 100
	MaxRounds       = 1000

	MinPrice    = 100
	MaxPrice    = 300
	RentPercent = 25
	DieFaces    = 6

	// Strategy thresholds
	DemandingMinRent = 50
	CautiousReserve  = 80

	// Validation constants
	MinBoardSize = 1
	MaxBoardSize = 500
	MinPlayers   = 1
	MaxPlayers   = 64

	// NoWinner is reported when no active player is left to rank.
	NoWinner = "no_winner"
)

var (
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// Rand is the single source of randomness shared by the board, the dice,
// the Random strategy and the initial shuffle. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// EventType identifies a sub-step recorded in the game log
type EventType string

const (
	EventMove        EventType = "move"
	EventLapBonus    EventType = "lap_bonus"
	EventRent        EventType = "rent"
	EventElimination EventType = "elimination"
	EventPurchase    EventType = "purchase"
	EventFinished    EventType = "finished"
)

// Event is one entry of the game log
type Event struct {
	Seq           int       `json:"seq"`
	Type          EventType `json:"type"`
	Round         int       `json:"round"`
	PlayerID      int       `json:"player_id"`
	Strategy      string    `json:"strategy"`
	Dice          int       `json:"dice,omitempty"`
	From          int       `json:"from"`
	To            int       `json:"to"`
	PropertyID    int       `json:"property_id,omitempty"`
	Amount        int       `json:"amount,omitempty"`
	CounterpartID int       `json:"counterpart_id,omitempty"`
	Balance       int       `json:"balance"`
	Message       string    `json:"message"`
}

// Result is the terminal report of a game
type Result struct {
	Winner              string   `json:"winner"`
	Players             []string `json:"players"`
	TerminatedByTimeout bool     `json:"terminated_by_timeout"`
	Rounds              int      `json:"rounds"`
}

// Standing is one row of the ranking table
type Standing struct {
	Place    int    `json:"place"`
	PlayerID int    `json:"player_id"`
	Strategy string `json:"strategy"`
	Balance  int    `json:"balance"`
	Holdings int    `json:"holdings"`
}

// PlayerView is the read-only view of a player used by renderers
type PlayerView struct {
	ID       int    `json:"id"`
	Strategy string `json:"strategy"`
	Balance  int    `json:"balance"`
	Position int    `json:"position"`
	Active   bool   `json:"active"`
	Holdings []int  `json:"holdings"`
}

// PropertyView is the read-only view of a board tile
type PropertyView struct {
	ID      int `json:"id"`
	Price   int `json:"price"`
	Rent    int `json:"rent"`
	OwnerID int `json:"owner_id,omitempty"`
}

// Snapshot represents the complete observable game state
type Snapshot struct {
	Round               int            `json:"round"`
	Finished            bool           `json:"finished"`
	TerminatedByTimeout bool           `json:"terminated_by_timeout"`
	WinnerID            int            `json:"winner_id,omitempty"`
	Winner              string         `json:"winner,omitempty"`
	TurnOrder           []int          `json:"turn_order"`
	Players             []PlayerView   `json:"players"`
	Properties          []PropertyView `json:"properties"`
	EventCount          int            `json:"event_count"`
}
