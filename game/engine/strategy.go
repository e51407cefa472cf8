package engine

import (
	"fmt"
	"strings"
)

// Strategy decides whether a player buys an unowned, affordable property
type Strategy interface {
	Name() string
	DecidePurchase(player *Player, property *Property) bool
}

// Strategy names
const (
	StrategyImpulsive = "impulsive"
	StrategyDemanding = "demanding"
	StrategyCautious  = "cautious"
	StrategyRandom    = "random"
)

var strategyAliases = map[string]string{
	StrategyImpulsive: StrategyImpulsive,
	StrategyDemanding: StrategyDemanding,
	StrategyCautious:  StrategyCautious,
	StrategyRandom:    StrategyRandom,
	"impulsivo":       StrategyImpulsive,
	"exigente":        StrategyDemanding,
	"cauteloso":       StrategyCautious,
	"aleatorio":       StrategyRandom,
}

// Impulsive buys every property it can afford
type Impulsive struct{}

func (Impulsive) Name() string { return StrategyImpulsive }

func (Impulsive) DecidePurchase(*Player, *Property) bool { return true }

// Demanding buys only properties whose rent exceeds DemandingMinRent
type Demanding struct{}

func (Demanding) Name() string { return StrategyDemanding }

func (Demanding) DecidePurchase(_ *Player, property *Property) bool {
	return property.Rent > DemandingMinRent
}

// Cautious buys only when at least CautiousReserve remains after paying
type Cautious struct{}

func (Cautious) Name() string { return StrategyCautious }

func (Cautious) DecidePurchase(player *Player, property *Property) bool {
	return player.Balance-property.Price >= CautiousReserve
}

// Random flips a fair coin on the shared random source
type Random struct {
	Rng Rand
}

func (Random) Name() string { return StrategyRandom }

func (r Random) DecidePurchase(*Player, *Property) bool {
	return r.Rng.Intn(2) == 1
}

// StrategyNames lists the built-in strategies in round-robin assignment order
func StrategyNames() []string {
	return []string{StrategyImpulsive, StrategyDemanding, StrategyCautious, StrategyRandom}
}

// CanonicalStrategyName resolves a strategy name or alias, case-insensitively
func CanonicalStrategyName(name string) (string, error) {
	canonical, ok := strategyAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %w %q", ErrInvalidConfig, ErrUnknownStrategy, name)
	}
	return canonical, nil
}

// NewStrategy builds a strategy by name. rng is required only for random.
func NewStrategy(name string, rng Rand) (Strategy, error) {
	canonical, err := CanonicalStrategyName(name)
	if err != nil {
		return nil, err
	}

	switch canonical {
	case StrategyImpulsive:
		return Impulsive{}, nil
	case StrategyDemanding:
		return Demanding{}, nil
	case StrategyCautious:
		return Cautious{}, nil
	default:
		if rng == nil {
			return nil, fmt.Errorf("%w: random strategy needs a random source", ErrInvalidConfig)
		}
		return Random{Rng: rng}, nil
	}
}
