package engine

// Player is a participant driven by a purchase strategy
type Player struct {
	ID       int
	Balance  int
	Position int
	Strategy Strategy

	holdings []*Property
}

// NewPlayer creates a player with the starting balance. The ID is assigned
// when the player joins a game.
func NewPlayer(strategy Strategy) *Player {
	return &Player{
		Balance:  StartingBalance,
		Strategy: strategy,
	}
}

// StrategyName returns the name of the player's strategy
func (p *Player) StrategyName() string {
	if p.Strategy == nil {
		return ""
	}
	return p.Strategy.Name()
}

// Holdings returns a copy of the owned properties in acquisition order
func (p *Player) Holdings() []*Property {
	out := make([]*Property, len(p.holdings))
	copy(out, p.holdings)
	return out
}

// Owns reports whether the property is among the player's holdings
func (p *Player) Owns(property *Property) bool {
	return property != nil && property.owner == p
}

func (p *Player) reset() {
	p.Balance = StartingBalance
	p.Position = 0
	p.holdings = nil
}

func (p *Player) acquire(property *Property) {
	property.owner = p
	p.holdings = append(p.holdings, property)
}

// releaseAll returns every holding to the bank
func (p *Player) releaseAll() {
	for _, property := range p.holdings {
		property.owner = nil
	}
	p.holdings = nil
}

func (p *Player) view(active bool) PlayerView {
	ids := make([]int, len(p.holdings))
	for i, property := range p.holdings {
		ids[i] = property.ID
	}
	return PlayerView{
		ID:       p.ID,
		Strategy: p.StrategyName(),
		Balance:  p.Balance,
		Position: p.Position,
		Active:   active,
		Holdings: ids,
	}
}
