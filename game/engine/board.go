package engine

import "fmt"

// Property is a purchasable tile. The owner is a relation only; the owning
// player keeps the property in its holdings.
type Property struct {
	ID    int `json:"id"`
	Price int `json:"price"`
	Rent  int `json:"rent"`

	owner *Player
}

// NewProperty creates an unowned property whose rent is derived from the price
func NewProperty(id, price int) *Property {
	return &Property{
		ID:    id,
		Price: price,
		Rent:  price * RentPercent / 100,
	}
}

// Owner returns the current owner, or nil
func (p *Property) Owner() *Player {
	return p.owner
}

// IsOwned reports whether someone holds the property
func (p *Property) IsOwned() bool {
	return p.owner != nil
}

// Board is the fixed circular sequence of properties
type Board struct {
	properties []*Property
	rng        Rand
}

// GenerateBoard creates count properties with prices drawn uniformly from
// [MinPrice, MaxPrice].
func GenerateBoard(count int, rng Rand) (*Board, error) {
	if count < MinBoardSize {
		return nil, fmt.Errorf("%w: board size must be at least %d, got %d", ErrInvalidConfig, MinBoardSize, count)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrInvalidConfig)
	}

	properties := make([]*Property, count)
	for i := range properties {
		price := rng.Intn(MaxPrice-MinPrice+1) + MinPrice
		properties[i] = NewProperty(i+1, price)
	}

	return &Board{properties: properties, rng: rng}, nil
}

// NewBoardFromPrices builds a board with a fixed price layout
func NewBoardFromPrices(prices []int, rng Rand) (*Board, error) {
	if len(prices) < MinBoardSize {
		return nil, fmt.Errorf("%w: board must have at least %d property", ErrInvalidConfig, MinBoardSize)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrInvalidConfig)
	}

	properties := make([]*Property, len(prices))
	for i, price := range prices {
		if price <= 0 {
			return nil, fmt.Errorf("%w: property %d has non-positive price %d", ErrInvalidConfig, i+1, price)
		}
		properties[i] = NewProperty(i+1, price)
	}

	return &Board{properties: properties, rng: rng}, nil
}

// RollDie returns a uniform value in [1, DieFaces]
func (b *Board) RollDie() int {
	return b.rng.Intn(DieFaces) + 1
}

// Advance returns the position reached after moving steps tiles
func (b *Board) Advance(position, steps int) int {
	n := len(b.properties)
	return ((position+steps)%n + n) % n
}

// Len returns the number of tiles
func (b *Board) Len() int {
	return len(b.properties)
}

// At returns the property at a board position
func (b *Board) At(position int) *Property {
	return b.properties[position]
}

// Properties returns the tiles in board order
func (b *Board) Properties() []*Property {
	out := make([]*Property, len(b.properties))
	copy(out, b.properties)
	return out
}
