package battleship

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

type CellState uint8

const (
	CellEmpty CellState = iota
	CellShip
	CellMiss
	CellHit
)

var (
	ErrInvalidPlacement = errors.New("invalid ship placement")
	ErrOutOfBounds      = errors.New("coordinate out of bounds")
	ErrAlreadyFired     = errors.New("cell already fired upon")
)

type Ship struct {
	Class ShipClass
	Cells []Coordinate
	Hits  int
}

func (s *Ship) Sunk() bool {
	return s.Hits >= s.Class.Size
}

// ShotResult is the authoritative outcome of one shot, computed by the
// board owner and mirrored verbatim to the shooter.
type ShotResult struct {
	Coordinate Coordinate
	Hit        bool
	Sunk       ShipType
	AllSunk    bool
}

// Board holds one player's own ships and every shot received against them.
// The grid is derived state, ship cells marked CellShip until resolved.
type Board struct {
	grid  [BoardSize][BoardSize]CellState
	ships map[ShipType]*Ship
}

func NewBoard() *Board {
	return &Board{ships: make(map[ShipType]*Ship)}
}

func (b *Board) PlaceShip(t ShipType, anchor Coordinate, horizontal bool) error {
	class, ok := ClassOf(t)
	if !ok {
		return fmt.Errorf("%w: unknown ship type %q", ErrInvalidPlacement, t)
	}
	if b.ships[t] != nil {
		return fmt.Errorf("%w: %s already placed", ErrInvalidPlacement, t)
	}
	cells := make([]Coordinate, class.Size)
	for i := range cells {
		c := anchor
		if horizontal {
			c.Col += i
		} else {
			c.Row += i
		}
		if !c.Valid() {
			return fmt.Errorf("%w: %s extends outside the board", ErrInvalidPlacement, t)
		}
		if b.grid[c.Row][c.Col] != CellEmpty {
			return fmt.Errorf("%w: %s overlaps another ship at %s", ErrInvalidPlacement, t, c)
		}
		cells[i] = c
	}
	for _, c := range cells {
		b.grid[c.Row][c.Col] = CellShip
	}
	b.ships[t] = &Ship{Class: class, Cells: cells}
	return nil
}

func (b *Board) FullyPlaced() bool {
	return len(b.ships) == len(Fleet)
}

func (b *Board) Placed(t ShipType) bool {
	return b.ships[t] != nil
}

// ResolveShot marks the cell and reports the outcome. A cell resolves at
// most once, a second shot at it fails with ErrAlreadyFired.
func (b *Board) ResolveShot(c Coordinate) (ShotResult, error) {
	if !c.Valid() {
		return ShotResult{}, fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	res := ShotResult{Coordinate: c}
	switch b.grid[c.Row][c.Col] {
	case CellHit, CellMiss:
		return ShotResult{}, fmt.Errorf("%w: %s", ErrAlreadyFired, c)
	case CellShip:
		b.grid[c.Row][c.Col] = CellHit
		ship := b.shipAt(c)
		ship.Hits++
		res.Hit = true
		if ship.Sunk() {
			res.Sunk = ship.Class.Type
		}
		res.AllSunk = b.AllSunk()
	default:
		b.grid[c.Row][c.Col] = CellMiss
	}
	return res, nil
}

func (b *Board) shipAt(c Coordinate) *Ship {
	for _, s := range b.ships {
		for _, sc := range s.Cells {
			if sc == c {
				return s
			}
		}
	}
	return nil
}

func (b *Board) AllSunk() bool {
	if !b.FullyPlaced() {
		return false
	}
	for _, s := range b.ships {
		if !s.Sunk() {
			return false
		}
	}
	return true
}

func (b *Board) Cells() [BoardSize][BoardSize]CellState {
	return b.grid
}

func (b *Board) Ships() []*Ship {
	ships := make([]*Ship, 0, len(b.ships))
	for _, class := range Fleet {
		if s := b.ships[class.Type]; s != nil {
			ships = append(ships, s)
		}
	}
	return ships
}

func (b *Board) Reset() {
	b.grid = [BoardSize][BoardSize]CellState{}
	b.ships = make(map[ShipType]*Ship)
}

// RandomPlacement fills every missing catalog ship at randomized anchors.
// A nil rnd gets a time seeded source. Placement of the full catalog on an
// empty board cannot exhaust a 10x10 grid, the attempt cap only guards a
// nearly full board.
func RandomPlacement(b *Board, rnd *rand.Rand) error {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	for _, class := range Fleet {
		if b.Placed(class.Type) {
			continue
		}
		placed := false
		for attempt := 0; attempt < 1000 && !placed; attempt++ {
			anchor := Coordinate{Row: rnd.Intn(BoardSize), Col: rnd.Intn(BoardSize)}
			placed = b.PlaceShip(class.Type, anchor, rnd.Intn(2) == 0) == nil
		}
		if !placed {
			return fmt.Errorf("no room left for %s", class.Type)
		}
	}
	return nil
}
