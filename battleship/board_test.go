package battleship

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoardPlacement(t *testing.T) {
	require := require.New(t)

	b := NewBoard()
	require.False(b.FullyPlaced())

	err := b.PlaceShip(ShipDestroyer, Coordinate{0, 0}, true)
	require.Nil(err)
	require.Equal(CellShip, b.Cells()[0][0])
	require.Equal(CellShip, b.Cells()[0][1])

	err = b.PlaceShip(ShipSubmarine, Coordinate{0, 1}, true)
	require.NotNil(err)
	require.ErrorIs(err, ErrInvalidPlacement)

	err = b.PlaceShip(ShipDestroyer, Coordinate{5, 5}, true)
	require.ErrorIs(err, ErrInvalidPlacement)

	err = b.PlaceShip(ShipCarrier, Coordinate{9, 6}, true)
	require.ErrorIs(err, ErrInvalidPlacement)
	err = b.PlaceShip(ShipCarrier, Coordinate{6, 9}, false)
	require.ErrorIs(err, ErrInvalidPlacement)
	err = b.PlaceShip(ShipCarrier, Coordinate{-1, 0}, true)
	require.ErrorIs(err, ErrInvalidPlacement)

	err = b.PlaceShip("Tugboat", Coordinate{4, 4}, true)
	require.ErrorIs(err, ErrInvalidPlacement)

	err = b.PlaceShip(ShipCarrier, Coordinate{2, 0}, true)
	require.Nil(err)
	err = b.PlaceShip(ShipBattleship, Coordinate{3, 0}, true)
	require.Nil(err)
	err = b.PlaceShip(ShipCruiser, Coordinate{4, 0}, true)
	require.Nil(err)
	err = b.PlaceShip(ShipSubmarine, Coordinate{5, 0}, true)
	require.Nil(err)

	require.True(b.FullyPlaced())
	require.Equal(17, countCells(b, CellShip))
	require.Len(b.Ships(), 5)
	require.False(b.AllSunk())

	b.Reset()
	require.False(b.FullyPlaced())
	require.Equal(0, countCells(b, CellShip))
}

func TestBoardResolveShot(t *testing.T) {
	require := require.New(t)

	b := fullyPlacedBoard(t)

	res, err := b.ResolveShot(Coordinate{0, 0})
	require.Nil(err)
	require.True(res.Hit)
	require.Equal(ShipType(""), res.Sunk)
	require.False(res.AllSunk)
	require.Equal(CellHit, b.Cells()[0][0])

	_, err = b.ResolveShot(Coordinate{0, 0})
	require.ErrorIs(err, ErrAlreadyFired)
	require.Equal(CellHit, b.Cells()[0][0])

	res, err = b.ResolveShot(Coordinate{9, 9})
	require.Nil(err)
	require.False(res.Hit)
	require.Equal(CellMiss, b.Cells()[9][9])

	_, err = b.ResolveShot(Coordinate{9, 9})
	require.ErrorIs(err, ErrAlreadyFired)

	_, err = b.ResolveShot(Coordinate{10, 0})
	require.ErrorIs(err, ErrOutOfBounds)
	_, err = b.ResolveShot(Coordinate{0, -1})
	require.ErrorIs(err, ErrOutOfBounds)

	res, err = b.ResolveShot(Coordinate{0, 1})
	require.Nil(err)
	require.True(res.Hit)
	require.Equal(ShipDestroyer, res.Sunk)
	require.False(res.AllSunk)
}

func TestBoardAllSunk(t *testing.T) {
	require := require.New(t)

	b := fullyPlacedBoard(t)
	var hits int
	for _, s := range b.Ships() {
		for _, c := range s.Cells {
			res, err := b.ResolveShot(c)
			require.Nil(err)
			require.True(res.Hit)
			hits++
			if hits < FleetCells() {
				require.False(res.AllSunk)
				require.False(b.AllSunk())
			} else {
				require.True(res.AllSunk)
				require.True(b.AllSunk())
			}
		}
	}
	require.Equal(17, hits)
}

func TestRandomPlacement(t *testing.T) {
	require := require.New(t)

	for seed := int64(0); seed < 8; seed++ {
		b := NewBoard()
		err := RandomPlacement(b, rand.New(rand.NewSource(seed)))
		require.Nil(err)
		require.True(b.FullyPlaced())
		require.Equal(17, countCells(b, CellShip))
	}
}

func fullyPlacedBoard(t *testing.T) *Board {
	require := require.New(t)
	b := NewBoard()
	require.Nil(b.PlaceShip(ShipDestroyer, Coordinate{0, 0}, true))
	require.Nil(b.PlaceShip(ShipCarrier, Coordinate{2, 0}, true))
	require.Nil(b.PlaceShip(ShipBattleship, Coordinate{3, 0}, true))
	require.Nil(b.PlaceShip(ShipCruiser, Coordinate{4, 0}, true))
	require.Nil(b.PlaceShip(ShipSubmarine, Coordinate{5, 0}, true))
	return b
}

func countCells(b *Board, state CellState) int {
	var n int
	grid := b.Cells()
	for i := 0; i < BoardSize; i++ {
		for j := 0; j < BoardSize; j++ {
			if grid[i][j] == state {
				n++
			}
		}
	}
	return n
}
