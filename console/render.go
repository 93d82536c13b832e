package console

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/CrymeFTW/1v1-games/battleship"
	"github.com/CrymeFTW/1v1-games/session"
)

var (
	ownCell = map[battleship.CellState]byte{
		battleship.CellEmpty: '.',
		battleship.CellShip:  'S',
		battleship.CellMiss:  'o',
		battleship.CellHit:   'X',
	}
	seenCell = map[battleship.TrackState]byte{
		battleship.TrackUnknown: '.',
		battleship.TrackMiss:    'o',
		battleship.TrackHit:     'X',
	}
)

// renderBoards draws the own fleet beside the shot record, rows A to J and
// columns 1 to 10 to match the fire command syntax.
func renderBoards(s *session.Session) string {
	board := s.BoardCells()
	tracking := s.TrackingCells()

	buf := &bytes.Buffer{}
	w := tabwriter.NewWriter(buf, 0, 8, 4, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", "YOUR FLEET", "YOUR SHOTS")
	fmt.Fprintf(w, "%s\t%s\n", columnHeader(), columnHeader())
	for r := 0; r < battleship.BoardSize; r++ {
		left := rowCells(r, func(c int) byte { return ownCell[board[r][c]] })
		right := rowCells(r, func(c int) byte { return seenCell[tracking[r][c]] })
		fmt.Fprintf(w, "%s\t%s\n", left, right)
	}
	w.Flush()
	return buf.String()
}

func columnHeader() string {
	b := &bytes.Buffer{}
	b.WriteString("  ")
	for col := 1; col <= battleship.BoardSize; col++ {
		fmt.Fprintf(b, "%3d", col)
	}
	return b.String()
}

func rowCells(r int, cell func(c int) byte) string {
	b := &bytes.Buffer{}
	fmt.Fprintf(b, "%c ", 'A'+r)
	for c := 0; c < battleship.BoardSize; c++ {
		fmt.Fprintf(b, "%3c", cell(c))
	}
	return b.String()
}
