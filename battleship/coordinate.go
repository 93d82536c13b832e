package battleship

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinate addresses a single cell, rows and columns both 0 based.
// The text form is row letter plus 1 based column, A1 through J10.
type Coordinate struct {
	Row int
	Col int
}

func (c Coordinate) Valid() bool {
	return c.Row >= 0 && c.Row < BoardSize && c.Col >= 0 && c.Col < BoardSize
}

func (c Coordinate) String() string {
	if !c.Valid() {
		return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
	}
	return fmt.Sprintf("%c%d", 'A'+c.Row, c.Col+1)
}

func ParseCoordinate(s string) (Coordinate, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 || len(s) > 3 {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q", s)
	}
	col, err := strconv.Atoi(s[1:])
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q", s)
	}
	c := Coordinate{Row: int(s[0] - 'A'), Col: col - 1}
	if !c.Valid() {
		return Coordinate{}, fmt.Errorf("coordinate %q outside the %dx%d board", s, BoardSize, BoardSize)
	}
	return c, nil
}
