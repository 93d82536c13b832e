package battleship

type TrackState uint8

const (
	TrackUnknown TrackState = iota
	TrackMiss
	TrackHit
)

// Tracking is the opponent view grid, it records only the outcomes of this
// side's own shots and never the peer's real layout.
type Tracking struct {
	grid [BoardSize][BoardSize]TrackState
}

func NewTracking() *Tracking {
	return &Tracking{}
}

func (t *Tracking) Fired(c Coordinate) bool {
	return c.Valid() && t.grid[c.Row][c.Col] != TrackUnknown
}

func (t *Tracking) Mark(c Coordinate, hit bool) {
	if !c.Valid() {
		return
	}
	if hit {
		t.grid[c.Row][c.Col] = TrackHit
	} else {
		t.grid[c.Row][c.Col] = TrackMiss
	}
}

func (t *Tracking) Cell(c Coordinate) TrackState {
	if !c.Valid() {
		return TrackUnknown
	}
	return t.grid[c.Row][c.Col]
}

func (t *Tracking) Cells() [BoardSize][BoardSize]TrackState {
	return t.grid
}

func (t *Tracking) Reset() {
	t.grid = [BoardSize][BoardSize]TrackState{}
}
