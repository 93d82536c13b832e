package battleship

const BoardSize = 10

type ShipType string

const (
	ShipCarrier    ShipType = "Carrier"
	ShipBattleship ShipType = "Battleship"
	ShipCruiser    ShipType = "Cruiser"
	ShipSubmarine  ShipType = "Submarine"
	ShipDestroyer  ShipType = "Destroyer"
)

type ShipClass struct {
	Type ShipType
	Size int
}

// Fleet is the fixed catalog every board must place, kept as data so a
// catalog change never touches control flow.
var Fleet = []ShipClass{
	{ShipCarrier, 5},
	{ShipBattleship, 4},
	{ShipCruiser, 3},
	{ShipSubmarine, 3},
	{ShipDestroyer, 2},
}

func ClassOf(t ShipType) (ShipClass, bool) {
	for _, c := range Fleet {
		if c.Type == t {
			return c, true
		}
	}
	return ShipClass{}, false
}

func FleetCells() int {
	var total int
	for _, c := range Fleet {
		total += c.Size
	}
	return total
}
