package minesweeper

type Coords struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewCoords(row, col int) Coords {
	return Coords{Row: row, Col: col}
}

// CoordSet tracks which cells have been revealed or flagged.
// Membership is the only thing that matters, hence the empty values.
type CoordSet map[Coords]struct{}

func NewCoordSet(coords ...Coords) CoordSet {
	set := make(CoordSet, len(coords))
	for _, c := range coords {
		set[c] = struct{}{}
	}
	return set
}

func (cs CoordSet) Add(c Coords) {
	cs[c] = struct{}{}
}

func (cs CoordSet) Remove(c Coords) {
	delete(cs, c)
}

func (cs CoordSet) Has(c Coords) bool {
	_, prs := cs[c]
	return prs
}

func (cs CoordSet) Len() int {
	return len(cs)
}

func (cs CoordSet) ToSlice() []Coords {
	coords := make([]Coords, 0, len(cs))
	for c := range cs {
		coords = append(coords, c)
	}
	return coords
}

func (cs CoordSet) Clone() CoordSet {
	clone := make(CoordSet, len(cs))
	for c := range cs {
		clone[c] = struct{}{}
	}
	return clone
}
