package minesweeper

// RevealedCell is a reveal result the presentation layer can render:
// a coordinate plus the adjacency count that picks the display glyph.
type RevealedCell struct {
	Row           int `json:"row"`
	Col           int `json:"col"`
	AdjacentMines int `json:"adjacent_mines"`
}

// RevealFlood reveals the cell at (row, col) and, if it has zero
// adjacent mines, expands through the whole connected zero-adjacency
// region plus its bordering numbered cells. The traversal is an
// explicit worklist with the revealed set doubling as the visited
// set, so depth is bounded by the slice, not the call stack.
//
// Cells that are out of bounds or already revealed contribute
// nothing. Mined cells never enter the result: revealing a mine is a
// distinct action resolved by the caller before flood filling, and a
// zero-adjacency region cannot border a mine by definition.
//
// The revealed set is mutated in place; the returned slice holds only
// the newly revealed cells of this call.
func RevealFlood(b *Board, row, col int, revealed CoordSet) []RevealedCell {
	if !b.Contains(row, col) || b.MineAt(row, col) {
		return nil
	}

	var newly []RevealedCell
	worklist := []Coords{NewCoords(row, col)}

	for len(worklist) > 0 {
		cur := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if !b.Contains(cur.Row, cur.Col) || revealed.Has(cur) || b.MineAt(cur.Row, cur.Col) {
			continue
		}

		revealed.Add(cur)
		adjacent := b.AdjacentMines(cur.Row, cur.Col)
		newly = append(newly, RevealedCell{Row: cur.Row, Col: cur.Col, AdjacentMines: adjacent})

		// Numbered cells are revealed but stop the expansion.
		if adjacent != 0 {
			continue
		}

		for _, offset := range neighborOffsets {
			worklist = append(worklist, NewCoords(cur.Row+offset.Row, cur.Col+offset.Col))
		}
	}

	return newly
}
