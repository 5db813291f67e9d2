package minesweeper

import (
	"math/rand"

	cerr "github.com/BradleyStaples/minesweeper/internal/error"
)

// The 8 neighbor offsets around a cell, clockwise from north.
var neighborOffsets = [8]Coords{
	{Row: -1, Col: 0},
	{Row: -1, Col: 1},
	{Row: 0, Col: 1},
	{Row: 1, Col: 1},
	{Row: 1, Col: 0},
	{Row: 1, Col: -1},
	{Row: 0, Col: -1},
	{Row: -1, Col: -1},
}

// Cell keeps the mine fact as an ordinary field so the grid
// survives a JSON round trip through the save slot. The concealment
// of this fact from the browser is enforced by the API surface
// (handlers only ship adjacency counts and reveal results), not here.
type Cell struct {
	HasMine bool `json:"has_mine"`
}

type Board struct {
	Rows int      `json:"rows"`
	Cols int      `json:"cols"`
	Grid [][]Cell `json:"grid"`
}

// NewBoard allocates a rows x cols grid of mine-free cells.
// Pure allocation, no randomness.
func NewBoard(rows, cols int) (*Board, error) {
	if rows < 1 || cols < 1 {
		return nil, cerr.ErrInvalidBoardDims(rows, cols)
	}

	grid := make([][]Cell, rows)
	for r := range grid {
		grid[r] = make([]Cell, cols)
	}

	return &Board{Rows: rows, Cols: cols, Grid: grid}, nil
}

func (b *Board) Contains(row, col int) bool {
	return row >= 0 && row < b.Rows && col >= 0 && col < b.Cols
}

// CellAt returns the cell at (row, col). Out-of-range queries
// report ok=false instead of failing so adjacency and reveal
// logic can probe freely past the edges.
func (b *Board) CellAt(row, col int) (Cell, bool) {
	if !b.Contains(row, col) {
		return Cell{}, false
	}
	return b.Grid[row][col], true
}

func (b *Board) MineAt(row, col int) bool {
	cell, ok := b.CellAt(row, col)
	return ok && cell.HasMine
}

// PlantMines places exactly mineCount mines on uniformly random
// cells. An attempt landing on an already mined cell is a no-op and
// gets re-drawn, so the final mined count equals mineCount and no
// cell is planted twice. mineCount >= rows*cols would make the
// retry loop spin forever, so it is rejected here at the boundary.
func (b *Board) PlantMines(mineCount int) error {
	if mineCount < 0 || mineCount >= b.Rows*b.Cols {
		return cerr.ErrMineCountExceedsBoard(mineCount, b.Rows*b.Cols)
	}

	planted := 0
	for planted < mineCount {
		row := rand.Intn(b.Rows)
		col := rand.Intn(b.Cols)

		if !b.Grid[row][col].HasMine {
			b.Grid[row][col].HasMine = true
			planted++
		}
	}
	return nil
}

// AdjacentMines counts mines among the 8 neighbors of (row, col).
// Out-of-bounds neighbors contribute 0; the result is always in [0, 8].
func (b *Board) AdjacentMines(row, col int) int {
	count := 0
	for _, offset := range neighborOffsets {
		if b.MineAt(row+offset.Row, col+offset.Col) {
			count++
		}
	}
	return count
}

func (b *Board) MineCount() int {
	count := 0
	for r := range b.Grid {
		for c := range b.Grid[r] {
			if b.Grid[r][c].HasMine {
				count++
			}
		}
	}
	return count
}

// MineCoords returns the position of every mine on the board.
// Consumed by the game-over payload; never exposed mid-game.
func (b *Board) MineCoords() []Coords {
	coords := make([]Coords, 0, b.MineCount())
	for r := range b.Grid {
		for c := range b.Grid[r] {
			if b.Grid[r][c].HasMine {
				coords = append(coords, NewCoords(r, c))
			}
		}
	}
	return coords
}
