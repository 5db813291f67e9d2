package minesweeper

import (
	"strconv"
	"strings"

	cerr "github.com/BradleyStaples/minesweeper/internal/error"
)

const (
	// Base board dimension; the size multiplier scales it to
	// 8x8, 16x16 or 32x32.
	BaseBoardDim = 8

	DefaultMineCount = 10
)

const (
	SizeMultiplierSmall  int = 1
	SizeMultiplierMedium int = 2
	SizeMultiplierLarge  int = 4
)

type BoardConfig struct {
	Rows      int
	Cols      int
	MineCount int
}

// NewBoardConfig interprets the raw inputs coming from the
// presentation layer. The mine count arrives as free-form text;
// anything not interpretable as a number is ignored and the default
// of 10 kept. A mine count the board cannot hold is rejected here so
// the planting loop downstream always terminates.
func NewBoardConfig(sizeMultiplier int, mineCountRaw string) (BoardConfig, error) {
	if sizeMultiplier != SizeMultiplierSmall &&
		sizeMultiplier != SizeMultiplierMedium &&
		sizeMultiplier != SizeMultiplierLarge {
		return BoardConfig{}, cerr.ErrInvalidSizeMultiplier(sizeMultiplier)
	}

	dim := BaseBoardDim * sizeMultiplier

	mineCount := DefaultMineCount
	if n, err := strconv.Atoi(strings.TrimSpace(mineCountRaw)); err == nil && n >= 0 {
		mineCount = n
	}

	if mineCount >= dim*dim {
		return BoardConfig{}, cerr.ErrMineCountExceedsBoard(mineCount, dim*dim)
	}

	return BoardConfig{Rows: dim, Cols: dim, MineCount: mineCount}, nil
}
