package minesweeper

type Outcome int

const (
	GameOutcomeLoss      Outcome = -1
	GameOutcomeUndefined Outcome = 0
	GameOutcomeWin       Outcome = 1
)

// EvaluateOutcome scores a finished (or auto-concluded) game.
//
// It is a loss when:
//   - a mined cell was directly revealed, or
//   - any flagged cell holds no mine (a false flag implies a mine
//     was missed elsewhere), or
//   - the unknown cells (neither revealed nor flagged) are a strict
//     mix of mined and mine-free. The player may leave mines
//     unrevealed only when every remaining unknown cell is a mine;
//     a mine-free unknown cell was safely revealable and counts as
//     an unresolved ambiguity.
//
// Anything else is a win. On a loss the second return value lists
// the mines the player never resolved (unrevealed and unflagged),
// which the presentation layer marks as "missed".
func EvaluateOutcome(b *Board, revealed, flagged CoordSet) (Outcome, []Coords) {
	for c := range revealed {
		if b.MineAt(c.Row, c.Col) {
			return GameOutcomeLoss, missedMines(b, revealed, flagged)
		}
	}

	for c := range flagged {
		if !b.MineAt(c.Row, c.Col) {
			return GameOutcomeLoss, missedMines(b, revealed, flagged)
		}
	}

	unknown, unknownMined := 0, 0
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			coords := NewCoords(r, c)
			if revealed.Has(coords) || flagged.Has(coords) {
				continue
			}
			unknown++
			if b.Grid[r][c].HasMine {
				unknownMined++
			}
		}
	}

	if unknownMined != 0 && unknownMined != unknown {
		return GameOutcomeLoss, missedMines(b, revealed, flagged)
	}

	return GameOutcomeWin, nil
}

// missedMines lists every mined cell the player neither revealed
// nor flagged.
func missedMines(b *Board, revealed, flagged CoordSet) []Coords {
	var missed []Coords
	for _, c := range b.MineCoords() {
		if !revealed.Has(c) && !flagged.Has(c) {
			missed = append(missed, c)
		}
	}
	return missed
}
