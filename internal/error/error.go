package error

import "fmt"

const (
	ConstErrRevealFailed = "reveal operation failed"
	ConstErrFlagFailed   = "flag operation failed"
)

func ErrGameNotExists(gameUuid string) error {
	return fmt.Errorf("game with this uuid does not exist, uuid: %s", gameUuid)
}

func ErrNoActiveGame(sessionId string) error {
	return fmt.Errorf("no active game for this session, session: %s", sessionId)
}

func ErrGameNotActive(gameUuid string) error {
	return fmt.Errorf("game has already ended, uuid: %s", gameUuid)
}

func ErrSessionNotFound(sessionId string) error {
	return fmt.Errorf("session with this id does not exist, id: %s", sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session with this id is nil, id: %s", sessionId)
}

func ErrInvalidBoardDims(rows, cols int) error {
	return fmt.Errorf("board dimensions must be at least 1x1\trows: %d\tcols: %d", rows, cols)
}

func ErrInvalidSizeMultiplier(multiplier int) error {
	return fmt.Errorf("board size multiplier must be 1, 2 or 4\tgot: %d", multiplier)
}

func ErrMineCountExceedsBoard(mineCount, cells int) error {
	return fmt.Errorf("mine count must be less than the number of cells\tmines: %d\tcells: %d", mineCount, cells)
}

func ErrCellNotExists(row, col int) error {
	return fmt.Errorf("no such cell on the board\trow: %d\tcol: %d", row, col)
}

func ErrCellAlreadyRevealed(row, col int) error {
	return fmt.Errorf("this cell is already revealed\trow: %d\tcol: %d", row, col)
}

func ErrNothingToLoad() error {
	return fmt.Errorf("no saved game exists in the save slot")
}

func ErrCorruptSnapshot(detail string) error {
	return fmt.Errorf("saved game snapshot could not be restored: %s", detail)
}
