package minesweeper

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	cerr "github.com/BradleyStaples/minesweeper/internal/error"
)

// RevealResult is everything the presentation layer needs after a
// left click: the newly revealed cells with their glyph counts, and
// the game-over report when the click concluded the game.
type RevealResult struct {
	MineHit        bool
	Cells          []RevealedCell
	MinesRemaining int
	Clicks         int
	GameOver       bool
	Outcome        Outcome
	MissedMines    []Coords
	Mines          []Coords
}

type FlagResult struct {
	Flagged        bool
	MinesRemaining int
	Clicks         int
	GameOver       bool
	Outcome        Outcome
	MissedMines    []Coords
	Mines          []Coords
}

// Game is the one live session around a Board: the revealed and
// flagged sets, the counters, and the active flag. Exactly one Game
// serves a browser session at a time; starting or loading a game
// replaces the previous one wholesale.
//
// The elapsed-seconds ticker runs on its own goroutine, hence the
// mutex; gameplay itself is serialized by the session loop.
type Game struct {
	uuid        string
	board       *Board
	revealed    CoordSet
	flagged     CoordSet
	mineTarget  int
	clicks      int
	seconds     int
	active      bool
	outcome     Outcome
	stopTicking chan struct{}
	endOnce     sync.Once
	mu          sync.Mutex
}

func newGame(board *Board, mineTarget int) *Game {
	return &Game{
		uuid:        uuid.NewString()[:6],
		board:       board,
		revealed:    NewCoordSet(),
		flagged:     NewCoordSet(),
		mineTarget:  mineTarget,
		active:      true,
		outcome:     GameOutcomeUndefined,
		stopTicking: make(chan struct{}),
	}
}

// NewGame allocates a fresh board per the config and plants its mines.
func NewGame(cfg BoardConfig) (*Game, error) {
	board, err := NewBoard(cfg.Rows, cfg.Cols)
	if err != nil {
		return nil, err
	}
	if err := board.PlantMines(cfg.MineCount); err != nil {
		return nil, err
	}
	return newGame(board, cfg.MineCount), nil
}

// NewGameFromBoard wraps an already prepared board in a fresh
// session. The mine target is whatever the board carries.
func NewGameFromBoard(board *Board) *Game {
	return newGame(board, board.MineCount())
}

func (g *Game) Uuid() string {
	return g.uuid
}

func (g *Game) Rows() int {
	return g.board.Rows
}

func (g *Game) Cols() int {
	return g.board.Cols
}

func (g *Game) MineTarget() int {
	return g.mineTarget
}

func (g *Game) IsActive() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

func (g *Game) Outcome() Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.outcome
}

func (g *Game) Clicks() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.clicks
}

func (g *Game) Seconds() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seconds
}

// MinesRemaining is the mine target minus the flags placed. It can
// go negative when the player over-flags; the auto-validation
// trigger treats that the same as reaching zero.
func (g *Game) MinesRemaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.minesRemainingLocked()
}

func (g *Game) minesRemainingLocked() int {
	return g.mineTarget - g.flagged.Len()
}

func (g *Game) unknownCountLocked() int {
	return g.board.Rows*g.board.Cols - g.revealed.Len() - g.flagged.Len()
}

// RunTicker advances the elapsed-seconds counter once a second until
// the game ends. Purely additive; it carries no coupling with the
// gameplay logic beyond sharing the mutex.
func (g *Game) RunTicker() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.mu.Lock()
			g.seconds++
			g.mu.Unlock()

		case <-g.stopTicking:
			return
		}
	}
}

// End freezes the game with the given outcome and cancels the
// ticker. Safe to call more than once; only the first call counts.
func (g *Game) End(outcome Outcome) {
	g.endOnce.Do(func() {
		g.mu.Lock()
		g.active = false
		g.outcome = outcome
		g.mu.Unlock()
		close(g.stopTicking)
	})
}

// Reveal resolves a left click on (row, col). Revealing a mined cell
// is the distinct losing action and never flood-fills; anything else
// goes through RevealFlood. After the reveal the auto-validation
// thresholds are checked and may conclude the game.
func (g *Game) Reveal(row, col int) (RevealResult, error) {
	g.mu.Lock()

	if !g.active {
		g.mu.Unlock()
		return RevealResult{}, cerr.ErrGameNotActive(g.uuid)
	}
	if !g.board.Contains(row, col) {
		g.mu.Unlock()
		return RevealResult{}, cerr.ErrCellNotExists(row, col)
	}

	coords := NewCoords(row, col)
	if g.revealed.Has(coords) {
		g.mu.Unlock()
		return RevealResult{}, cerr.ErrCellAlreadyRevealed(row, col)
	}

	g.clicks++
	result := RevealResult{Clicks: g.clicks}

	if g.board.MineAt(row, col) {
		g.revealed.Add(coords)
		g.flagged.Remove(coords)
		result.MineHit = true
		result.Cells = []RevealedCell{{Row: row, Col: col, AdjacentMines: g.board.AdjacentMines(row, col)}}

		outcome, missed := EvaluateOutcome(g.board, g.revealed, g.flagged)
		result.GameOver = true
		result.Outcome = outcome
		result.MissedMines = missed
		result.Mines = g.board.MineCoords()
		result.MinesRemaining = g.minesRemainingLocked()

		g.mu.Unlock()
		g.End(outcome)
		return result, nil
	}

	g.flagged.Remove(coords)
	result.Cells = RevealFlood(g.board, row, col, g.revealed)
	result.MinesRemaining = g.minesRemainingLocked()

	if g.shouldAutoValidateLocked() {
		outcome, missed := EvaluateOutcome(g.board, g.revealed, g.flagged)
		result.GameOver = true
		result.Outcome = outcome
		result.MissedMines = missed
		result.Mines = g.board.MineCoords()

		g.mu.Unlock()
		g.End(outcome)
		return result, nil
	}

	g.mu.Unlock()
	return result, nil
}

// ToggleFlag toggles the player-asserted mine marker on (row, col).
// Flagging is not a reveal; a revealed cell cannot take a flag.
func (g *Game) ToggleFlag(row, col int) (FlagResult, error) {
	g.mu.Lock()

	if !g.active {
		g.mu.Unlock()
		return FlagResult{}, cerr.ErrGameNotActive(g.uuid)
	}
	if !g.board.Contains(row, col) {
		g.mu.Unlock()
		return FlagResult{}, cerr.ErrCellNotExists(row, col)
	}

	coords := NewCoords(row, col)
	if g.revealed.Has(coords) {
		g.mu.Unlock()
		return FlagResult{}, cerr.ErrCellAlreadyRevealed(row, col)
	}

	g.clicks++
	if g.flagged.Has(coords) {
		g.flagged.Remove(coords)
	} else {
		g.flagged.Add(coords)
	}

	result := FlagResult{
		Flagged:        g.flagged.Has(coords),
		MinesRemaining: g.minesRemainingLocked(),
		Clicks:         g.clicks,
	}

	if g.shouldAutoValidateLocked() {
		outcome, missed := EvaluateOutcome(g.board, g.revealed, g.flagged)
		result.GameOver = true
		result.Outcome = outcome
		result.MissedMines = missed
		result.Mines = g.board.MineCoords()

		g.mu.Unlock()
		g.End(outcome)
		return result, nil
	}

	g.mu.Unlock()
	return result, nil
}

// Auto-validation fires once every mine is flagged off the counter,
// or once the unknown cells could all be mines.
func (g *Game) shouldAutoValidateLocked() bool {
	remaining := g.minesRemainingLocked()
	return remaining <= 0 || g.unknownCountLocked() <= remaining
}

// Snapshot is the one-slot save format: the whole board state plus
// an opaque blob the presentation layer round-trips untouched.
type Snapshot struct {
	Rows           int             `json:"rows"`
	Cols           int             `json:"cols"`
	MineTarget     int             `json:"mine_target"`
	MinesRemaining int             `json:"mines_remaining"`
	Clicks         int             `json:"clicks"`
	Seconds        int             `json:"seconds"`
	Grid           [][]Cell        `json:"grid"`
	Revealed       []Coords        `json:"revealed"`
	Flagged        []Coords        `json:"flagged"`
	Presentation   json.RawMessage `json:"presentation_snapshot,omitempty"`
}

func (g *Game) Snapshot(presentation json.RawMessage) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	grid := make([][]Cell, g.board.Rows)
	for r := range grid {
		grid[r] = make([]Cell, g.board.Cols)
		copy(grid[r], g.board.Grid[r])
	}

	return Snapshot{
		Rows:           g.board.Rows,
		Cols:           g.board.Cols,
		MineTarget:     g.mineTarget,
		MinesRemaining: g.minesRemainingLocked(),
		Clicks:         g.clicks,
		Seconds:        g.seconds,
		Grid:           grid,
		Revealed:       g.revealed.ToSlice(),
		Flagged:        g.flagged.ToSlice(),
		Presentation:   presentation,
	}
}

// RestoreGame rebuilds a live game from a snapshot. The restored
// game replaces whatever was active; there is no merging.
func RestoreGame(snap Snapshot) (*Game, error) {
	board, err := NewBoard(snap.Rows, snap.Cols)
	if err != nil {
		return nil, err
	}
	if len(snap.Grid) != snap.Rows {
		return nil, cerr.ErrCorruptSnapshot("grid row count does not match dimensions")
	}
	for r, gridRow := range snap.Grid {
		if len(gridRow) != snap.Cols {
			return nil, cerr.ErrCorruptSnapshot("grid col count does not match dimensions")
		}
		copy(board.Grid[r], gridRow)
	}
	if board.MineCount() >= snap.Rows*snap.Cols {
		return nil, cerr.ErrCorruptSnapshot("mined cell count not below board size")
	}

	game := newGame(board, snap.MineTarget)
	game.clicks = snap.Clicks
	game.seconds = snap.Seconds

	for _, c := range snap.Revealed {
		if !board.Contains(c.Row, c.Col) {
			return nil, cerr.ErrCorruptSnapshot("revealed coords out of board bounds")
		}
		game.revealed.Add(c)
	}
	for _, c := range snap.Flagged {
		if !board.Contains(c.Row, c.Col) {
			return nil, cerr.ErrCorruptSnapshot("flagged coords out of board bounds")
		}
		game.flagged.Add(c)
	}

	return game, nil
}

// RevealedCells re-derives the display glyphs for every revealed
// cell, used when a loaded game is shipped back to the browser.
func (g *Game) RevealedCells() []RevealedCell {
	g.mu.Lock()
	defer g.mu.Unlock()

	cells := make([]RevealedCell, 0, g.revealed.Len())
	for c := range g.revealed {
		cells = append(cells, RevealedCell{Row: c.Row, Col: c.Col, AdjacentMines: g.board.AdjacentMines(c.Row, c.Col)})
	}
	return cells
}

func (g *Game) FlaggedCoords() []Coords {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.flagged.ToSlice()
}
