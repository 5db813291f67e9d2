package minesweeper

import (
	"testing"
)

func TestSweepGameManagerLifecycle(t *testing.T) {
	manager := NewSweepGameManager()

	cfg, err := NewBoardConfig(SizeMultiplierSmall, "")
	if err != nil {
		t.Fatal(err)
	}
	game, err := manager.CreateGame(cfg)
	if err != nil {
		t.Fatal(err)
	}

	fetched, err := manager.FetchGame(game.Uuid())
	if err != nil {
		t.Fatal(err)
	}
	if fetched != game {
		t.Fatal("fetched game is not the created game")
	}

	manager.TerminateGame(game.Uuid())

	if _, err := manager.FetchGame(game.Uuid()); err == nil {
		t.Fatal("expected error fetching a terminated game")
	}
	if game.IsActive() {
		t.Fatal("terminated game still active")
	}
}

func TestSweepGameManagerCreateGameInvalidConfig(t *testing.T) {
	manager := NewSweepGameManager()

	if _, err := manager.CreateGame(BoardConfig{Rows: 0, Cols: 8, MineCount: 10}); err == nil {
		t.Fatal("expected error for zero-row config")
	}
	if _, err := manager.CreateGame(BoardConfig{Rows: 8, Cols: 8, MineCount: 64}); err == nil {
		t.Fatal("expected error for saturating mine count")
	}
}

func TestSweepGameManagerRestoreGame(t *testing.T) {
	manager := NewSweepGameManager()

	source := NewGameFromBoard(newTestBoard(t, 3, 3, []Coords{{Row: 1, Col: 1}}))
	defer source.End(source.Outcome())
	snap := source.Snapshot(nil)

	restored, err := manager.RestoreGame(snap)
	if err != nil {
		t.Fatal(err)
	}
	defer manager.TerminateGame(restored.Uuid())

	if restored.Uuid() == source.Uuid() {
		t.Fatal("restored game must get its own uuid")
	}
	if _, err := manager.FetchGame(restored.Uuid()); err != nil {
		t.Fatal(err)
	}

	snap.Grid = nil
	if _, err := manager.RestoreGame(snap); err == nil {
		t.Fatal("expected error restoring a corrupt snapshot")
	}
}
