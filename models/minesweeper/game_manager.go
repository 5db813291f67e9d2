package minesweeper

import (
	"sync"

	cerr "github.com/BradleyStaples/minesweeper/internal/error"
)

type GameManager interface {
	CreateGame(cfg BoardConfig) (*Game, error)
	RestoreGame(snap Snapshot) (*Game, error)
	FetchGame(gameUuid string) (*Game, error)
	TerminateGame(gameUuid string)
}

type SweepGameManager struct {
	games map[string]*Game
	mu    sync.RWMutex
}

var _ GameManager = (*SweepGameManager)(nil)

func NewSweepGameManager() *SweepGameManager {
	return &SweepGameManager{
		games: make(map[string]*Game, 10),
	}
}

func (sgm *SweepGameManager) CreateGame(cfg BoardConfig) (*Game, error) {
	game, err := NewGame(cfg)
	if err != nil {
		return nil, err
	}

	sgm.mu.Lock()
	sgm.games[game.Uuid()] = game
	sgm.mu.Unlock()

	go game.RunTicker()
	return game, nil
}

func (sgm *SweepGameManager) RestoreGame(snap Snapshot) (*Game, error) {
	game, err := RestoreGame(snap)
	if err != nil {
		return nil, err
	}

	sgm.mu.Lock()
	sgm.games[game.Uuid()] = game
	sgm.mu.Unlock()

	go game.RunTicker()
	return game, nil
}

func (sgm *SweepGameManager) FetchGame(gameUuid string) (*Game, error) {
	sgm.mu.RLock()
	game, prs := sgm.games[gameUuid]
	sgm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrGameNotExists(gameUuid)
	}

	return game, nil
}

// TerminateGame freezes the game and forgets it. Called when the
// session ends or when a new/loaded game replaces the current one.
func (sgm *SweepGameManager) TerminateGame(gameUuid string) {
	sgm.mu.Lock()
	game, prs := sgm.games[gameUuid]
	delete(sgm.games, gameUuid)
	sgm.mu.Unlock()

	if prs {
		game.End(game.Outcome())
	}
}
