package api

import (
	"encoding/json"
	"log"

	cerr "github.com/BradleyStaples/minesweeper/internal/error"
	mc "github.com/BradleyStaples/minesweeper/models/connection"
	ms "github.com/BradleyStaples/minesweeper/models/minesweeper"
)

type RequestHandler interface {
	HandleNewGame(gameManager ms.GameManager) (*ms.Game, mc.Message[mc.RespNewGame])
	HandleReveal(game *ms.Game) (mc.Message[mc.RespReveal], ms.RevealResult)
	HandleFlag(game *ms.Game) (mc.Message[mc.RespFlag], ms.FlagResult)
	HandleSaveGame(game *ms.Game) (ms.Snapshot, mc.Message[mc.RespSaveGame])
	HandleLoadGame(gameManager ms.GameManager, snap ms.Snapshot) (*ms.Game, mc.Message[mc.RespLoadGame])
}

// Every incoming valid request is wrapped in this struct and then
// handled in line with the RequestHandler interface.
type Request struct {
	payload []byte
}

var _ RequestHandler = (*Request)(nil)

func NewRequest(payload ...[]byte) *Request {
	if len(payload) > 1 {
		log.Println("cannot accept more than one payload")
		return nil
	}

	req := Request{}
	if len(payload) != 0 {
		req.payload = payload[0]
	}
	return &req
}

// HandleNewGame interprets the board settings from the dialog and
// creates a fresh game with freshly planted mines. Bad settings
// (unknown size multiplier, more mines than cells can hold) are
// rejected here, before any planting happens.
func (r *Request) HandleNewGame(gameManager ms.GameManager) (*ms.Game, mc.Message[mc.RespNewGame]) {
	resp := mc.NewMessage[mc.RespNewGame](mc.CodeNewGame)

	var reqNewGame mc.Message[mc.ReqNewGame]
	if err := json.Unmarshal(r.payload, &reqNewGame); err != nil {
		resp.AddError(err.Error(), "invalid new game request payload")
		return nil, resp
	}

	cfg, err := ms.NewBoardConfig(reqNewGame.Payload.SizeMultiplier, reqNewGame.Payload.MineCount)
	if err != nil {
		resp.AddError(err.Error(), "invalid board settings")
		return nil, resp
	}

	game, err := gameManager.CreateGame(cfg)
	if err != nil {
		resp.AddError(err.Error(), "failed to create game")
		return nil, resp
	}

	resp.AddPayload(mc.RespNewGame{
		GameUuid:       game.Uuid(),
		Rows:           game.Rows(),
		Cols:           game.Cols(),
		MineTarget:     game.MineTarget(),
		MinesRemaining: game.MinesRemaining(),
	})
	return game, resp
}

// HandleReveal resolves a left click. The caller inspects the
// returned result to know if this click concluded the game.
func (r *Request) HandleReveal(game *ms.Game) (mc.Message[mc.RespReveal], ms.RevealResult) {
	resp := mc.NewMessage[mc.RespReveal](mc.CodeReveal)

	var reqReveal mc.Message[mc.ReqReveal]
	if err := json.Unmarshal(r.payload, &reqReveal); err != nil {
		resp.AddError(err.Error(), cerr.ConstErrRevealFailed)
		return resp, ms.RevealResult{}
	}

	if game == nil || reqReveal.Payload.GameUuid != game.Uuid() {
		resp.AddError(cerr.ErrGameNotExists(reqReveal.Payload.GameUuid).Error(), cerr.ConstErrRevealFailed)
		return resp, ms.RevealResult{}
	}

	result, err := game.Reveal(reqReveal.Payload.Row, reqReveal.Payload.Col)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrRevealFailed)
		return resp, ms.RevealResult{}
	}

	resp.AddPayload(mc.RespReveal{
		MineHit:        result.MineHit,
		Cells:          result.Cells,
		MinesRemaining: result.MinesRemaining,
		Clicks:         result.Clicks,
	})
	return resp, result
}

func (r *Request) HandleFlag(game *ms.Game) (mc.Message[mc.RespFlag], ms.FlagResult) {
	resp := mc.NewMessage[mc.RespFlag](mc.CodeFlag)

	var reqFlag mc.Message[mc.ReqFlag]
	if err := json.Unmarshal(r.payload, &reqFlag); err != nil {
		resp.AddError(err.Error(), cerr.ConstErrFlagFailed)
		return resp, ms.FlagResult{}
	}

	if game == nil || reqFlag.Payload.GameUuid != game.Uuid() {
		resp.AddError(cerr.ErrGameNotExists(reqFlag.Payload.GameUuid).Error(), cerr.ConstErrFlagFailed)
		return resp, ms.FlagResult{}
	}

	result, err := game.ToggleFlag(reqFlag.Payload.Row, reqFlag.Payload.Col)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrFlagFailed)
		return resp, ms.FlagResult{}
	}

	resp.AddPayload(mc.RespFlag{
		Row:            reqFlag.Payload.Row,
		Col:            reqFlag.Payload.Col,
		Flagged:        result.Flagged,
		MinesRemaining: result.MinesRemaining,
		Clicks:         result.Clicks,
	})
	return resp, result
}

// HandleSaveGame snapshots the session game together with the
// opaque presentation blob. Persisting the snapshot is the
// processor's job; an error there is attached to this response.
func (r *Request) HandleSaveGame(game *ms.Game) (ms.Snapshot, mc.Message[mc.RespSaveGame]) {
	resp := mc.NewMessage[mc.RespSaveGame](mc.CodeSaveGame)

	var reqSave mc.Message[mc.ReqSaveGame]
	if err := json.Unmarshal(r.payload, &reqSave); err != nil {
		resp.AddError(err.Error(), "invalid save game request payload")
		return ms.Snapshot{}, resp
	}

	if game == nil || reqSave.Payload.GameUuid != game.Uuid() {
		resp.AddError(cerr.ErrGameNotExists(reqSave.Payload.GameUuid).Error(), "failed to save game")
		return ms.Snapshot{}, resp
	}

	resp.AddPayload(mc.RespSaveGame{GameUuid: game.Uuid()})
	return game.Snapshot(reqSave.Payload.Presentation), resp
}

// HandleLoadGame turns a fetched snapshot back into the live game,
// replacing the previous one wholesale.
func (r *Request) HandleLoadGame(gameManager ms.GameManager, snap ms.Snapshot) (*ms.Game, mc.Message[mc.RespLoadGame]) {
	resp := mc.NewMessage[mc.RespLoadGame](mc.CodeLoadGame)

	game, err := gameManager.RestoreGame(snap)
	if err != nil {
		resp.AddError(err.Error(), "failed to restore saved game")
		return nil, resp
	}

	resp.AddPayload(mc.RespLoadGame{
		GameUuid:       game.Uuid(),
		Rows:           game.Rows(),
		Cols:           game.Cols(),
		MineTarget:     game.MineTarget(),
		MinesRemaining: game.MinesRemaining(),
		Clicks:         game.Clicks(),
		Seconds:        game.Seconds(),
		Revealed:       game.RevealedCells(),
		Flagged:        game.FlaggedCoords(),
		Presentation:   snap.Presentation,
	})
	return game, resp
}

// newGameOverMsg assembles the end-of-game report sent right after
// the reveal/flag response that concluded the game.
func newGameOverMsg(game *ms.Game, outcome ms.Outcome, mines, missed []ms.Coords) mc.Message[mc.RespGameOver] {
	msg := mc.NewMessage[mc.RespGameOver](mc.CodeGameOver)
	msg.AddPayload(mc.RespGameOver{
		Outcome:     outcome,
		Seconds:     game.Seconds(),
		Clicks:      game.Clicks(),
		Mines:       mines,
		MissedMines: missed,
	})
	return msg
}
