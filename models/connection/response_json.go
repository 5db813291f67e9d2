package connection

import (
	"encoding/json"

	ms "github.com/BradleyStaples/minesweeper/models/minesweeper"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespNewGame struct {
	GameUuid       string `json:"game_uuid"`
	Rows           int    `json:"rows"`
	Cols           int    `json:"cols"`
	MineTarget     int    `json:"mine_target"`
	MinesRemaining int    `json:"mines_remaining"`
}

type RespReveal struct {
	MineHit        bool              `json:"mine_hit"`
	Cells          []ms.RevealedCell `json:"cells"`
	MinesRemaining int               `json:"mines_remaining"`
	Clicks         int               `json:"clicks"`
}

type RespFlag struct {
	Row            int  `json:"row"`
	Col            int  `json:"col"`
	Flagged        bool `json:"flagged"`
	MinesRemaining int  `json:"mines_remaining"`
	Clicks         int  `json:"clicks"`
}

type RespGameOver struct {
	Outcome ms.Outcome `json:"outcome"`
	Seconds int        `json:"seconds"`
	Clicks  int        `json:"clicks"`

	// Full mine layout for the reveal-all display, plus the mines
	// the player never resolved, marked "missed" on a loss
	Mines       []ms.Coords `json:"mines"`
	MissedMines []ms.Coords `json:"missed_mines,omitempty"`
}

type RespSaveGame struct {
	GameUuid string `json:"game_uuid"`
}

type RespLoadGame struct {
	GameUuid       string            `json:"game_uuid"`
	Rows           int               `json:"rows"`
	Cols           int               `json:"cols"`
	MineTarget     int               `json:"mine_target"`
	MinesRemaining int               `json:"mines_remaining"`
	Clicks         int               `json:"clicks"`
	Seconds        int               `json:"seconds"`
	Revealed       []ms.RevealedCell `json:"revealed"`
	Flagged        []ms.Coords       `json:"flagged"`
	Presentation   json.RawMessage   `json:"presentation_snapshot,omitempty"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
