package connection

import "encoding/json"

type ReqNewGame struct {
	// 1, 2 or 4 applied to the 8x8 base board
	SizeMultiplier int `json:"size_multiplier"`

	// Free-form text from the settings dialog; non-numeric
	// input falls back to the default mine count
	MineCount string `json:"mine_count"`
}

type ReqReveal struct {
	GameUuid string `json:"game_uuid"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
}

type ReqFlag struct {
	GameUuid string `json:"game_uuid"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
}

type ReqSaveGame struct {
	GameUuid string `json:"game_uuid"`

	// Opaque presentation state (cell classes, dialog state, ...)
	// stored and returned untouched
	Presentation json.RawMessage `json:"presentation_snapshot,omitempty"`
}
