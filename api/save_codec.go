package api

import (
	"encoding/json"

	"github.com/sqlc-dev/pqtype"

	cerr "github.com/BradleyStaples/minesweeper/internal/error"
	"github.com/BradleyStaples/minesweeper/db/sqlc"
	ms "github.com/BradleyStaples/minesweeper/models/minesweeper"
)

// snapshotToSlotParams flattens a game snapshot into the save slot
// row. The grid and the coord sets travel as JSON columns; the
// presentation blob stays opaque end to end.
func snapshotToSlotParams(snap ms.Snapshot) (sqlc.UpsertSaveSlotParams, error) {
	grid, err := json.Marshal(snap.Grid)
	if err != nil {
		return sqlc.UpsertSaveSlotParams{}, err
	}
	revealed, err := json.Marshal(snap.Revealed)
	if err != nil {
		return sqlc.UpsertSaveSlotParams{}, err
	}
	flagged, err := json.Marshal(snap.Flagged)
	if err != nil {
		return sqlc.UpsertSaveSlotParams{}, err
	}

	return sqlc.UpsertSaveSlotParams{
		SlotName:       sqlc.DefaultSlotName,
		Rows:           int32(snap.Rows),
		Cols:           int32(snap.Cols),
		MineTarget:     int32(snap.MineTarget),
		MinesRemaining: int32(snap.MinesRemaining),
		Clicks:         int32(snap.Clicks),
		Seconds:        int32(snap.Seconds),
		Grid:           grid,
		Revealed:       revealed,
		Flagged:        flagged,
		Presentation:   pqtype.NullRawMessage{RawMessage: snap.Presentation, Valid: len(snap.Presentation) > 0},
	}, nil
}

func slotToSnapshot(slot sqlc.SaveSlot) (ms.Snapshot, error) {
	snap := ms.Snapshot{
		Rows:           int(slot.Rows),
		Cols:           int(slot.Cols),
		MineTarget:     int(slot.MineTarget),
		MinesRemaining: int(slot.MinesRemaining),
		Clicks:         int(slot.Clicks),
		Seconds:        int(slot.Seconds),
	}

	if err := json.Unmarshal(slot.Grid, &snap.Grid); err != nil {
		return ms.Snapshot{}, cerr.ErrCorruptSnapshot(err.Error())
	}
	if err := json.Unmarshal(slot.Revealed, &snap.Revealed); err != nil {
		return ms.Snapshot{}, cerr.ErrCorruptSnapshot(err.Error())
	}
	if err := json.Unmarshal(slot.Flagged, &snap.Flagged); err != nil {
		return ms.Snapshot{}, cerr.ErrCorruptSnapshot(err.Error())
	}
	if slot.Presentation.Valid {
		snap.Presentation = slot.Presentation.RawMessage
	}

	return snap, nil
}
