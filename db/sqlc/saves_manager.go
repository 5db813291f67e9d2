package sqlc

import (
	"context"
)

// DefaultSlotName is the single named save slot. Saving again
// overwrites it; only one saved game exists at a time.
const DefaultSlotName = "default"

type SavesManager struct {
	queries Querier
}

func NewSavesManager(queries Querier) *SavesManager {
	return &SavesManager{queries: queries}
}

func (s *SavesManager) UpsertSaveSlot(ctx context.Context, arg UpsertSaveSlotParams) error {
	return s.queries.UpsertSaveSlot(ctx, arg)
}

func (s *SavesManager) GetSaveSlot(ctx context.Context, slotName string) (SaveSlot, error) {
	return s.queries.GetSaveSlot(ctx, slotName)
}
