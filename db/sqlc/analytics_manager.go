package sqlc

import (
	"context"

	"github.com/sqlc-dev/pqtype"
)

type AnalyticsManager struct {
	queries Querier
}

func NewAnalyticsManager(queries Querier) *AnalyticsManager {
	return &AnalyticsManager{queries: queries}
}

func (a *AnalyticsManager) IncrementGamesCreatedCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	return a.queries.AnalyticsIncrementGamesCreatedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) IncrementGamesSavedCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	return a.queries.AnalyticsIncrementGamesSavedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) GetGamesCreatedCount(ctx context.Context, serverIpNet pqtype.Inet) (int64, error) {
	return a.queries.AnalyticsGetGamesCreatedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) GetGamesSavedCount(ctx context.Context, serverIpNet pqtype.Inet) (int64, error) {
	return a.queries.AnalyticsGetGamesSavedCount(ctx, serverIpNet)
}
