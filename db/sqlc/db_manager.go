package sqlc

import "time"

const (
	QuerierCtxTimeout = time.Second * 10
)

type DbManager struct {
	Saves     *SavesManager
	Analytics *AnalyticsManager
}

func NewDbManager(queries Querier) DbManager {
	return DbManager{
		Saves:     NewSavesManager(queries),
		Analytics: NewAnalyticsManager(queries),
	}
}
