package dao

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// GetRecentSecurityLogs retrieves the most recent security log entries,
// newest first, capped at the given limit. A nonsense limit falls back to
// one hundred rows.
func (dao *DataAccessLayer) GetRecentSecurityLogs(limit int) ([]models.ATSecurityLog, error) {
	defer util.Time("GetRecentSecurityLogs")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return nil, err
	}
	entries, err := getRecentSecurityLogsInTransaction(tx, limit)
	if err != nil {
		dao.GetLogger().Error("Error in GetRecentSecurityLogs", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return entries, err
}

func getRecentSecurityLogsInTransaction(tx *sqlx.Tx, limit int) ([]models.ATSecurityLog, error) {
	var entries []models.ATSecurityLog
	if limit <= 0 || limit > MaxPageSize {
		limit = 100
	}
	getLogsStatement := `
    select
        id
        ,eventDate
        ,action
        ,userId
        ,status
        ,details
    from
        security_log
    order by
        eventDate desc
    limit ?
    `
	err := tx.Select(&entries, getLogsStatement, limit)
	return entries, err
}
