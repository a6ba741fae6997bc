package dao

import (
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// CountClockedInForDate returns the number of employees holding an
// attendance record for the given calendar date. A record only exists once
// an employee has clocked in, so this is the head count for the day.
func (dao *DataAccessLayer) CountClockedInForDate(date string) (int, error) {
	defer util.Time("CountClockedInForDate")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return 0, err
	}
	count, err := countClockedInForDateInTransaction(tx, date)
	if err != nil {
		dao.GetLogger().Error("Error in CountClockedInForDate", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return count, err
}

func countClockedInForDateInTransaction(tx *sqlx.Tx, date string) (int, error) {
	var count int
	countStatement := `select count(id) from attendance where attendanceDate = ?`
	err := tx.Get(&count, countStatement, date)
	return count, err
}
