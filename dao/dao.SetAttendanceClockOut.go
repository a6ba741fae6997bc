package dao

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
)

// SetAttendanceClockOut records the clock out time on an existing attendance
// record. The update only lands on a record that has not clocked out yet, so
// concurrent clock outs for the same day collapse to a single write and the
// loser sees ErrNoRows. On success the record is retrieved and returned with
// the database assigned attributes.
func (dao *DataAccessLayer) SetAttendanceClockOut(attendance *models.ATAttendance) (models.ATAttendance, error) {
	defer util.Time("SetAttendanceClockOut")()
	logger := dao.GetLogger()
	retryCounter := dao.DeadlockRetryCounter
	retryDelay := dao.DeadlockRetryDelay
	retryOnErrorMessageContains := []string{"Deadlock", "Lock wait timeout exceeded"}
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		logger.Error("could not begin transaction", zap.Error(err))
		return models.ATAttendance{}, err
	}
	dbAttendance, err := setAttendanceClockOutInTransaction(tx, attendance)
	for retryCounter > 0 && err != nil && util.ContainsAny(err.Error(), retryOnErrorMessageContains) {
		logger.Debug("restarting transaction for setAttendanceClockOutInTransaction", zap.String("retryReason", util.FirstMatch(err.Error(), retryOnErrorMessageContains)), zap.Int64("retryCounter", retryCounter))
		tx.Rollback()
		time.Sleep(time.Duration(retryDelay) * time.Millisecond)
		retryCounter--
		tx, err = dao.MetadataDB.Beginx()
		if err != nil {
			logger.Error("could not begin transaction", zap.Error(err))
			return models.ATAttendance{}, err
		}
		dbAttendance, err = setAttendanceClockOutInTransaction(tx, attendance)
	}
	if err != nil {
		if err.Error() != ErrNoRows.Error() {
			logger.Error("error in SetAttendanceClockOut", zap.Error(err))
		}
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return dbAttendance, err
}

func setAttendanceClockOutInTransaction(tx *sqlx.Tx, attendance *models.ATAttendance) (models.ATAttendance, error) {
	var dbAttendance models.ATAttendance
	if len(attendance.ID) == 0 {
		return dbAttendance, ErrMissingID
	}
	if len(attendance.ModifiedBy) == 0 {
		return dbAttendance, ErrMissingModifiedBy
	}
	if !attendance.ClockOut.Valid {
		return dbAttendance, fmt.Errorf("cannot clock out without a clockOut time")
	}
	clockOutStatement, err := tx.Preparex(`
        update attendance set
            modifiedBy = ?
            ,clockOut = ?
        where
            id = ? and clockOut is null`)
	if err != nil {
		return dbAttendance, fmt.Errorf("SetAttendanceClockOut error preparing update statement, %s", err.Error())
	}
	defer clockOutStatement.Close()
	result, err := clockOutStatement.Exec(attendance.ModifiedBy, attendance.ClockOut, attendance.ID)
	if err != nil {
		return dbAttendance, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return dbAttendance, err
	}
	if rowsAffected == 0 {
		return dbAttendance, ErrNoRows
	}
	return getAttendanceByIDInTransaction(tx, attendance.ID)
}
