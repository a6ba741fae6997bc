package dao

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// GetAttendanceForDate retrieves the attendance record for the given
// employee on the given calendar date. At most one record exists per
// employee per date. Callers distinguish a day with no record yet by
// checking for ErrNoRows.
func (dao *DataAccessLayer) GetAttendanceForDate(employeeID string, date string) (models.ATAttendance, error) {
	defer util.Time("GetAttendanceForDate")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return models.ATAttendance{}, err
	}
	dbAttendance, err := getAttendanceForDateInTransaction(tx, employeeID, date)
	if err != nil {
		if err.Error() != ErrNoRows.Error() {
			dao.GetLogger().Error("Error in GetAttendanceForDate", zap.Error(err))
		}
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return dbAttendance, err
}

func getAttendanceForDateInTransaction(tx *sqlx.Tx, employeeID string, date string) (models.ATAttendance, error) {
	var dbAttendance models.ATAttendance
	getAttendanceStatement := `
    select
        id
        ,createdDate
        ,createdBy
        ,modifiedDate
        ,modifiedBy
        ,changeCount
        ,changeToken
        ,employeeId
        ,attendanceDate
        ,clockIn
        ,clockOut
        ,status
        ,earlyApproved
        ,overtimeApproved
    from
        attendance
    where
        employeeId = ?
        and attendanceDate = ?
    `
	err := tx.Get(&dbAttendance, getAttendanceStatement, employeeID, date)
	if err != nil {
		return dbAttendance, err
	}

	return dbAttendance, err
}
