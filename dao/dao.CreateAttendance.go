package dao

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
)

// CreateAttendance adds a new attendance record marking the clock in for an
// employee on a calendar date. The unique key on employee and date is the
// backstop against double clock ins, so a second insert for the same day
// yields ErrAlreadyClockedIn no matter how the requests race. Once added,
// the record is retrieved and returned with the database assigned
// attributes.
func (dao *DataAccessLayer) CreateAttendance(attendance *models.ATAttendance) (models.ATAttendance, error) {
	defer util.Time("CreateAttendance")()
	logger := dao.GetLogger()
	retryCounter := dao.DeadlockRetryCounter
	retryDelay := dao.DeadlockRetryDelay
	retryOnErrorMessageContains := []string{"Deadlock", "Lock wait timeout exceeded"}
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		logger.Error("could not begin transaction", zap.Error(err))
		return models.ATAttendance{}, err
	}
	dbAttendance, err := createAttendanceInTransaction(tx, attendance)
	for retryCounter > 0 && err != nil && util.ContainsAny(err.Error(), retryOnErrorMessageContains) {
		logger.Debug("restarting transaction for createAttendanceInTransaction", zap.String("retryReason", util.FirstMatch(err.Error(), retryOnErrorMessageContains)), zap.Int64("retryCounter", retryCounter))
		tx.Rollback()
		time.Sleep(time.Duration(retryDelay) * time.Millisecond)
		retryCounter--
		tx, err = dao.MetadataDB.Beginx()
		if err != nil {
			logger.Error("could not begin transaction", zap.Error(err))
			return models.ATAttendance{}, err
		}
		dbAttendance, err = createAttendanceInTransaction(tx, attendance)
	}
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			err = ErrAlreadyClockedIn
		} else {
			logger.Error("error in CreateAttendance", zap.Error(err))
		}
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return dbAttendance, err
}

func createAttendanceInTransaction(tx *sqlx.Tx, attendance *models.ATAttendance) (models.ATAttendance, error) {
	var dbAttendance models.ATAttendance
	if len(attendance.EmployeeID) == 0 {
		return dbAttendance, fmt.Errorf("cannot create attendance with empty employeeId")
	}
	if len(attendance.AttendanceDate) == 0 {
		return dbAttendance, fmt.Errorf("cannot create attendance with empty attendanceDate")
	}
	if len(attendance.Status) == 0 {
		attendance.Status = models.AttendanceStatusPresent
	}
	if len(attendance.ID) == 0 {
		attendance.ATID = models.NewATID()
	}
	addAttendanceStatement, err := tx.Preparex(`
        insert attendance set
            id = ?
            ,createdBy = ?
            ,modifiedBy = ?
            ,employeeId = ?
            ,attendanceDate = ?
            ,clockIn = ?
            ,status = ?
            ,earlyApproved = ?`)
	if err != nil {
		return dbAttendance, fmt.Errorf("CreateAttendance error preparing add attendance statement, %s", err.Error())
	}
	defer addAttendanceStatement.Close()
	// Add it
	if _, err := addAttendanceStatement.Exec(attendance.ID, attendance.CreatedBy,
		attendance.CreatedBy, attendance.EmployeeID, attendance.AttendanceDate,
		attendance.ClockIn, attendance.Status, attendance.EarlyApproved); err != nil {
		return dbAttendance, err
	}
	// Retrieve it
	return getAttendanceByIDInTransaction(tx, attendance.ID)
}

func getAttendanceByIDInTransaction(tx *sqlx.Tx, id string) (models.ATAttendance, error) {
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
        id = ?
    `
	err := tx.Get(&dbAttendance, getAttendanceStatement, id)
	return dbAttendance, err
}
