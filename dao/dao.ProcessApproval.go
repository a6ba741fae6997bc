package dao

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
)

// ProcessApproval applies an admin decision to a pending approval request.
// The status flip and the attendance write through happen in one
// transaction so a request can never read as approved without the day
// reflecting it. A request already decided yields ErrApprovalProcessed. On
// approval, an early clock in request stamps the requested time as the
// clock in for the day, and an overtime request stamps it as the clock out,
// creating the attendance record if the day has none yet. A duplicate entry
// during that create means another decision raced us onto the same day, and
// a retry resolves it as an update.
func (dao *DataAccessLayer) ProcessApproval(request *models.ATApprovalRequest, approve bool, processedBy string) (models.ATApprovalRequest, error) {
	defer util.Time("ProcessApproval")()
	logger := dao.GetLogger()
	retryCounter := dao.DeadlockRetryCounter
	retryDelay := dao.DeadlockRetryDelay
	retryOnErrorMessageContains := []string{"Duplicate entry", "Deadlock", "Lock wait timeout exceeded"}
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		logger.Error("could not begin transaction", zap.Error(err))
		return models.ATApprovalRequest{}, err
	}
	dbApproval, err := processApprovalInTransaction(tx, request, approve, processedBy)
	for retryCounter > 0 && err != nil && util.ContainsAny(err.Error(), retryOnErrorMessageContains) {
		logger.Debug("restarting transaction for processApprovalInTransaction", zap.String("retryReason", util.FirstMatch(err.Error(), retryOnErrorMessageContains)), zap.Int64("retryCounter", retryCounter))
		tx.Rollback()
		time.Sleep(time.Duration(retryDelay) * time.Millisecond)
		retryCounter--
		tx, err = dao.MetadataDB.Beginx()
		if err != nil {
			logger.Error("could not begin transaction", zap.Error(err))
			return models.ATApprovalRequest{}, err
		}
		dbApproval, err = processApprovalInTransaction(tx, request, approve, processedBy)
	}
	if err != nil {
		if err != ErrApprovalProcessed {
			logger.Error("error in ProcessApproval", zap.Error(err))
		}
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return dbApproval, err
}

func processApprovalInTransaction(tx *sqlx.Tx, request *models.ATApprovalRequest, approve bool, processedBy string) (models.ATApprovalRequest, error) {
	var dbApproval models.ATApprovalRequest
	if len(request.ID) == 0 {
		return dbApproval, ErrMissingID
	}
	if len(processedBy) == 0 {
		return dbApproval, ErrMissingModifiedBy
	}
	// Load the authoritative request inside the transaction
	dbApproval, err := getApprovalByIDInTransaction(tx, request.ID)
	if err != nil {
		return dbApproval, err
	}
	status := models.ApprovalStatusRejected
	if approve {
		status = models.ApprovalStatusApproved
	}
	decideStatement, err := tx.Preparex(`
        update approval_request set
            modifiedBy = ?
            ,status = ?
            ,processedBy = ?
            ,processedDate = now()
        where
            id = ? and status = ?`)
	if err != nil {
		return dbApproval, fmt.Errorf("ProcessApproval error preparing decide statement, %s", err.Error())
	}
	defer decideStatement.Close()
	result, err := decideStatement.Exec(processedBy, status, processedBy, request.ID, models.ApprovalStatusPending)
	if err != nil {
		return dbApproval, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return dbApproval, err
	}
	if rowsAffected == 0 {
		// Someone else got to the decision first
		return dbApproval, ErrApprovalProcessed
	}
	if approve {
		if err := applyApprovalToAttendance(tx, &dbApproval, processedBy); err != nil {
			return dbApproval, err
		}
	}
	// Retrieve it
	return getApprovalByIDInTransaction(tx, request.ID)
}

// applyApprovalToAttendance stamps the approved time onto the attendance
// record for the request date, creating the record when the employee has
// not clocked in yet that day.
func applyApprovalToAttendance(tx *sqlx.Tx, approval *models.ATApprovalRequest, processedBy string) error {
	dbAttendance, err := getAttendanceForDateInTransaction(tx, approval.EmployeeID, approval.RequestDate)
	if err != nil && err.Error() != ErrNoRows.Error() {
		return err
	}
	exists := err == nil
	var setClause string
	switch approval.RequestType {
	case models.ApprovalTypeEarlyClockIn:
		setClause = `clockIn = ?, earlyApproved = 1`
	case models.ApprovalTypeOvertime:
		setClause = `clockOut = ?, overtimeApproved = 1`
	default:
		return fmt.Errorf("cannot apply approval of type %s to attendance", approval.RequestType)
	}
	if exists {
		stampStatement, err := tx.Preparex(`update attendance set modifiedBy = ?, ` + setClause + ` where id = ?`)
		if err != nil {
			return fmt.Errorf("ProcessApproval error preparing stamp statement, %s", err.Error())
		}
		defer stampStatement.Close()
		if _, err := stampStatement.Exec(processedBy, approval.RequestedTime, dbAttendance.ID); err != nil {
			return err
		}
		return nil
	}
	newAttendance := models.ATAttendance{}
	newAttendance.ATID = models.NewATID()
	newAttendance.CreatedBy = processedBy
	createStatement, err := tx.Preparex(`
        insert attendance set
            id = ?
            ,createdBy = ?
            ,modifiedBy = ?
            ,employeeId = ?
            ,attendanceDate = ?
            ,status = ?
            ,` + setClause)
	if err != nil {
		return fmt.Errorf("ProcessApproval error preparing create statement, %s", err.Error())
	}
	defer createStatement.Close()
	if _, err := createStatement.Exec(newAttendance.ID, processedBy, processedBy,
		approval.EmployeeID, approval.RequestDate, models.AttendanceStatusPresent,
		approval.RequestedTime); err != nil {
		return err
	}
	return nil
}
