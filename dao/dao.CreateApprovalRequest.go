package dao

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
)

// CreateApprovalRequest adds a new attendance exception request awaiting an
// admin decision. An employee may only hold one pending request of a given
// type for a given date, so a duplicate submission yields ErrApprovalPending
// rather than a second row for the admin to wade through. Once added, the
// record is retrieved and returned with the joined employee attributes.
func (dao *DataAccessLayer) CreateApprovalRequest(request *models.ATApprovalRequest) (models.ATApprovalRequest, error) {
	defer util.Time("CreateApprovalRequest")()
	logger := dao.GetLogger()
	retryCounter := dao.DeadlockRetryCounter
	retryDelay := dao.DeadlockRetryDelay
	retryOnErrorMessageContains := []string{"Deadlock", "Lock wait timeout exceeded"}
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		logger.Error("could not begin transaction", zap.Error(err))
		return models.ATApprovalRequest{}, err
	}
	dbApproval, err := createApprovalRequestInTransaction(tx, request)
	for retryCounter > 0 && err != nil && util.ContainsAny(err.Error(), retryOnErrorMessageContains) {
		logger.Debug("restarting transaction for createApprovalRequestInTransaction", zap.String("retryReason", util.FirstMatch(err.Error(), retryOnErrorMessageContains)), zap.Int64("retryCounter", retryCounter))
		tx.Rollback()
		time.Sleep(time.Duration(retryDelay) * time.Millisecond)
		retryCounter--
		tx, err = dao.MetadataDB.Beginx()
		if err != nil {
			logger.Error("could not begin transaction", zap.Error(err))
			return models.ATApprovalRequest{}, err
		}
		dbApproval, err = createApprovalRequestInTransaction(tx, request)
	}
	if err != nil {
		if err != ErrApprovalPending {
			logger.Error("error in CreateApprovalRequest", zap.Error(err))
		}
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return dbApproval, err
}

func createApprovalRequestInTransaction(tx *sqlx.Tx, request *models.ATApprovalRequest) (models.ATApprovalRequest, error) {
	var dbApproval models.ATApprovalRequest
	if len(request.EmployeeID) == 0 {
		return dbApproval, fmt.Errorf("cannot create approval request with empty employeeId")
	}
	if len(request.RequestDate) == 0 {
		return dbApproval, fmt.Errorf("cannot create approval request with empty requestDate")
	}
	switch request.RequestType {
	case models.ApprovalTypeEarlyClockIn, models.ApprovalTypeOvertime:
	default:
		return dbApproval, fmt.Errorf("cannot create approval request with type %s", request.RequestType)
	}
	// Refuse to pile up a second pending request for the same day
	var pending int
	countPendingStatement := `
    select
        count(id)
    from
        approval_request
    where
        employeeId = ?
        and requestType = ?
        and requestDate = ?
        and status = ?
    `
	if err := tx.Get(&pending, countPendingStatement, request.EmployeeID,
		request.RequestType, request.RequestDate, models.ApprovalStatusPending); err != nil {
		return dbApproval, err
	}
	if pending > 0 {
		return dbApproval, ErrApprovalPending
	}
	if len(request.Status) == 0 {
		request.Status = models.ApprovalStatusPending
	}
	if len(request.ID) == 0 {
		request.ATID = models.NewATID()
	}
	addApprovalStatement, err := tx.Preparex(`
        insert approval_request set
            id = ?
            ,createdBy = ?
            ,modifiedBy = ?
            ,requestType = ?
            ,employeeId = ?
            ,requestDate = ?
            ,requestedTime = ?
            ,minutes = ?
            ,status = ?`)
	if err != nil {
		return dbApproval, fmt.Errorf("CreateApprovalRequest error preparing add approval statement, %s", err.Error())
	}
	defer addApprovalStatement.Close()
	// Add it
	if _, err := addApprovalStatement.Exec(request.ID, request.CreatedBy,
		request.CreatedBy, request.RequestType, request.EmployeeID,
		request.RequestDate, request.RequestedTime, request.Minutes,
		request.Status); err != nil {
		return dbApproval, err
	}
	// Retrieve it
	return getApprovalByIDInTransaction(tx, request.ID)
}
