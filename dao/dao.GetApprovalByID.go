package dao

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// GetApprovalByID uses the passed in identifier and makes the appropriate
// sql calls to the database to retrieve and return the matching approval
// request. The requesting employee and any attendance already on file for
// the request date are joined in for the admin review screens.
func (dao *DataAccessLayer) GetApprovalByID(id string) (models.ATApprovalRequest, error) {
	defer util.Time("GetApprovalByID")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return models.ATApprovalRequest{}, err
	}
	dbApproval, err := getApprovalByIDInTransaction(tx, id)
	if err != nil {
		if err.Error() != ErrNoRows.Error() {
			dao.GetLogger().Error("Error in GetApprovalByID", zap.Error(err))
		}
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return dbApproval, err
}

func getApprovalByIDInTransaction(tx *sqlx.Tx, id string) (models.ATApprovalRequest, error) {
	var dbApproval models.ATApprovalRequest
	getApprovalStatement := `
    select
        ar.id
        ,ar.createdDate
        ,ar.createdBy
        ,ar.modifiedDate
        ,ar.modifiedBy
        ,ar.changeCount
        ,ar.changeToken
        ,ar.requestType
        ,ar.employeeId
        ,ar.requestDate
        ,ar.requestedTime
        ,ar.minutes
        ,ar.status
        ,ar.processedBy
        ,ar.processedDate
        ,e.employeeCode employeeCode
        ,e.name employeeName
        ,a.clockIn attendanceClockIn
    from
        approval_request ar
        inner join employee e on ar.employeeId = e.id
        left outer join attendance a on ar.employeeId = a.employeeId and ar.requestDate = a.attendanceDate
    where
        ar.id = ?
    `
	err := tx.Get(&dbApproval, getApprovalStatement, id)
	if err != nil {
		return dbApproval, err
	}

	return dbApproval, err
}
