package dao

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// GetPendingApprovals retrieves a paged resultset of approval requests still
// awaiting a decision, oldest first so nobody waits longer than they have
// to. The requesting employee and any attendance already on file for the
// request date are joined in for the admin review screens.
func (dao *DataAccessLayer) GetPendingApprovals(pagingRequest PagingRequest) (models.ATApprovalRequestResultset, error) {
	defer util.Time("GetPendingApprovals")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return models.ATApprovalRequestResultset{}, err
	}
	response, err := getPendingApprovalsInTransaction(tx, pagingRequest)
	if err != nil {
		dao.GetLogger().Error("Error in GetPendingApprovals", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return response, err
}

func getPendingApprovalsInTransaction(tx *sqlx.Tx, pagingRequest PagingRequest) (models.ATApprovalRequestResultset, error) {
	response := models.ATApprovalRequestResultset{}
	limit := GetLimit(pagingRequest.PageNumber, pagingRequest.PageSize)
	offset := GetOffset(pagingRequest.PageNumber, pagingRequest.PageSize)
	query := `
    select
        sql_calc_found_rows
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
        ar.status = ?
    order by
        ar.createdDate asc
    limit ?, ?
    `
	err := tx.Select(&response.ApprovalRequests, query, models.ApprovalStatusPending, offset, limit)
	if err != nil {
		return response, err
	}
	// Paging stats for the response
	err = tx.Get(&response.TotalRows, "select found_rows()")
	if err != nil {
		return response, err
	}
	response.PageNumber = GetSanitizedPageNumber(pagingRequest.PageNumber)
	response.PageSize = GetSanitizedPageSize(pagingRequest.PageSize)
	response.PageCount = GetPageCount(response.TotalRows, response.PageSize)
	response.PageRows = len(response.ApprovalRequests)
	return response, err
}
