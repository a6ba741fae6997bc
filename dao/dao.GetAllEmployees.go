package dao

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// GetAllEmployees retrieves a paged resultset of employee accounts ordered
// by employee code. Both active and deactivated accounts are returned so
// that administrators can manage the full roster.
func (dao *DataAccessLayer) GetAllEmployees(pagingRequest PagingRequest) (models.ATEmployeeResultset, error) {
	defer util.Time("GetAllEmployees")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return models.ATEmployeeResultset{}, err
	}
	response, err := getAllEmployeesInTransaction(tx, pagingRequest)
	if err != nil {
		dao.GetLogger().Error("Error in GetAllEmployees", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return response, err
}

func getAllEmployeesInTransaction(tx *sqlx.Tx, pagingRequest PagingRequest) (models.ATEmployeeResultset, error) {
	response := models.ATEmployeeResultset{}
	limit := GetLimit(pagingRequest.PageNumber, pagingRequest.PageSize)
	offset := GetOffset(pagingRequest.PageNumber, pagingRequest.PageSize)
	query := `
    select
        sql_calc_found_rows
        id
        ,createdDate
        ,createdBy
        ,modifiedDate
        ,modifiedBy
        ,changeCount
        ,changeToken
        ,employeeCode
        ,name
        ,email
        ,role
        ,passwordHash
        ,shiftStart
        ,shiftEnd
        ,basicSalary
        ,isActive
    from
        employee
    order by
        employeeCode asc
    limit ?, ?
    `
	err := tx.Select(&response.Employees, query, offset, limit)
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
	response.PageRows = len(response.Employees)
	return response, err
}
