package dao

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// GetEmployeeByCode uses the passed in employee code and makes the
// appropriate sql calls to the database to retrieve and return the matching
// employee account. The code is the identifier employees sign in with.
func (dao *DataAccessLayer) GetEmployeeByCode(employeeCode string) (models.ATEmployee, error) {
	defer util.Time("GetEmployeeByCode")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return models.ATEmployee{}, err
	}
	dbEmployee, err := getEmployeeByCodeInTransaction(tx, employeeCode)
	if err != nil {
		dao.GetLogger().Error("Error in GetEmployeeByCode", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return dbEmployee, err
}

func getEmployeeByCodeInTransaction(tx *sqlx.Tx, employeeCode string) (models.ATEmployee, error) {
	var dbEmployee models.ATEmployee
	getEmployeeStatement := `
    select
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
    where
        employeeCode = ?
    `
	err := tx.Get(&dbEmployee, getEmployeeStatement, employeeCode)
	if err != nil {
		return dbEmployee, err
	}

	return dbEmployee, err
}
