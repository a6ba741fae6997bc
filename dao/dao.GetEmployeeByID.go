package dao

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// GetEmployeeByID uses the passed in identifier and makes the appropriate
// sql calls to the database to retrieve and return the matching employee
// account.
func (dao *DataAccessLayer) GetEmployeeByID(id string) (models.ATEmployee, error) {
	defer util.Time("GetEmployeeByID")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return models.ATEmployee{}, err
	}
	dbEmployee, err := getEmployeeByIDInTransaction(tx, id)
	if err != nil {
		dao.GetLogger().Error("Error in GetEmployeeByID", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return dbEmployee, err
}

func getEmployeeByIDInTransaction(tx *sqlx.Tx, id string) (models.ATEmployee, error) {
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
        id = ?
    `
	err := tx.Get(&dbEmployee, getEmployeeStatement, id)
	if err != nil {
		return dbEmployee, err
	}

	return dbEmployee, err
}
