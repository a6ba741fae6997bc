package dao

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// GetAdminEmployee retrieves the account that receives employee messages and
// decides exception requests. With a single shared admin role the earliest
// created active admin is the stable choice.
func (dao *DataAccessLayer) GetAdminEmployee() (models.ATEmployee, error) {
	defer util.Time("GetAdminEmployee")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return models.ATEmployee{}, err
	}
	dbEmployee, err := getAdminEmployeeInTransaction(tx)
	if err != nil {
		dao.GetLogger().Error("Error in GetAdminEmployee", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return dbEmployee, err
}

func getAdminEmployeeInTransaction(tx *sqlx.Tx) (models.ATEmployee, error) {
	var dbEmployee models.ATEmployee
	getAdminStatement := `
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
        role = ?
        and isActive = 1
    order by
        createdDate asc
    limit 1
    `
	err := tx.Get(&dbEmployee, getAdminStatement, models.RoleAdmin)
	if err != nil {
		return dbEmployee, err
	}

	return dbEmployee, err
}
