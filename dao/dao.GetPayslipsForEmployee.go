package dao

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// GetPayslipsForEmployee retrieves every payslip prepared for the given
// employee, newest period first.
func (dao *DataAccessLayer) GetPayslipsForEmployee(employeeID string) ([]models.ATPayslip, error) {
	defer util.Time("GetPayslipsForEmployee")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return nil, err
	}
	payslips, err := getPayslipsForEmployeeInTransaction(tx, employeeID)
	if err != nil {
		dao.GetLogger().Error("Error in GetPayslipsForEmployee", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return payslips, err
}

func getPayslipsForEmployeeInTransaction(tx *sqlx.Tx, employeeID string) ([]models.ATPayslip, error) {
	var payslips []models.ATPayslip
	getPayslipsStatement := `
    select
        p.id
        ,p.createdDate
        ,p.createdBy
        ,p.modifiedDate
        ,p.modifiedBy
        ,p.employeeId
        ,p.period
        ,p.basicSalary
        ,p.allowances
        ,p.grossPay
        ,p.deductions
        ,p.netPay
        ,e.name employeeName
    from
        payslip p
        inner join employee e on p.employeeId = e.id
    where
        p.employeeId = ?
    order by
        p.period desc
    `
	err := tx.Select(&payslips, getPayslipsStatement, employeeID)
	return payslips, err
}
