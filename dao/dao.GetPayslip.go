package dao

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// GetPayslip retrieves the payslip for the given employee covering the
// given period expressed as YYYY-MM. A month that payroll has not prepared
// yet yields ErrNoRows.
func (dao *DataAccessLayer) GetPayslip(employeeID string, period string) (models.ATPayslip, error) {
	defer util.Time("GetPayslip")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return models.ATPayslip{}, err
	}
	dbPayslip, err := getPayslipInTransaction(tx, employeeID, period)
	if err != nil {
		if err.Error() != ErrNoRows.Error() {
			dao.GetLogger().Error("Error in GetPayslip", zap.Error(err))
		}
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return dbPayslip, err
}

func getPayslipInTransaction(tx *sqlx.Tx, employeeID string, period string) (models.ATPayslip, error) {
	var dbPayslip models.ATPayslip
	getPayslipStatement := `
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
        and p.period = ?
    `
	err := tx.Get(&dbPayslip, getPayslipStatement, employeeID, period)
	if err != nil {
		return dbPayslip, err
	}

	return dbPayslip, err
}
