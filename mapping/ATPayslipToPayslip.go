package mapping

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/protocol"
)

// MapATPayslipToPayslip converts an internal ATPayslip model object into an
// API exposable protocol Payslip.
func MapATPayslipToPayslip(i *models.ATPayslip) protocol.Payslip {
	o := protocol.Payslip{}
	o.Name = i.EmployeeName
	o.Period = i.Period
	o.BasicSalary = i.BasicSalary
	o.Allowances = i.Allowances
	o.Gross = i.GrossPay
	o.Deductions = i.Deductions
	o.NetPay = i.NetPay
	return o
}
