package models

/*
ATPayslip is a structure defining a single monthly payslip row. Payslips are
prepared by payroll and are read only through this application.
*/
type ATPayslip struct {
	ATID
	ATCreatable
	ATModifiable
	// EmployeeID references the employee paid.
	EmployeeID string `db:"employeeId"`
	// Period is the month covered as YYYY-MM.
	Period string `db:"period"`
	// BasicSalary is base pay for the period.
	BasicSalary float64 `db:"basicSalary"`
	// Allowances is the sum of additional pay for the period.
	Allowances float64 `db:"allowances"`
	// GrossPay is basic salary plus allowances.
	GrossPay float64 `db:"grossPay"`
	// Deductions is the sum of withholdings for the period.
	Deductions float64 `db:"deductions"`
	// NetPay is gross pay minus deductions.
	NetPay float64 `db:"netPay"`
	// EmployeeName is joined from the employee for admin views.
	EmployeeName string `db:"employeeName"`
}
