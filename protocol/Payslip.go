package protocol

// Payslip is the serialized version of a monthly payslip row. Payslips are
// read only through this API.
type Payslip struct {
	// Name is the display name of the employee paid.
	Name string `json:"name"`
	// Period is the month covered as YYYY-MM.
	Period string `json:"period"`
	// BasicSalary is base pay for the period.
	BasicSalary float64 `json:"basicSalary"`
	// Allowances is the sum of additional pay for the period.
	Allowances float64 `json:"allowances"`
	// Gross is basic salary plus allowances.
	Gross float64 `json:"gross"`
	// Deductions is the sum of withholdings for the period.
	Deductions float64 `json:"deductions"`
	// NetPay is gross minus deductions.
	NetPay float64 `json:"netPay"`
}
