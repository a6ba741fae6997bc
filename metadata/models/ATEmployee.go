package models

// Roles assignable to an employee record. Admins supervise approvals,
// credentials, and the security log.
const (
	RoleEmployee = "Employee"
	RoleAdmin    = "Admin"
)

// PasswordLength is the exact length required of employee passwords.
const PasswordLength = 12

/*
ATEmployee is a structure defining the attributes of an employee account.
Unique to this element is the fact that callers reference it by the assigned
EmployeeCode rather than ID.
*/
type ATEmployee struct {
	ATID
	ATCreatable
	ATModifiable
	ATChangeTracking
	// EmployeeCode is the identifier an employee signs in with.
	EmployeeCode string `db:"employeeCode"`
	// Name is the display name shown on payslips and messages.
	Name string `db:"name"`
	// Email receives one time passcodes for attendance exceptions.
	Email NullString `db:"email"`
	// Role is either Employee or Admin.
	Role string `db:"role"`
	// PasswordHash is a bcrypt hash. The clear password is never stored.
	PasswordHash string `db:"passwordHash"`
	// ShiftStart is the scheduled start of shift as HH:MM.
	ShiftStart string `db:"shiftStart"`
	// ShiftEnd is the scheduled end of shift as HH:MM.
	ShiftEnd string `db:"shiftEnd"`
	// BasicSalary is the monthly base pay used for payslip rows.
	BasicSalary float64 `db:"basicSalary"`
	// IsActive marks whether the account may sign in.
	IsActive bool `db:"isActive"`
}

/*
ATEmployeeResultset encapsulates the ATEmployee defined herein as an array with
resultset metric information to expose page size, page number, total rows, and
page count information when retrieving from the database
*/
type ATEmployeeResultset struct {
	Resultset
	Employees []ATEmployee
}
