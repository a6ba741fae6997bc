package models

// Attendance window rules. Clocking in earlier than the early window, or out
// later than the overtime window, needs an approved exception request.
const (
	EarlyClockInWindowMinutes = 30
	OvertimeWindowMinutes     = 15
)

// AttendanceStatusPresent marks a normal attended day.
const AttendanceStatusPresent = "PRESENT"

/*
ATAttendance is a structure defining a single attendance day for an employee.
At most one record exists per employee per calendar date.
*/
type ATAttendance struct {
	ATID
	ATCreatable
	ATModifiable
	ATChangeTracking
	// EmployeeID references the employee the record belongs to.
	EmployeeID string `db:"employeeId"`
	// AttendanceDate is the calendar day this record covers.
	AttendanceDate string `db:"attendanceDate"`
	// ClockIn is when the employee clocked in.
	ClockIn NullTime `db:"clockIn"`
	// ClockOut is when the employee clocked out, if they have.
	ClockOut NullTime `db:"clockOut"`
	// Status currently only takes the value PRESENT.
	Status string `db:"status"`
	// EarlyApproved is set when an early clock in exception was approved
	// for this day.
	EarlyApproved bool `db:"earlyApproved"`
	// OvertimeApproved is set when an overtime exception was approved for
	// this day.
	OvertimeApproved bool `db:"overtimeApproved"`
}
