package models

// Types of attendance exception an employee can request.
const (
	ApprovalTypeEarlyClockIn = "EARLY_CLOCKIN"
	ApprovalTypeOvertime     = "OVERTIME"
)

// States an approval request moves through. Once processed a request never
// returns to pending.
const (
	ApprovalStatusPending  = "PENDING"
	ApprovalStatusApproved = "APPROVED"
	ApprovalStatusRejected = "REJECTED"
)

/*
ATApprovalRequest is a structure defining an attendance exception awaiting or
having received an admin decision.
*/
type ATApprovalRequest struct {
	ATID
	ATCreatable
	ATModifiable
	ATChangeTracking
	// RequestType is EARLY_CLOCKIN or OVERTIME.
	RequestType string `db:"requestType"`
	// EmployeeID references the requesting employee.
	EmployeeID string `db:"employeeId"`
	// RequestDate is the calendar day the exception applies to.
	RequestDate string `db:"requestDate"`
	// RequestedTime is the clock in or clock out time sought.
	RequestedTime NullTime `db:"requestedTime"`
	// Minutes is how far outside the permitted window the request falls.
	Minutes int `db:"minutes"`
	// Status is PENDING until an admin processes the request.
	Status string `db:"status"`
	// ProcessedBy is the admin who approved or rejected the request.
	ProcessedBy NullString `db:"processedBy"`
	// ProcessedDate is when the decision was made.
	ProcessedDate NullTime `db:"processedDate"`
	// EmployeeCode is joined from the employee for admin views.
	EmployeeCode string `db:"employeeCode"`
	// EmployeeName is joined from the employee for admin views.
	EmployeeName string `db:"employeeName"`
	// AttendanceClockIn is joined from any attendance row already present
	// for the request date.
	AttendanceClockIn NullTime `db:"attendanceClockIn"`
}

/*
ATApprovalRequestResultset encapsulates the ATApprovalRequest defined herein
as an array with resultset metric information when retrieving from the
database
*/
type ATApprovalRequestResultset struct {
	Resultset
	ApprovalRequests []ATApprovalRequest
}
