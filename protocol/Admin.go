package protocol

// AdminDashboard summarizes the state of the operation for the admin
// landing page.
type AdminDashboard struct {
	// TotalEmployees counts active employee accounts.
	TotalEmployees int `json:"totalEmployees"`
	// ClockedInToday counts employees with a clock in recorded today.
	ClockedInToday int `json:"clockedInToday"`
	// PendingApprovals counts exception requests awaiting a decision.
	PendingApprovals int `json:"pendingApprovals"`
	// UnreadMessages counts unread messages addressed to the admin.
	UnreadMessages int `json:"unreadMessages"`
}

// ApprovalDetails carries the type specific numbers for a pending approval.
type ApprovalDetails struct {
	MinutesEarly    int `json:"minutesEarly,omitempty"`
	MinutesOvertime int `json:"minutesOvertime,omitempty"`
}

// PendingApproval is the serialized version of an exception request awaiting
// a decision. The employee id is masked to its last four characters.
type PendingApproval struct {
	// ApprovalID identifies the request for processing.
	ApprovalID string `json:"approvalId"`
	// Type is EARLY_CLOCKIN or OVERTIME.
	Type string `json:"type"`
	// EmployeeID is the masked employee code, e.g. ***1234.
	EmployeeID string `json:"employeeId"`
	// EmployeeName is the display name of the requesting employee.
	EmployeeName string `json:"employeeName"`
	// Date is the calendar day the exception applies to.
	Date string `json:"date"`
	// ClockInTime is the relevant clock in as HH:MM:SS, or a dash.
	ClockInTime string `json:"clockInTime"`
	// ClockOutTime is the relevant clock out as HH:MM:SS, or a dash.
	ClockOutTime string `json:"clockOutTime"`
	// Details carries how far outside the window the request falls.
	Details ApprovalDetails `json:"details"`
}

// PendingApprovalResultset is a page of pending approvals.
type PendingApprovalResultset struct {
	Resultset
	Approvals []PendingApproval `json:"approvals"`
}

// ProcessApprovalRequest carries the admin decision for a pending approval.
type ProcessApprovalRequest struct {
	// Approve is true to approve, false to reject.
	Approve bool `json:"approve"`
}

// ProcessApprovalResponse is returned when a decision is recorded.
type ProcessApprovalResponse struct {
	ApprovalID string `json:"approvalId"`
	// Status is APPROVED or REJECTED.
	Status string `json:"status"`
	// ProcessedBy is the display name of the deciding admin.
	ProcessedBy string `json:"processedBy"`
}

// Employee is the serialized version of an employee account for admin
// listings. The password hash is never serialized.
type Employee struct {
	// EmployeeID is the code assigned to the employee.
	EmployeeID string `json:"employeeId"`
	// Name is the display name.
	Name string `json:"name"`
	// Email receives one time passcodes, when set.
	Email string `json:"email"`
	// Role is either Employee or Admin.
	Role string `json:"role"`
	// ShiftStart is the scheduled start of shift as HH:MM.
	ShiftStart string `json:"shiftStart"`
	// ShiftEnd is the scheduled end of shift as HH:MM.
	ShiftEnd string `json:"shiftEnd"`
	// Active marks whether the account may sign in.
	Active bool `json:"active"`
}

// EmployeeResultset is a page of employee accounts.
type EmployeeResultset struct {
	Resultset
	Employees []Employee `json:"employees"`
}

// SetPasswordRequest replaces an employee's password. The password must be
// exactly twelve characters.
type SetPasswordRequest struct {
	Password string `json:"password"`
}

// SecurityLog is the serialized version of a security log entry.
type SecurityLog struct {
	// Timestamp is when the action happened.
	Timestamp string `json:"timestamp"`
	// Action names the operation, e.g. LOGIN or SET_PASSWORD.
	Action string `json:"action"`
	// User is the employee code of the actor, when known.
	User string `json:"user"`
	// Status is SUCCESS, FAILURE, or DENIED.
	Status string `json:"status"`
	// Details carries a small JSON blob of action specific fields.
	Details string `json:"details,omitempty"`
}

// SecurityLogResultset is a page of security log entries.
type SecurityLogResultset struct {
	Resultset
	Logs []SecurityLog `json:"logs"`
}
