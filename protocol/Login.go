package protocol

// LoginRequest is the credentials presented to begin a session.
type LoginRequest struct {
	// EmployeeID is the code assigned to the employee.
	EmployeeID string `json:"employeeId"`
	// Password is the clear password. Verified against a stored hash and
	// never persisted.
	Password string `json:"password"`
}

// LoginResponse is returned for a successful login.
type LoginResponse struct {
	// SessionToken authenticates subsequent requests until idle expiry.
	SessionToken string `json:"sessionToken"`
	// EmployeeID is the code assigned to the employee.
	EmployeeID string `json:"employeeId"`
	// EmployeeName is the display name for the signed in employee.
	EmployeeName string `json:"employeeName"`
	// Role is either Employee or Admin.
	Role string `json:"role"`
}

// SessionResponse reports the state of the presented session token.
type SessionResponse struct {
	Valid        bool   `json:"valid"`
	EmployeeID   string `json:"employeeId,omitempty"`
	EmployeeName string `json:"employeeName,omitempty"`
	Role         string `json:"role,omitempty"`
}
