package protocol

import "github.com/bbyours/attendance-server/metadata/models"

// Caller provides the authenticated identity resolved from the session token
// presented with a request.
type Caller struct {
	// ID is the internal identifier of the employee record.
	ID string
	// EmployeeCode is the identifier the employee signs in with.
	EmployeeCode string
	// Name is the display name of the employee.
	Name string
	// Role is either Employee or Admin.
	Role string
	// SessionToken is the token the identity was resolved from.
	SessionToken string
}

// IsAdmin tests whether the caller holds the admin role.
func (caller Caller) IsAdmin() bool {
	return caller.Role == models.RoleAdmin
}

// GetName yields a name suitable for attribution on audit records.
func (caller Caller) GetName() string {
	if caller.Name != "" {
		return caller.Name
	}
	return caller.EmployeeCode
}
