package mapping

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/protocol"
)

// MapATEmployeeToEmployee converts an internal ATEmployee model object into
// an API exposable protocol Employee. The password hash does not cross this
// boundary.
func MapATEmployeeToEmployee(i *models.ATEmployee) protocol.Employee {
	o := protocol.Employee{}
	o.EmployeeID = i.EmployeeCode
	o.Name = i.Name
	o.Email = i.Email.String
	o.Role = i.Role
	o.ShiftStart = i.ShiftStart
	o.ShiftEnd = i.ShiftEnd
	o.Active = i.IsActive
	return o
}

// MapATEmployeesToEmployees converts an array of internal ATEmployee model
// objects into an array of protocol Employees.
func MapATEmployeesToEmployees(i []models.ATEmployee) []protocol.Employee {
	o := make([]protocol.Employee, len(i))
	for p, q := range i {
		o[p] = MapATEmployeeToEmployee(&q)
	}
	return o
}
