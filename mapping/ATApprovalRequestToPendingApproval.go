package mapping

import (
	"strings"

	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/util"
)

// MaskEmployeeCode hides all but the last four characters of an employee
// code for admin facing listings.
func MaskEmployeeCode(code string) string {
	if len(code) <= 4 {
		return code
	}
	return "***" + code[len(code)-4:]
}

// MapATApprovalRequestToPendingApproval converts an internal
// ATApprovalRequest model object into an API exposable protocol
// PendingApproval. The employee code is masked.
func MapATApprovalRequestToPendingApproval(i *models.ATApprovalRequest) protocol.PendingApproval {
	o := protocol.PendingApproval{}
	o.ApprovalID = i.ID
	o.Type = i.RequestType
	o.EmployeeID = MaskEmployeeCode(i.EmployeeCode)
	o.EmployeeName = i.EmployeeName
	o.Date = i.RequestDate
	o.ClockInTime = "-"
	o.ClockOutTime = "-"
	switch strings.ToUpper(i.RequestType) {
	case models.ApprovalTypeEarlyClockIn:
		if i.RequestedTime.Valid {
			o.ClockInTime = util.TimeString(i.RequestedTime.Time)
		}
		o.Details.MinutesEarly = i.Minutes
	case models.ApprovalTypeOvertime:
		if i.AttendanceClockIn.Valid {
			o.ClockInTime = util.TimeString(i.AttendanceClockIn.Time)
		}
		if i.RequestedTime.Valid {
			o.ClockOutTime = util.TimeString(i.RequestedTime.Time)
		}
		o.Details.MinutesOvertime = i.Minutes
	}
	return o
}

// MapATApprovalRequestsToPendingApprovals converts an array of internal
// ATApprovalRequest model objects into an array of protocol
// PendingApprovals.
func MapATApprovalRequestsToPendingApprovals(i []models.ATApprovalRequest) []protocol.PendingApproval {
	o := make([]protocol.PendingApproval, len(i))
	for p, q := range i {
		o[p] = MapATApprovalRequestToPendingApproval(&q)
	}
	return o
}
