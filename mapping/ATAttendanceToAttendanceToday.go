package mapping

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/util"
)

// MapATAttendanceToAttendanceToday converts an internal ATAttendance model
// object into an API exposable protocol AttendanceToday.
func MapATAttendanceToAttendanceToday(i *models.ATAttendance) protocol.AttendanceToday {
	o := protocol.AttendanceToday{}
	o.Date = i.AttendanceDate
	o.Status = i.Status
	if i.ClockIn.Valid {
		o.ClockedIn = true
		o.ClockInTime = util.TimeString(i.ClockIn.Time)
	}
	if i.ClockOut.Valid {
		o.ClockOutTime = util.TimeString(i.ClockOut.Time)
	}
	return o
}
