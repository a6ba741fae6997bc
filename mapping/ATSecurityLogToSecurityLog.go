package mapping

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/util"
)

// MapATSecurityLogToSecurityLog converts an internal ATSecurityLog model
// object into an API exposable protocol SecurityLog.
func MapATSecurityLogToSecurityLog(i *models.ATSecurityLog) protocol.SecurityLog {
	o := protocol.SecurityLog{}
	o.Timestamp = i.EventDate.Format(util.DateFormat + " " + util.TimeFormat)
	o.Action = i.Action
	o.User = i.UserID.String
	o.Status = i.Status
	o.Details = i.Details.String
	return o
}

// MapATSecurityLogsToSecurityLogs converts an array of internal
// ATSecurityLog model objects into an array of protocol SecurityLogs.
func MapATSecurityLogsToSecurityLogs(i []models.ATSecurityLog) []protocol.SecurityLog {
	o := make([]protocol.SecurityLog, len(i))
	for p, q := range i {
		o[p] = MapATSecurityLogToSecurityLog(&q)
	}
	return o
}
