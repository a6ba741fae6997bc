package models

import "time"

// Outcomes recorded on security log entries.
const (
	LogStatusSuccess = "SUCCESS"
	LogStatusFailure = "FAILURE"
	LogStatusDenied  = "DENIED"
)

/*
ATSecurityLog is a structure defining one security relevant action taken
against the system. Rows are append only.
*/
type ATSecurityLog struct {
	ATID
	// EventDate is when the action happened.
	EventDate time.Time `db:"eventDate"`
	// Action names the operation, e.g. LOGIN or SET_PASSWORD.
	Action string `db:"action"`
	// UserID is the employee code of the actor, when known.
	UserID NullString `db:"userId"`
	// Status is SUCCESS, FAILURE, or DENIED.
	Status string `db:"status"`
	// Details carries a small JSON blob of action specific fields.
	Details NullString `db:"details"`
}
