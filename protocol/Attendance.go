package protocol

// ClockInResponse is returned when a clock in is accepted.
type ClockInResponse struct {
	// ClockInTime is the recorded time as HH:MM:SS.
	ClockInTime string `json:"clockInTime"`
	// Status of the attendance record. Currently always PRESENT.
	Status string `json:"status"`
}

// ClockOutResponse is returned when a clock out is accepted.
type ClockOutResponse struct {
	// ClockOutTime is the recorded time as HH:MM:SS.
	ClockOutTime string `json:"clockOutTime"`
	// Status of the attendance record.
	Status string `json:"status"`
}

// AttendanceToday summarizes the caller's attendance record for the current
// day.
type AttendanceToday struct {
	// Date is the calendar day as YYYY-MM-DD.
	Date string `json:"date"`
	// ClockedIn is true once a clock in is recorded for the day.
	ClockedIn bool `json:"clockedIn"`
	// ClockInTime is the recorded clock in as HH:MM:SS, or empty.
	ClockInTime string `json:"clockInTime"`
	// ClockOutTime is the recorded clock out as HH:MM:SS, or empty.
	ClockOutTime string `json:"clockOutTime"`
	// Status of the attendance record, or empty when absent.
	Status string `json:"status"`
}

// ApprovalRequired is returned with a conflict status when a clock action
// falls outside the permitted window and needs an approved exception.
type ApprovalRequired struct {
	RequiresApproval bool `json:"requiresApproval"`
	// MinutesEarly is how far before the early window the clock in falls.
	MinutesEarly int `json:"minutesEarly,omitempty"`
	// MinutesOvertime is how far past the overtime window the clock out falls.
	MinutesOvertime int `json:"minutesOvertime,omitempty"`
	// Message is a short operator readable explanation.
	Message string `json:"message"`
}
