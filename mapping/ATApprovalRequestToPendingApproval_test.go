package mapping_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/bbyours/attendance-server/mapping"
	"github.com/bbyours/attendance-server/metadata/models"
)

func TestMaskEmployeeCode(t *testing.T) {

	checks := map[string]string{
		"EMP-2024-0117": "***0117",
		"12345":         "***2345",
		"1234":          "1234",
		"":              "",
	}
	for input, expected := range checks {
		if actual := mapping.MaskEmployeeCode(input); actual != expected {
			t.Errorf("Masked %s to %s. Expected %s", input, actual, expected)
		}
	}
}

func TestMapATApprovalRequestToPendingApproval(t *testing.T) {

	requested := time.Date(2024, 3, 11, 8, 10, 0, 0, time.Local)

	i := models.ATApprovalRequest{
		RequestType:   models.ApprovalTypeEarlyClockIn,
		RequestDate:   "2024-03-11",
		RequestedTime: models.NullTime{NullTime: sql.NullTime{Time: requested, Valid: true}},
		Minutes:       50,
		EmployeeCode:  "EMP-2024-0117",
		EmployeeName:  "Dana Operator",
	}
	i.ID = models.NewATID().ID

	o := mapping.MapATApprovalRequestToPendingApproval(&i)

	if o.EmployeeID != "***0117" {
		t.Errorf("Expected masked employee id, got %s", o.EmployeeID)
	}
	if o.ClockInTime != "08:10:00" {
		t.Errorf("Expected requested clock in, got %s", o.ClockInTime)
	}
	if o.ClockOutTime != "-" {
		t.Errorf("Expected dash for clock out, got %s", o.ClockOutTime)
	}
	if o.Details.MinutesEarly != 50 {
		t.Errorf("Expected 50 minutes early, got %d", o.Details.MinutesEarly)
	}
	if o.Details.MinutesOvertime != 0 {
		t.Errorf("Expected no overtime minutes, got %d", o.Details.MinutesOvertime)
	}
}
