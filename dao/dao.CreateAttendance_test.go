package dao_test

import (
	"database/sql"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/bbyours/attendance-server/dao"
	"github.com/bbyours/attendance-server/metadata/models"
)

// freshAttendanceDate hunts for a calendar date the employee holds no
// record on, so runs against a reused database do not trip the unique key.
func freshAttendanceDate(t *testing.T, employeeID string) string {
	for attempt := 0; attempt < 20; attempt++ {
		date := fmt.Sprintf("19%02d-%02d-%02d", rand.Intn(100), rand.Intn(12)+1, rand.Intn(28)+1)
		_, err := d.GetAttendanceForDate(employeeID, date)
		if err == sql.ErrNoRows {
			return date
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	t.Fatal("could not find an unused attendance date")
	return ""
}

func TestDAOCreateAttendance(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	if d == nil {
		t.Skip("database not available")
	}
	employee := testEmployees[0]
	date := freshAttendanceDate(t, employee.ID)

	var attendance models.ATAttendance
	attendance.CreatedBy = employee.EmployeeCode
	attendance.EmployeeID = employee.ID
	attendance.AttendanceDate = date
	attendance.ClockIn = models.ToNullTime(time.Now())

	dbAttendance, err := d.CreateAttendance(&attendance)
	if err != nil {
		t.Fatal(err)
	}
	if len(dbAttendance.ID) == 0 {
		t.Error("expected ID to be set")
	}
	if dbAttendance.Status != models.AttendanceStatusPresent {
		t.Errorf("expected status %s, got %s", models.AttendanceStatusPresent, dbAttendance.Status)
	}
	if !dbAttendance.ClockIn.Valid {
		t.Error("expected clockIn to be recorded")
	}
	if dbAttendance.ClockOut.Valid {
		t.Error("expected clockOut to be empty on clock in")
	}

	// A second clock in for the same day must be refused
	var again models.ATAttendance
	again.CreatedBy = employee.EmployeeCode
	again.EmployeeID = employee.ID
	again.AttendanceDate = date
	again.ClockIn = models.ToNullTime(time.Now())
	if _, err := d.CreateAttendance(&again); err != dao.ErrAlreadyClockedIn {
		t.Errorf("expected ErrAlreadyClockedIn, got %v", err)
	}

	// Clock out lands once
	dbAttendance.ModifiedBy = employee.EmployeeCode
	dbAttendance.ClockOut = models.ToNullTime(time.Now())
	clockedOut, err := d.SetAttendanceClockOut(&dbAttendance)
	if err != nil {
		t.Fatal(err)
	}
	if !clockedOut.ClockOut.Valid {
		t.Error("expected clockOut to be recorded")
	}

	// and only once
	if _, err := d.SetAttendanceClockOut(&dbAttendance); err != dao.ErrNoRows {
		t.Errorf("expected ErrNoRows on second clock out, got %v", err)
	}
}

func TestDAOCountClockedInForDate(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	if d == nil {
		t.Skip("database not available")
	}
	employee := testEmployees[1]
	date := freshAttendanceDate(t, employee.ID)

	before, err := d.CountClockedInForDate(date)
	if err != nil {
		t.Fatal(err)
	}

	var attendance models.ATAttendance
	attendance.CreatedBy = employee.EmployeeCode
	attendance.EmployeeID = employee.ID
	attendance.AttendanceDate = date
	attendance.ClockIn = models.ToNullTime(time.Now())
	if _, err := d.CreateAttendance(&attendance); err != nil {
		t.Fatal(err)
	}

	after, err := d.CountClockedInForDate(date)
	if err != nil {
		t.Fatal(err)
	}
	if after != before+1 {
		t.Errorf("expected count %d, got %d", before+1, after)
	}
}
