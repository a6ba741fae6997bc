package server_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bbyours/attendance-server/dao"
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/util"
)

// openAttendance returns a record with a clock in and no clock out yet.
func openAttendance(worker models.ATEmployee) models.ATAttendance {
	attendance := models.ATAttendance{
		EmployeeID:     worker.ID,
		AttendanceDate: util.DateString(time.Now()),
		ClockIn:        models.ToNullTime(time.Now().Add(-4 * time.Hour)),
		Status:         models.AttendanceStatusPresent,
	}
	attendance.ATID = models.NewATID()
	attendance.ChangeToken = "ct-open"
	return attendance
}

func TestClockOutStampsDeparture(t *testing.T) {
	worker, _ := setupFakeEmployees()

	open := openAttendance(worker)
	closed := open
	closed.ClockOut = models.ToNullTime(time.Now())
	closed.ChangeToken = "ct-closed"

	fake := dao.FakeDAO{
		Employee:          worker,
		Attendance:        open,
		UpdatedAttendance: closed,
	}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("POST", mountPoint+"/api/attendance/clockout", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("Expected OK, got %v", w.Code)
	}
	var resp protocol.ClockOutResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Errorf("Could not decode clock out response: %s", err)
	}
	if len(resp.ClockOutTime) == 0 {
		t.Errorf("Expected a recorded clock out time")
	}
	if resp.Status != models.AttendanceStatusPresent {
		t.Errorf("Expected status %s, got %s", models.AttendanceStatusPresent, resp.Status)
	}
}

func TestClockOutWithoutClockInConflicts(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{
		Employee:      worker,
		AttendanceErr: sql.ErrNoRows,
	}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("POST", mountPoint+"/api/attendance/clockout", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 when never clocked in, got %v", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Not clocked in") {
		t.Errorf("Expected the conflict to explain itself: %s", w.Body.String())
	}
}

func TestClockOutTwiceConflicts(t *testing.T) {
	worker, _ := setupFakeEmployees()

	done := openAttendance(worker)
	done.ClockOut = models.ToNullTime(time.Now())

	fake := dao.FakeDAO{Employee: worker, Attendance: done}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("POST", mountPoint+"/api/attendance/clockout", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for a second clock out, got %v", w.Code)
	}
}

// A departure more than fifteen minutes past shift end needs an approved
// overtime exception on the attendance record.
func TestClockOutOutsideWindowNeedsApproval(t *testing.T) {
	now := time.Now()
	endedLongAgo := now.Add(-2 * time.Hour)
	if endedLongAgo.Day() != now.Day() {
		t.Skip("shift window would cross midnight")
	}

	worker, _ := setupFakeEmployees()
	worker.ShiftEnd = endedLongAgo.Format(util.ShiftFormat)

	fake := dao.FakeDAO{
		Employee:   worker,
		Attendance: openAttendance(worker),
	}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("POST", mountPoint+"/api/attendance/clockout", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 outside the overtime window, got %v", w.Code)
	}
	var resp protocol.ApprovalRequired
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Errorf("Could not decode the refusal body: %s: %s", err, w.Body.String())
	}
	if !resp.RequiresApproval {
		t.Errorf("Expected requiresApproval to be set: %+v", resp)
	}
	if resp.MinutesOvertime <= models.OvertimeWindowMinutes {
		t.Errorf("Expected more than %d minutes overtime, got %d", models.OvertimeWindowMinutes, resp.MinutesOvertime)
	}
}

// With an approved overtime exception the late departure goes straight
// through.
func TestClockOutLateWithApprovalSucceeds(t *testing.T) {
	now := time.Now()
	endedLongAgo := now.Add(-2 * time.Hour)
	if endedLongAgo.Day() != now.Day() {
		t.Skip("shift window would cross midnight")
	}

	worker, _ := setupFakeEmployees()
	worker.ShiftEnd = endedLongAgo.Format(util.ShiftFormat)

	open := openAttendance(worker)
	open.OvertimeApproved = true
	closed := open
	closed.ClockOut = models.ToNullTime(now)

	fake := dao.FakeDAO{
		Employee:          worker,
		Attendance:        open,
		UpdatedAttendance: closed,
	}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("POST", mountPoint+"/api/attendance/clockout", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("Expected OK with an approved exception, got %v", w.Code)
	}
}

func TestGetTodayAttendanceWhenAbsent(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{
		Employee:      worker,
		AttendanceErr: sql.ErrNoRows,
	}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("GET", mountPoint+"/api/attendance/today", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("Expected OK, got %v", w.Code)
	}
	var resp protocol.AttendanceToday
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Errorf("Could not decode attendance response: %s", err)
	}
	if resp.ClockedIn {
		t.Errorf("Expected no clock in on an empty day: %+v", resp)
	}
	if resp.Date != util.DateString(time.Now()) {
		t.Errorf("Expected today's date, got %s", resp.Date)
	}
}

func TestGetTodayAttendanceShowsRecord(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{
		Employee:   worker,
		Attendance: openAttendance(worker),
	}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("GET", mountPoint+"/api/attendance/today", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("Expected OK, got %v", w.Code)
	}
	var resp protocol.AttendanceToday
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Errorf("Could not decode attendance response: %s", err)
	}
	if !resp.ClockedIn || len(resp.ClockInTime) == 0 {
		t.Errorf("Expected the open record to show its clock in: %+v", resp)
	}
	if len(resp.ClockOutTime) != 0 {
		t.Errorf("Expected no clock out on an open record: %+v", resp)
	}
}
