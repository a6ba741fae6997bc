package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bbyours/attendance-server/mapping"
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/performance"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/services/audit"
	"github.com/bbyours/attendance-server/util"
)

// clockOut closes the caller's attendance record for today. Departures more
// than fifteen minutes past shift end need an approved overtime exception,
// in which case the approval already recorded the departure.
func (h AppServer) clockOut(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	beganAt := h.Tracker.BeginTime(performance.ClockOutCounter)
	defer h.Tracker.EndTime(performance.ClockOutCounter, beganAt, performance.SizeJob(1))

	caller, ok := CallerFromContext(ctx)
	if !ok {
		return NewAppError(500, errors.New("Could not get caller from context"), "Invalid caller.")
	}
	gem, _ := GEMFromContext(ctx)
	gem.Action = "update"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventModify")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "MODIFY")
	d := DAOFromContext(ctx)

	now := time.Now()
	today := util.DateString(now)

	attendance, err := d.GetAttendanceForDate(caller.ID, today)
	if err != nil {
		if err.Error() == sql.ErrNoRows.Error() {
			herr := NewAppError(409, nil, "Not clocked in")
			h.publishError(gem, herr)
			return herr
		}
		herr := NewAppError(500, err, "Error checking attendance")
		h.publishError(gem, herr)
		return herr
	}
	if attendance.ClockOut.Valid {
		herr := NewAppError(409, nil, "Already clocked out today")
		h.publishError(gem, herr)
		return herr
	}

	employee, err := d.GetEmployeeByID(caller.ID)
	if err != nil {
		herr := NewAppError(500, err, "Error loading employee record")
		h.publishError(gem, herr)
		return herr
	}
	shiftEnd, err := util.ShiftOnDate(employee.ShiftEnd, now)
	if err != nil {
		herr := NewAppError(500, err, "Malformed shift configuration")
		h.publishError(gem, herr)
		return herr
	}
	over := util.MinutesOvertime(now, shiftEnd)
	if over > models.OvertimeWindowMinutes && !attendance.OvertimeApproved {
		herr := NewAppError(409, nil, "Overtime approval required to clock out this late")
		jsonResponseWithCode(w, protocol.ApprovalRequired{
			RequiresApproval: true,
			MinutesOvertime:  over,
			Message:          fmt.Sprintf("Clock out closes %d minutes after shift end. Request an overtime exception.", models.OvertimeWindowMinutes),
		}, 409)
		h.publishError(gem, herr)
		return herr
	}

	attendance.ModifiedBy = caller.EmployeeCode
	attendance.ClockOut = models.ToNullTime(now)
	updated, err := d.SetAttendanceClockOut(&attendance)
	if err != nil {
		herr := NewAppError(500, err, "Error recording clock out")
		h.publishError(gem, herr)
		return herr
	}

	gem.Payload.ObjectID = updated.ID
	gem.Payload.ChangeToken = updated.ChangeToken
	h.publishSuccess(gem, w)
	jsonResponse(w, protocol.ClockOutResponse{
		ClockOutTime: util.TimeString(updated.ClockOut.Time),
		Status:       updated.Status,
	})
	return nil
}

// getTodayAttendance reports the caller's attendance record for the current
// day, or an empty record when nothing is on file yet.
func (h AppServer) getTodayAttendance(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return NewAppError(500, errors.New("Could not get caller from context"), "Invalid caller.")
	}
	gem, _ := GEMFromContext(ctx)
	gem.Action = "access"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventAccess")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "ACCESS")
	d := DAOFromContext(ctx)

	today := util.DateString(time.Now())
	attendance, err := d.GetAttendanceForDate(caller.ID, today)
	if err != nil {
		if err.Error() == sql.ErrNoRows.Error() {
			h.publishSuccess(gem, w)
			jsonResponse(w, protocol.AttendanceToday{Date: today})
			return nil
		}
		herr := NewAppError(500, err, "Error loading attendance")
		h.publishError(gem, herr)
		return herr
	}

	h.publishSuccess(gem, w)
	jsonResponse(w, mapping.MapATAttendanceToAttendanceToday(&attendance))
	return nil
}
