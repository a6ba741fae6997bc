package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bbyours/attendance-server/dao"
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/performance"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/services/audit"
	"github.com/bbyours/attendance-server/util"
)

// clockIn records the caller's arrival for today. Arrivals more than thirty
// minutes before shift start are refused until an early clock in exception
// has been approved, in which case the approval already wrote the row.
func (h AppServer) clockIn(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	beganAt := h.Tracker.BeginTime(performance.ClockInCounter)
	defer h.Tracker.EndTime(performance.ClockInCounter, beganAt, performance.SizeJob(1))

	caller, ok := CallerFromContext(ctx)
	if !ok {
		return NewAppError(500, errors.New("Could not get caller from context"), "Invalid caller.")
	}
	gem, _ := GEMFromContext(ctx)
	gem.Action = "create"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventCreate")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "CREATE")
	d := DAOFromContext(ctx)

	now := time.Now()
	today := util.DateString(now)

	if _, err := d.GetAttendanceForDate(caller.ID, today); err == nil {
		herr := NewAppError(409, nil, "Already clocked in today")
		h.publishError(gem, herr)
		return herr
	} else if err.Error() != sql.ErrNoRows.Error() {
		herr := NewAppError(500, err, "Error checking attendance")
		h.publishError(gem, herr)
		return herr
	}

	employee, err := d.GetEmployeeByID(caller.ID)
	if err != nil {
		herr := NewAppError(500, err, "Error loading employee record")
		h.publishError(gem, herr)
		return herr
	}
	shiftStart, err := util.ShiftOnDate(employee.ShiftStart, now)
	if err != nil {
		herr := NewAppError(500, err, "Malformed shift configuration")
		h.publishError(gem, herr)
		return herr
	}
	if early := util.MinutesEarly(now, shiftStart); early > models.EarlyClockInWindowMinutes {
		herr := NewAppError(409, nil, "Too early to clock in")
		h.publishError(gem, herr)
		jsonResponseWithCode(w, protocol.ApprovalRequired{
			RequiresApproval: true,
			MinutesEarly:     early,
			Message:          fmt.Sprintf("Clock in opens %d minutes before shift start. Request an early clock in exception.", models.EarlyClockInWindowMinutes),
		}, 409)
		return herr
	}

	attendance := models.ATAttendance{
		EmployeeID:     caller.ID,
		AttendanceDate: today,
		ClockIn:        models.ToNullTime(now),
		Status:         models.AttendanceStatusPresent,
	}
	attendance.CreatedBy = caller.EmployeeCode
	created, err := d.CreateAttendance(&attendance)
	if err != nil {
		if err == dao.ErrAlreadyClockedIn {
			herr := NewAppError(409, err, "Already clocked in today")
			h.publishError(gem, herr)
			return herr
		}
		herr := NewAppError(500, err, "Error recording clock in")
		h.publishError(gem, herr)
		return herr
	}

	gem.Payload.ObjectID = created.ID
	gem.Payload.ChangeToken = created.ChangeToken
	h.publishSuccess(gem, w)
	jsonResponse(w, protocol.ClockInResponse{
		ClockInTime: util.TimeString(created.ClockIn.Time),
		Status:      created.Status,
	})
	return nil
}
