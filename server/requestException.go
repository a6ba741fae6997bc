package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bbyours/attendance-server/dao"
	"github.com/bbyours/attendance-server/mapping"
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/performance"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/services/alert"
	"github.com/bbyours/attendance-server/services/audit"
	"github.com/bbyours/attendance-server/services/session"
	"github.com/bbyours/attendance-server/util"
)

// requestEarlyClockIn asks to clock in more than thirty minutes before shift
// start. The first submission mails a one time passcode, the second carries
// it back and queues the request for an admin decision.
func (h AppServer) requestEarlyClockIn(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	return h.requestException(ctx, w, r, models.ApprovalTypeEarlyClockIn, session.PurposeEarlyClockIn)
}

// requestOvertime asks to clock out more than fifteen minutes after shift
// end. Same two phase passcode dance as requestEarlyClockIn.
func (h AppServer) requestOvertime(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	return h.requestException(ctx, w, r, models.ApprovalTypeOvertime, session.PurposeOvertime)
}

func (h AppServer) requestException(ctx context.Context, w http.ResponseWriter, r *http.Request, requestType string, purpose string) *AppError {
	beganAt := h.Tracker.BeginTime(performance.ExceptionCounter)
	defer h.Tracker.EndTime(performance.ExceptionCounter, beganAt, performance.SizeJob(1))

	caller, ok := CallerFromContext(ctx)
	if !ok {
		return NewAppError(500, errors.New("Could not get caller from context"), "Invalid caller.")
	}
	gem, _ := GEMFromContext(ctx)
	gem.Action = "create"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventCreate")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "CREATE")
	d := DAOFromContext(ctx)

	if !util.IsApplicationJSON(r.Header.Get("Content-Type")) {
		herr := NewAppError(400, nil, "Expected header Content-Type: application/json")
		h.publishError(gem, herr)
		return herr
	}
	var request protocol.ExceptionRequest
	if err := util.FullDecode(r.Body, &request); err != nil {
		herr := NewAppError(400, err, "Could not parse exception request")
		h.publishError(gem, herr)
		return herr
	}

	now := time.Now()
	requested := now
	if len(request.RequestedTime) > 0 {
		var err error
		requested, err = util.ShiftOnDate(request.RequestedTime, now)
		if err != nil {
			herr := NewAppError(400, err, "Requested time must be HH:MM")
			h.publishError(gem, herr)
			return herr
		}
	}

	employee, err := d.GetEmployeeByID(caller.ID)
	if err != nil {
		herr := NewAppError(500, err, "Error loading employee record")
		h.publishError(gem, herr)
		return herr
	}

	var minutes int
	switch requestType {
	case models.ApprovalTypeEarlyClockIn:
		shiftStart, err := util.ShiftOnDate(employee.ShiftStart, now)
		if err != nil {
			herr := NewAppError(500, err, "Malformed shift configuration")
			h.publishError(gem, herr)
			return herr
		}
		minutes = util.MinutesEarly(requested, shiftStart)
	case models.ApprovalTypeOvertime:
		shiftEnd, err := util.ShiftOnDate(employee.ShiftEnd, now)
		if err != nil {
			herr := NewAppError(500, err, "Malformed shift configuration")
			h.publishError(gem, herr)
			return herr
		}
		minutes = util.MinutesOvertime(requested, shiftEnd)
	}

	// First phase. No passcode presented yet, so mint one and mail it.
	if len(request.OTP) == 0 {
		code := session.GenerateCode()
		err := h.SessionStore.PutOTP(ctx, session.OTP{
			EmployeeID: caller.ID,
			Purpose:    purpose,
			Code:       code,
		})
		if err != nil {
			herr := NewAppError(500, err, "Error storing passcode")
			h.publishError(gem, herr)
			return herr
		}
		if err := h.Mailer.SendOTP(ctx, employee.Email.String, employee.Name, purpose, code); err != nil {
			herr := NewAppError(500, err, "Error sending passcode")
			h.publishError(gem, herr)
			return herr
		}
		h.recordSecurityEvent(ctx, "OTP_SENT", caller.EmployeeCode, models.LogStatusSuccess,
			map[string]interface{}{"purpose": purpose})
		jsonResponseWithCode(w, protocol.ExceptionResponse{
			OTPSent: true,
			Message: "A one time passcode has been sent to your email",
		}, 202)
		h.publishSuccess(gem, w)
		return nil
	}

	// Second phase. Redeem the passcode, then queue the request.
	if err := h.SessionStore.TakeOTP(ctx, caller.ID, purpose, request.OTP); err != nil {
		h.recordSecurityEvent(ctx, "OTP_REJECTED", caller.EmployeeCode, models.LogStatusFailure,
			map[string]interface{}{"purpose": purpose})
		herr := NewAppError(401, err, "Invalid or expired passcode")
		h.publishError(gem, herr)
		return herr
	}

	approval := models.ATApprovalRequest{
		RequestType:   requestType,
		EmployeeID:    caller.ID,
		RequestDate:   util.DateString(now),
		RequestedTime: models.ToNullTime(requested),
		Minutes:       minutes,
	}
	approval.CreatedBy = caller.EmployeeCode
	created, err := d.CreateApprovalRequest(&approval)
	if err != nil {
		if err == dao.ErrApprovalPending {
			herr := NewAppError(409, err, "A request of this type is already awaiting a decision for today")
			h.publishError(gem, herr)
			return herr
		}
		herr := NewAppError(500, err, "Error queueing exception request")
		h.publishError(gem, herr)
		return herr
	}

	if err := h.Alerter.PendingApproval(ctx, alert.ApprovalAlert{
		ApprovalID:    created.ID,
		EmployeeCode:  mapping.MaskEmployeeCode(caller.EmployeeCode),
		RequestType:   requestType,
		RequestedTime: util.TimeString(requested),
	}); err != nil {
		LoggerFromContext(ctx).Warn("approval alert publish fail", zap.Error(err))
	}

	gem.Payload.ObjectID = created.ID
	jsonResponseWithCode(w, protocol.ExceptionResponse{
		ApprovalID: created.ID,
		Status:     created.Status,
		Message:    "Your request has been queued for review",
	}, 201)
	h.publishSuccess(gem, w)
	return nil
}
