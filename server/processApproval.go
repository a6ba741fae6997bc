package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/bbyours/attendance-server/dao"
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/performance"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/services/audit"
	"github.com/bbyours/attendance-server/util"
)

// processApproval records the admin decision on a pending exception
// request. Approval writes the requested time through to the attendance
// record for the day. Either way the employee is told by message.
func (h AppServer) processApproval(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	beganAt := h.Tracker.BeginTime(performance.ApprovalCounter)
	defer h.Tracker.EndTime(performance.ApprovalCounter, beganAt, performance.SizeJob(1))

	caller, ok := CallerFromContext(ctx)
	if !ok {
		return NewAppError(500, errors.New("Could not get caller from context"), "Invalid caller.")
	}
	gem, _ := GEMFromContext(ctx)
	gem.Action = "update"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventModify")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "MODIFY")
	d := DAOFromContext(ctx)

	captured, ok := CaptureGroupsFromContext(ctx)
	if !ok || captured["approvalId"] == "" {
		herr := NewAppError(400, errors.New("Could not extract approvalId from URI"), "URI did not name an approval request")
		h.publishError(gem, herr)
		return herr
	}

	if !util.IsApplicationJSON(r.Header.Get("Content-Type")) {
		herr := NewAppError(400, nil, "Expected header Content-Type: application/json")
		h.publishError(gem, herr)
		return herr
	}
	var request protocol.ProcessApprovalRequest
	if err := util.FullDecode(r.Body, &request); err != nil {
		herr := NewAppError(400, err, "Could not parse decision")
		h.publishError(gem, herr)
		return herr
	}

	approval := models.ATApprovalRequest{}
	approval.ID = captured["approvalId"]
	decided, err := d.ProcessApproval(&approval, request.Approve, caller.EmployeeCode)
	if err != nil {
		if err == dao.ErrApprovalProcessed {
			herr := NewAppError(409, err, "That request has already been decided")
			h.publishError(gem, herr)
			return herr
		}
		if err.Error() == sql.ErrNoRows.Error() {
			herr := NewAppError(404, err, "No such approval request")
			h.publishError(gem, herr)
			return herr
		}
		herr := NewAppError(500, err, "Error recording decision")
		h.publishError(gem, herr)
		return herr
	}

	h.recordSecurityEvent(ctx, "PROCESS_APPROVAL", caller.EmployeeCode, models.LogStatusSuccess,
		map[string]interface{}{"approvalId": decided.ID, "status": decided.Status})

	// The employee learns the outcome by message, not by polling
	notice := models.ATMessage{
		SenderID:    caller.ID,
		RecipientID: decided.EmployeeID,
		MessageType: "GENERAL",
		Content: fmt.Sprintf("Your %s request for %s has been %s",
			requestTypeLabel(decided.RequestType), decided.RequestDate, decided.Status),
	}
	notice.CreatedBy = caller.EmployeeCode
	if _, err := d.CreateMessage(&notice); err != nil {
		LoggerFromContext(ctx).Warn("decision notice delivery fail", zap.Error(err))
	}

	gem.Payload.ObjectID = decided.ID
	gem.Payload.ChangeToken = decided.ChangeToken

	h.publishSuccess(gem, w)
	jsonResponse(w, protocol.ProcessApprovalResponse{
		ApprovalID:  decided.ID,
		Status:      decided.Status,
		ProcessedBy: caller.GetName(),
	})
	return nil
}

func requestTypeLabel(requestType string) string {
	switch requestType {
	case models.ApprovalTypeEarlyClockIn:
		return "early clock in"
	case models.ApprovalTypeOvertime:
		return "overtime"
	}
	return requestType
}
