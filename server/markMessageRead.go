package server

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/bbyours/attendance-server/mapping"
	"github.com/bbyours/attendance-server/performance"
	"github.com/bbyours/attendance-server/services/audit"
)

// markMessageRead stamps the caller's copy of a message as read. Calling it
// again on a message already read simply returns the message. Marking mail
// addressed to somebody else is forbidden.
func (h AppServer) markMessageRead(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	beganAt := h.Tracker.BeginTime(performance.MessageCounter)
	defer h.Tracker.EndTime(performance.MessageCounter, beganAt, performance.SizeJob(1))

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
	if !ok || captured["messageId"] == "" {
		herr := NewAppError(400, errors.New("Could not extract messageId from URI"), "URI did not name a message")
		h.publishError(gem, herr)
		return herr
	}

	message, err := d.MarkMessageRead(captured["messageId"], caller.ID)
	if err != nil {
		if err.Error() == sql.ErrNoRows.Error() {
			herr := NewAppError(403, err, "Only the recipient may mark a message read")
			h.publishError(gem, herr)
			return herr
		}
		herr := NewAppError(500, err, "Error updating message")
		h.publishError(gem, herr)
		return herr
	}

	gem.Payload.ObjectID = message.ID
	gem.Payload.ChangeToken = message.ChangeToken

	h.publishSuccess(gem, w)
	jsonResponse(w, mapping.MapATMessageToMessage(&message))
	return nil
}
