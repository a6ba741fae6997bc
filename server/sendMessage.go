package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/performance"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/services/alert"
	"github.com/bbyours/attendance-server/services/audit"
	"github.com/bbyours/attendance-server/util"
)

// sendMessage delivers a message. Employee senders always reach the admin,
// whatever recipient the request names. Admin senders name one employee, or
// ALL EMPLOYEES to broadcast, in which case every active employee other than
// the sender receives their own copy.
func (h AppServer) sendMessage(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	beganAt := h.Tracker.BeginTime(performance.MessageCounter)
	defer h.Tracker.EndTime(performance.MessageCounter, beganAt, performance.SizeJob(1))

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
	var request protocol.SendMessageRequest
	if err := util.FullDecode(r.Body, &request); err != nil {
		herr := NewAppError(400, err, "Could not parse message")
		h.publishError(gem, herr)
		return herr
	}
	if len(strings.TrimSpace(request.Content)) == 0 {
		herr := NewAppError(400, errors.New("empty content"), "Message content is required")
		h.publishError(gem, herr)
		return herr
	}
	if !models.IsPermittedMessageType(caller.Role, request.MessageType) {
		permitted := strings.Join(models.PermittedMessageTypes(caller.Role), ", ")
		herr := NewAppError(400, fmt.Errorf("message type %s not permitted for role %s", request.MessageType, caller.Role),
			fmt.Sprintf("Message type must be one of %s", permitted))
		h.publishError(gem, herr)
		return herr
	}

	var recipientID string
	switch {
	case !caller.IsAdmin():
		// Employees have exactly one correspondent.
		admin, err := d.GetAdminEmployee()
		if err != nil {
			herr := NewAppError(500, err, "No admin account available to receive messages")
			h.publishError(gem, herr)
			return herr
		}
		recipientID = admin.ID
	case request.Recipient == models.BroadcastRecipient:
		recipientID = models.BroadcastRecipient
	default:
		if len(request.Recipient) == 0 {
			herr := NewAppError(400, errors.New("empty recipient"), "Recipient is required")
			h.publishError(gem, herr)
			return herr
		}
		employee, err := d.GetEmployeeByCode(request.Recipient)
		if err != nil {
			if err.Error() == sql.ErrNoRows.Error() {
				herr := NewAppError(404, err, "No such employee")
				h.publishError(gem, herr)
				return herr
			}
			herr := NewAppError(500, err, "Error looking up recipient")
			h.publishError(gem, herr)
			return herr
		}
		recipientID = employee.ID
	}

	message := models.ATMessage{
		SenderID:    caller.ID,
		RecipientID: recipientID,
		MessageType: request.MessageType,
		Content:     request.Content,
	}
	message.CreatedBy = caller.EmployeeCode
	created, err := d.CreateMessage(&message)
	if err != nil {
		herr := NewAppError(500, err, "Unable to deliver message")
		h.publishError(gem, herr)
		return herr
	}

	response := protocol.SendMessageResponse{Delivered: len(created)}
	if len(created) > 0 {
		response.MessageID = created[0].ID
		gem.Payload.ObjectID = created[0].ID
		gem.Payload.ChangeToken = created[0].ChangeToken
	}

	if request.MessageType == models.MessageTypeEmergency {
		if err := h.Alerter.Emergency(ctx, alert.EmergencyAlert{
			MessageID: response.MessageID,
			Sender:    caller.GetName(),
			Subject:   util.Abbreviate(request.Content, 80),
		}); err != nil {
			LoggerFromContext(ctx).Warn("emergency alert publish fail", zap.Error(err))
		}
	}

	jsonResponseWithCode(w, response, 201)
	h.publishSuccess(gem, w)
	return nil
}
