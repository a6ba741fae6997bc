package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/bbyours/attendance-server/mapping"
	"github.com/bbyours/attendance-server/performance"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/services/audit"
)

// getMessages lists messages delivered to the caller, newest first, under
// the paging constraints in the querystring.
func (h AppServer) getMessages(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	beganAt := h.Tracker.BeginTime(performance.MessageCounter)
	defer h.Tracker.EndTime(performance.MessageCounter, beganAt, performance.SizeJob(1))

	caller, ok := CallerFromContext(ctx)
	if !ok {
		return NewAppError(500, errors.New("Could not get caller from context"), "Invalid caller.")
	}
	gem, _ := GEMFromContext(ctx)
	gem.Action = "list"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventSearchQry")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "PARAMETER_SEARCH")
	gem.Payload.Audit = audit.WithQueryString(gem.Payload.Audit, r.URL.String())
	d := DAOFromContext(ctx)

	pagingRequest := protocol.NewPagingRequest(r)
	results, err := d.GetMessagesForRecipient(caller.ID, mapping.MapPagingRequestToDAOPagingRequest(pagingRequest))
	if err != nil {
		herr := NewAppError(500, err, "Error retrieving messages")
		h.publishError(gem, herr)
		return herr
	}

	apiResponse := protocol.MessageResultset{
		Messages: mapping.MapATMessagesToMessages(results.Messages),
	}
	apiResponse.TotalRows = results.TotalRows
	apiResponse.PageCount = results.PageCount
	apiResponse.PageNumber = results.PageNumber
	apiResponse.PageSize = results.PageSize
	apiResponse.PageRows = results.PageRows

	h.publishSuccess(gem, w)
	jsonResponse(w, apiResponse)
	return nil
}
