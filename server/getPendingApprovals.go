package server

import (
	"context"
	"net/http"

	"github.com/bbyours/attendance-server/mapping"
	"github.com/bbyours/attendance-server/performance"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/services/audit"
)

// getPendingApprovals lists exception requests awaiting a decision, oldest
// first so the queue drains in order. Employee codes arrive masked.
func (h AppServer) getPendingApprovals(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	beganAt := h.Tracker.BeginTime(performance.ApprovalCounter)
	defer h.Tracker.EndTime(performance.ApprovalCounter, beganAt, performance.SizeJob(1))

	gem, _ := GEMFromContext(ctx)
	gem.Action = "list"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventSearchQry")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "PARAMETER_SEARCH")
	gem.Payload.Audit = audit.WithQueryString(gem.Payload.Audit, r.URL.String())
	d := DAOFromContext(ctx)

	pagingRequest := protocol.NewPagingRequest(r)
	results, err := d.GetPendingApprovals(mapping.MapPagingRequestToDAOPagingRequest(pagingRequest))
	if err != nil {
		herr := NewAppError(500, err, "Error retrieving pending approvals")
		h.publishError(gem, herr)
		return herr
	}

	apiResponse := protocol.PendingApprovalResultset{
		Approvals: mapping.MapATApprovalRequestsToPendingApprovals(results.ApprovalRequests),
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
