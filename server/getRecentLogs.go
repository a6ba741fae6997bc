package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bbyours/attendance-server/mapping"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/services/audit"
)

// getRecentLogs lists the newest security log entries for the admin audit
// view. The limit parameter is clamped to keep the response bounded.
func (h AppServer) getRecentLogs(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	gem, _ := GEMFromContext(ctx)
	gem.Action = "list"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventSearchQry")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "PARAMETER_SEARCH")
	gem.Payload.Audit = audit.WithQueryString(gem.Payload.Audit, r.URL.String())
	d := DAOFromContext(ctx)

	limit := 50
	if sLimit := r.URL.Query().Get("limit"); len(sLimit) > 0 {
		if parsed, err := strconv.Atoi(sLimit); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > 500 {
		limit = 500
	}

	logs, err := d.GetRecentSecurityLogs(limit)
	if err != nil {
		herr := NewAppError(500, err, "Error retrieving security logs")
		h.publishError(gem, herr)
		return herr
	}

	apiResponse := protocol.SecurityLogResultset{
		Logs: mapping.MapATSecurityLogsToSecurityLogs(logs),
	}
	apiResponse.TotalRows = len(logs)
	apiResponse.PageCount = 1
	apiResponse.PageNumber = 1
	apiResponse.PageSize = limit
	apiResponse.PageRows = len(logs)

	h.publishSuccess(gem, w)
	jsonResponse(w, apiResponse)
	return nil
}
