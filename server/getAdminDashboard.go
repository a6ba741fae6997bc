package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/services/audit"
	"github.com/bbyours/attendance-server/util"
)

// getAdminDashboard summarizes the day for the admin landing page with a
// handful of count queries.
func (h AppServer) getAdminDashboard(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return NewAppError(500, errors.New("Could not get caller from context"), "Invalid caller.")
	}
	gem, _ := GEMFromContext(ctx)
	gem.Action = "access"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventAccess")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "ACCESS")
	d := DAOFromContext(ctx)

	totalEmployees, err := d.CountActiveEmployees()
	if err != nil {
		herr := NewAppError(500, err, "Error counting employees")
		h.publishError(gem, herr)
		return herr
	}
	clockedInToday, err := d.CountClockedInForDate(util.DateString(time.Now()))
	if err != nil {
		herr := NewAppError(500, err, "Error counting attendance")
		h.publishError(gem, herr)
		return herr
	}
	pendingApprovals, err := d.CountPendingApprovals()
	if err != nil {
		herr := NewAppError(500, err, "Error counting approvals")
		h.publishError(gem, herr)
		return herr
	}
	unreadMessages, err := d.CountUnreadForRecipient(caller.ID)
	if err != nil {
		herr := NewAppError(500, err, "Error counting messages")
		h.publishError(gem, herr)
		return herr
	}

	h.publishSuccess(gem, w)
	jsonResponse(w, protocol.AdminDashboard{
		TotalEmployees:   totalEmployees,
		ClockedInToday:   clockedInToday,
		PendingApprovals: pendingApprovals,
		UnreadMessages:   unreadMessages,
	})
	return nil
}
