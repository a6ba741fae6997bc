package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bbyours/attendance-server/config"
	"github.com/bbyours/attendance-server/events"
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/services/audit"
	"github.com/bbyours/attendance-server/util"
)

// globalEventFromRequest extracts data from the request and sets up a
// standard set of fields on the global event model.
func globalEventFromRequest(r *http.Request) events.GEM {
	e := events.GEM{
		ID:              newGUID(),
		SchemaVersion:   "1.0",
		EventType:       "attendance-event",
		SystemIP:        util.GetIP(config.RootLogger),
		XForwardedForIP: r.Header.Get("X-Forwarded-For"),
		Timestamp:       time.Now().Unix(),
		Action:          "unknown",
	}
	return e
}

func defaultAudit(r *http.Request) audit.Event {

	var e audit.Event
	fqdn := r.URL.Host
	if len(fqdn) == 0 {
		fqdn = r.Host
	}
	e = audit.WithActionTarget(e, "FULLY_QUALIFIED_DOMAIN_NAME", fqdn)
	if len(r.URL.String()) > 0 {
		e = audit.WithAdditionalInfo(e, "URL", r.URL.String())
	}
	e = audit.WithActionTargetVersions(e, "1.0")
	query := r.URL.RawQuery
	if len(query) > 0 {
		e = audit.WithQueryString(e, r.URL.RawQuery)
	}
	e = audit.WithType(e, "EventUnknown")
	e = audit.WithAction(e, "ACCESS")
	e = audit.WithActionMode(e, "USER_INITIATED")
	e = audit.WithActionResult(e, "FAILURE")
	e = audit.WithCreator(e, "APPLICATION", "Attendance Server")
	e = audit.WithCreatedOn(e, time.Now().UTC().Format("2006-01-02T15:04:05.000Z"))

	return e
}

// recordSecurityEvent appends a row to the security log table. The log is a
// best effort record, a failed write must never fail the request it annotates.
func (h AppServer) recordSecurityEvent(ctx context.Context, action, userCode, status string, details map[string]interface{}) {
	entry := models.ATSecurityLog{
		Action: action,
		UserID: models.ToNullString(userCode),
		Status: status,
	}
	if len(details) > 0 {
		if b, err := json.Marshal(details); err == nil {
			entry.Details = models.ToNullString(string(b))
		}
	}
	if err := h.RootDAO.CreateSecurityLog(&entry); err != nil {
		LoggerFromContext(ctx).Error("security log write fail",
			zap.String("action", action), zap.Error(err))
	}
}

// recordDenied notes a role gate rejection in the security log.
func (h AppServer) recordDenied(ctx context.Context, r *http.Request) {
	caller, _ := CallerFromContext(ctx)
	h.recordSecurityEvent(ctx, "ADMIN_ACCESS", caller.EmployeeCode, models.LogStatusDenied,
		map[string]interface{}{"uri": r.URL.Path})
}
