package server

import (
	"context"
	"net/http"

	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/services/audit"
)

// home is a method handler on AppServer for displaying a response when the
// root URI is requested without an operation. In this context, a UI is
// provided listing and linking to some available operations. The page is
// public, so a caller may or may not be present.
func (h AppServer) home(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	gem, _ := GEMFromContext(ctx)
	gem.Action = "access"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventAccess")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "ACCESS")

	if h.TemplateCache == nil {
		herr := do404(ctx, w, r)
		h.publishError(gem, herr)
		return herr
	}
	tmpl := h.TemplateCache.Lookup("home.html")
	if tmpl == nil {
		herr := do404(ctx, w, r)
		h.publishError(gem, herr)
		return herr
	}

	// A session is optional here. An empty name renders the login form.
	caller, err := h.FetchCaller(ctx, r)
	if err != nil {
		caller = protocol.Caller{}
	}

	apiFuncs := []struct{ Name, RelativeLink, Description string }{
		{"Sign In", h.Conf.BasePath + "/api/login", "POST an employee code and password to begin a session."},
		{"Today", h.Conf.BasePath + "/api/attendance/today", "The attendance record for the current day."},
		{"Inventory", h.Conf.BasePath + "/api/inventory", "Products stocked for employee use."},
		{"Messages", h.Conf.BasePath + "/api/messages", "Messages delivered to the signed in employee."},
		{"Statistics", h.Conf.BasePath + "/stats", "Error counters and operation timings for this node."},
	}

	data := struct {
		RootURL      string
		EmployeeName string
		Role         string
		APIFunctions []struct{ Name, RelativeLink, Description string }
	}{
		RootURL:      h.Conf.BasePath,
		EmployeeName: caller.Name,
		Role:         caller.Role,
		APIFunctions: apiFuncs,
	}
	w.Header().Set("Content-Type", "text/html")
	if err := tmpl.Execute(w, data); err != nil {
		herr := NewAppError(500, err, err.Error())
		h.publishError(gem, herr)
		return herr
	}
	h.publishSuccess(gem, w)
	return nil
}
