package server

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/bbyours/attendance-server/mapping"
	"github.com/bbyours/attendance-server/performance"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/services/audit"
)

var periodFormat = regexp.MustCompile(`^\d{4}-\d{2}$`)

// getPayslip renders the caller's payslip for the month named in the period
// query parameter, defaulting to the current month. Pay data is sensitive,
// so the read itself is audited.
func (h AppServer) getPayslip(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	beganAt := h.Tracker.BeginTime(performance.PayslipCounter)
	defer h.Tracker.EndTime(performance.PayslipCounter, beganAt, performance.SizeJob(1))

	caller, ok := CallerFromContext(ctx)
	if !ok {
		return NewAppError(500, errors.New("Could not get caller from context"), "Invalid caller.")
	}
	gem, _ := GEMFromContext(ctx)
	gem.Action = "access"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventAccess")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "ACCESS")
	d := DAOFromContext(ctx)

	period := r.URL.Query().Get("period")
	if len(period) == 0 {
		period = time.Now().Format("2006-01")
	}
	if !periodFormat.MatchString(period) {
		herr := NewAppError(400, nil, "Period must be YYYY-MM")
		h.publishError(gem, herr)
		return herr
	}
	gem.Payload.Audit = audit.WithActionTarget(gem.Payload.Audit, "PAYSLIP_PERIOD", period)

	payslip, err := d.GetPayslip(caller.ID, period)
	if err != nil {
		if err.Error() == sql.ErrNoRows.Error() {
			herr := NewAppError(404, nil, "No payslip for that period")
			h.publishError(gem, herr)
			return herr
		}
		herr := NewAppError(500, err, "Error loading payslip")
		h.publishError(gem, herr)
		return herr
	}

	gem.Payload.ObjectID = payslip.ID
	h.publishSuccess(gem, w)
	jsonResponse(w, mapping.MapATPayslipToPayslip(&payslip))
	return nil
}

// getEmployeePayslip lists every payslip on file for the employee named in
// the URI, newest period first. Admin only, gated in ServeHTTP.
func (h AppServer) getEmployeePayslip(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	beganAt := h.Tracker.BeginTime(performance.PayslipCounter)
	defer h.Tracker.EndTime(performance.PayslipCounter, beganAt, performance.SizeJob(1))

	gem, _ := GEMFromContext(ctx)
	gem.Action = "access"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventAccess")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "ACCESS")
	d := DAOFromContext(ctx)

	captured, ok := CaptureGroupsFromContext(ctx)
	if !ok || captured["employeeCode"] == "" {
		herr := NewAppError(400, errors.New("Could not extract employeeCode from URI"), "URI did not name an employee")
		h.publishError(gem, herr)
		return herr
	}
	employee, herr := h.employeeByCode(ctx, captured["employeeCode"])
	if herr != nil {
		h.publishError(gem, herr)
		return herr
	}
	gem.Payload.Audit = audit.WithActionTarget(gem.Payload.Audit, "EMPLOYEE_CODE", employee.EmployeeCode)

	payslips, err := d.GetPayslipsForEmployee(employee.ID)
	if err != nil {
		herr := NewAppError(500, err, "Error loading payslips")
		h.publishError(gem, herr)
		return herr
	}

	apiPayslips := make([]protocol.Payslip, len(payslips))
	for i := range payslips {
		apiPayslips[i] = mapping.MapATPayslipToPayslip(&payslips[i])
	}
	h.publishSuccess(gem, w)
	jsonResponse(w, apiPayslips)
	return nil
}
