package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/bbyours/attendance-server/mapping"
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/services/audit"
	"github.com/bbyours/attendance-server/util"
)

// setEmployeePassword replaces the password on the named account. Passwords
// are exactly twelve characters and only the hash is stored.
func (h AppServer) setEmployeePassword(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return NewAppError(500, errors.New("Could not get caller from context"), "Invalid caller.")
	}
	gem, _ := GEMFromContext(ctx)
	gem.Action = "update"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventModify")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "MODIFY")

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

	if !util.IsApplicationJSON(r.Header.Get("Content-Type")) {
		herr := NewAppError(400, nil, "Expected header Content-Type: application/json")
		h.publishError(gem, herr)
		return herr
	}
	var request protocol.SetPasswordRequest
	if err := util.FullDecode(r.Body, &request); err != nil {
		herr := NewAppError(400, err, "Could not parse password request")
		h.publishError(gem, herr)
		return herr
	}
	if len(request.Password) != models.PasswordLength {
		herr := NewAppError(400, fmt.Errorf("password length %d", len(request.Password)),
			fmt.Sprintf("Password must be exactly %d characters", models.PasswordLength))
		h.publishError(gem, herr)
		return herr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		herr := NewAppError(500, err, "Error hashing password")
		h.publishError(gem, herr)
		return herr
	}
	d := DAOFromContext(ctx)
	if err := d.SetEmployeePassword(employee.ID, string(hash), caller.EmployeeCode); err != nil {
		herr := NewAppError(500, err, "Error storing password")
		h.publishError(gem, herr)
		return herr
	}

	h.recordSecurityEvent(ctx, "SET_PASSWORD", caller.EmployeeCode, models.LogStatusSuccess,
		map[string]interface{}{"target": mapping.MaskEmployeeCode(employee.EmployeeCode)})

	gem.Payload.ObjectID = employee.ID

	h.publishSuccess(gem, w)
	jsonResponse(w, struct {
		Message string `json:"message"`
	}{Message: "Password updated"})
	return nil
}
