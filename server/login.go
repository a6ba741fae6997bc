package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bbyours/attendance-server/events"
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/performance"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/services/audit"
	"github.com/bbyours/attendance-server/services/session"
	"github.com/bbyours/attendance-server/util"
)

// errCredentials is the single message returned for every failed login so
// responses do not reveal which accounts exist.
var errCredentials = "Invalid employee ID or password"

// decoyHash is compared against when the account does not exist, so unknown
// accounts cost the same as wrong passwords.
const decoyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// login verifies the presented credentials and opens a session. Every
// attempt, pass or fail, lands in the security log and on the event queue.
func (h AppServer) login(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	beganAt := h.Tracker.BeginTime(performance.LoginCounter)
	defer h.Tracker.EndTime(performance.LoginCounter, beganAt, performance.SizeJob(1))

	gem, _ := GEMFromContext(ctx)
	gem.Action = "authenticate"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventAuthenticate")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "AUTHENTICATE")

	// The API posts JSON; the sign in form on the home page posts form
	// encoded fields.
	var request protocol.LoginRequest
	if util.IsApplicationJSON(r.Header.Get("Content-Type")) {
		if err := util.FullDecode(r.Body, &request); err != nil {
			herr := NewAppError(400, err, "Could not parse login request")
			h.publishError(gem, herr)
			return herr
		}
	} else {
		if err := r.ParseForm(); err != nil {
			herr := NewAppError(400, err, "Could not parse login request")
			h.publishError(gem, herr)
			return herr
		}
		request.EmployeeID = r.PostFormValue("employeeId")
		request.Password = r.PostFormValue("password")
	}
	if len(request.EmployeeID) == 0 || len(request.Password) == 0 {
		herr := NewAppError(400, nil, "Employee ID and password are required")
		h.publishError(gem, herr)
		return herr
	}
	gem.Payload.UserID = request.EmployeeID
	gem.Payload.Audit = audit.WithActionInitiator(gem.Payload.Audit, "EMPLOYEE_CODE", request.EmployeeID)

	dao := DAOFromContext(ctx)
	employee, err := dao.GetEmployeeByCode(request.EmployeeID)
	if err != nil {
		if err.Error() != sql.ErrNoRows.Error() {
			herr := NewAppError(500, err, "Error checking credentials")
			h.publishError(gem, herr)
			return herr
		}
		// Unknown account. Burn a hash compare anyway so the timing looks
		// the same as a wrong password.
		bcrypt.CompareHashAndPassword([]byte(decoyHash), []byte(request.Password))
		return h.failLogin(ctx, gem, request.EmployeeID, "unknown account")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(request.Password)); err != nil {
		return h.failLogin(ctx, gem, request.EmployeeID, "password mismatch")
	}
	if !employee.IsActive {
		return h.failLogin(ctx, gem, request.EmployeeID, "account inactive")
	}

	token := newGUID()
	now := time.Now()
	err = h.SessionStore.Put(ctx, session.Session{
		Token:        token,
		EmployeeID:   employee.ID,
		EmployeeCode: employee.EmployeeCode,
		Name:         employee.Name,
		Role:         employee.Role,
		LoginTime:    now,
		LastActive:   now,
	})
	if err != nil {
		herr := NewAppError(500, err, "Error creating session")
		h.publishError(gem, herr)
		return herr
	}

	h.recordSecurityEvent(ctx, "LOGIN", employee.EmployeeCode, models.LogStatusSuccess, nil)
	h.publishSuccess(gem, w)

	// The form UI rides on the cookie, API clients on the header.
	http.SetCookie(w, &http.Cookie{Name: "token", Value: token, Path: "/", HttpOnly: true})
	jsonResponse(w, protocol.LoginResponse{
		SessionToken: token,
		EmployeeID:   employee.EmployeeCode,
		EmployeeName: employee.Name,
		Role:         employee.Role,
	})
	return nil
}

// failLogin records the rejected attempt and yields the uniform 401.
func (h AppServer) failLogin(ctx context.Context, gem events.GEM, employeeCode string, reason string) *AppError {
	h.recordSecurityEvent(ctx, "LOGIN", employeeCode, models.LogStatusFailure,
		map[string]interface{}{"reason": reason})
	herr := NewAppError(401, fmt.Errorf("login rejected: %s", reason), errCredentials)
	h.publishError(gem, herr)
	return herr
}

// logout discards the caller's session. Always succeeds, a token that
// already idled out has nothing left to discard.
func (h AppServer) logout(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return NewAppError(500, errors.New("Could not get caller from context"), "Invalid caller.")
	}
	gem, _ := GEMFromContext(ctx)
	gem.Action = "logout"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventAuthenticate")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "LOGOUT")

	if err := h.SessionStore.Delete(ctx, caller.SessionToken); err != nil {
		herr := NewAppError(500, err, "Error ending session")
		h.publishError(gem, herr)
		return herr
	}
	h.recordSecurityEvent(ctx, "LOGOUT", caller.EmployeeCode, models.LogStatusSuccess, nil)
	h.publishSuccess(gem, w)
	jsonResponse(w, struct {
		Message string `json:"message"`
	}{Message: "Logged out"})
	return nil
}

// checkSession reports whether the presented token still maps to a live
// session. Reaching this handler at all means it does.
func (h AppServer) checkSession(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return NewAppError(500, errors.New("Could not get caller from context"), "Invalid caller.")
	}
	gem, _ := GEMFromContext(ctx)
	gem.Action = "access"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventAccess")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "ACCESS")

	h.publishSuccess(gem, w)
	jsonResponse(w, protocol.SessionResponse{
		Valid:        true,
		EmployeeID:   caller.EmployeeCode,
		EmployeeName: caller.Name,
		Role:         caller.Role,
	})
	return nil
}
