package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bbyours/attendance-server/dao"
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/services/session"
)

func TestEarlyClockInRequestSendsPasscode(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{Employee: worker}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("POST", mountPoint+"/api/attendance/early-clockin",
		bytes.NewBufferString(`{"requestedTime": "07:15"}`))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusAccepted {
		t.Errorf("Expected 202 for the first submission, got %v", w.Code)
	}
	var resp protocol.ExceptionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Errorf("Could not decode exception response: %s", err)
	}
	if !resp.OTPSent {
		t.Errorf("Expected otpSent on the first submission: %+v", resp)
	}
	if len(resp.ApprovalID) != 0 {
		t.Errorf("No request may be queued before the passcode round trip: %+v", resp)
	}
}

func TestEarlyClockInRequestRedeemsPasscode(t *testing.T) {
	worker, _ := setupFakeEmployees()

	queued := models.ATApprovalRequest{
		RequestType: models.ApprovalTypeEarlyClockIn,
		EmployeeID:  worker.ID,
		Status:      models.ApprovalStatusPending,
	}
	queued.ATID = models.NewATID()

	fake := dao.FakeDAO{Employee: worker, ApprovalRequest: queued}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	// Plant a known passcode, as if the mailed one had been read.
	s.SessionStore.PutOTP(context.Background(), session.OTP{
		EmployeeID: worker.ID,
		Purpose:    session.PurposeEarlyClockIn,
		Code:       "123456",
	})

	r, err := http.NewRequest("POST", mountPoint+"/api/attendance/early-clockin",
		bytes.NewBufferString(`{"requestedTime": "07:15", "otp": "123456"}`))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected 201 when the passcode matches, got %v", w.Code)
	}
	var resp protocol.ExceptionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Errorf("Could not decode exception response: %s", err)
	}
	if resp.ApprovalID != queued.ID {
		t.Errorf("Expected the queued request id, got %q", resp.ApprovalID)
	}
	if resp.Status != models.ApprovalStatusPending {
		t.Errorf("Expected status %s, got %s", models.ApprovalStatusPending, resp.Status)
	}

	// A passcode is single use. Replaying it must fail.
	r2, err := http.NewRequest("POST", mountPoint+"/api/attendance/early-clockin",
		bytes.NewBufferString(`{"requestedTime": "07:15", "otp": "123456"}`))
	if err != nil {
		t.Fatal(err)
	}
	r2.Header.Set("Content-Type", "application/json")
	r2.Header.Set("X-Session-Token", token)
	w2 := httptest.NewRecorder()
	s.ServeHTTP(w2, r2)
	if w2.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for a replayed passcode, got %v", w2.Code)
	}
}

func TestExceptionRequestRejectsWrongPasscode(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{Employee: worker}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	s.SessionStore.PutOTP(context.Background(), session.OTP{
		EmployeeID: worker.ID,
		Purpose:    session.PurposeOvertime,
		Code:       "123456",
	})

	r, err := http.NewRequest("POST", mountPoint+"/api/attendance/overtime",
		bytes.NewBufferString(`{"otp": "654321"}`))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for a wrong passcode, got %v", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid or expired passcode") {
		t.Errorf("Expected the rejection to explain itself: %s", w.Body.String())
	}
}

// A passcode minted for one purpose must not redeem a request of the other
// type.
func TestExceptionPasscodeIsPurposeBound(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{Employee: worker}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	s.SessionStore.PutOTP(context.Background(), session.OTP{
		EmployeeID: worker.ID,
		Purpose:    session.PurposeEarlyClockIn,
		Code:       "123456",
	})

	r, err := http.NewRequest("POST", mountPoint+"/api/attendance/overtime",
		bytes.NewBufferString(`{"otp": "123456"}`))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 across purposes, got %v", w.Code)
	}
}

func TestOvertimeRequestAlreadyPendingConflicts(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{
		Employee:    worker,
		ApprovalErr: dao.ErrApprovalPending,
	}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	s.SessionStore.PutOTP(context.Background(), session.OTP{
		EmployeeID: worker.ID,
		Purpose:    session.PurposeOvertime,
		Code:       "123456",
	})

	r, err := http.NewRequest("POST", mountPoint+"/api/attendance/overtime",
		bytes.NewBufferString(`{"otp": "123456"}`))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for a duplicate request, got %v", w.Code)
	}
}

func TestExceptionRequestRejectsMalformedTime(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{Employee: worker}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("POST", mountPoint+"/api/attendance/early-clockin",
		bytes.NewBufferString(`{"requestedTime": "quarter past seven"}`))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a malformed time, got %v", w.Code)
	}
}
