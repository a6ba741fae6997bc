package server_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/bbyours/attendance-server/dao"
	"github.com/bbyours/attendance-server/protocol"
)

func TestLoginIssuesSession(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{Employee: worker}
	s := NewFakeServerWithDAOEmployees(&fake)

	body := fmt.Sprintf(`{"employeeId": %q, "password": %q}`, worker.EmployeeCode, testPassword)
	r, err := http.NewRequest("POST", mountPoint+"/api/login", bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("Expected OK, got %v", w.Code)
	}
	var resp protocol.LoginResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Errorf("Could not decode login response: %s", err)
	}
	if len(resp.SessionToken) == 0 {
		t.Errorf("Expected a session token in the response")
	}
	if resp.EmployeeID != worker.EmployeeCode || resp.Role != worker.Role {
		t.Errorf("Response does not describe the signed in employee: %+v", resp)
	}
	var gotCookie bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" && c.Value == resp.SessionToken {
			gotCookie = true
		}
	}
	if !gotCookie {
		t.Errorf("Expected the session token to also be set as a cookie")
	}

	// The issued token must authenticate a followup request.
	r2, err := http.NewRequest("GET", mountPoint+"/api/session", nil)
	if err != nil {
		t.Fatal(err)
	}
	r2.Header.Set("X-Session-Token", resp.SessionToken)
	w2 := httptest.NewRecorder()
	s.ServeHTTP(w2, r2)
	if w2.Code != http.StatusOK {
		t.Errorf("Expected the issued token to authenticate, got %v", w2.Code)
	}
	var sess protocol.SessionResponse
	if err := json.NewDecoder(w2.Body).Decode(&sess); err != nil {
		t.Errorf("Could not decode session response: %s", err)
	}
	if !sess.Valid || sess.EmployeeID != worker.EmployeeCode {
		t.Errorf("Session check does not match the login: %+v", sess)
	}
}

// Rejected logins must not reveal whether the account exists, so a wrong
// password and an unknown account yield byte identical responses.
func TestLoginRejectionsAreUniform(t *testing.T) {
	worker, _ := setupFakeEmployees()

	fake := dao.FakeDAO{Employee: worker}
	s := NewFakeServerWithDAOEmployees(&fake)
	r, err := http.NewRequest("POST", mountPoint+"/api/login",
		bytes.NewBufferString(`{"employeeId": "EMP1001", "password": "tooShort1234-wrong"}`))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	wrongPassword := httptest.NewRecorder()
	s.ServeHTTP(wrongPassword, r)
	if wrongPassword.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for a wrong password, got %v", wrongPassword.Code)
	}

	fakeUnknown := dao.FakeDAO{Err: sql.ErrNoRows}
	s2 := NewFakeServerWithDAOEmployees(&fakeUnknown)
	r2, err := http.NewRequest("POST", mountPoint+"/api/login",
		bytes.NewBufferString(`{"employeeId": "NOBODY99", "password": "whatever12345"}`))
	if err != nil {
		t.Fatal(err)
	}
	r2.Header.Set("Content-Type", "application/json")
	unknownAccount := httptest.NewRecorder()
	s2.ServeHTTP(unknownAccount, r2)
	if unknownAccount.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for an unknown account, got %v", unknownAccount.Code)
	}

	if wrongPassword.Body.String() != unknownAccount.Body.String() {
		t.Errorf("Rejected logins must be indistinguishable: %q vs %q",
			wrongPassword.Body.String(), unknownAccount.Body.String())
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	worker, _ := setupFakeEmployees()
	worker.IsActive = false
	fake := dao.FakeDAO{Employee: worker}
	s := NewFakeServerWithDAOEmployees(&fake)

	body := fmt.Sprintf(`{"employeeId": %q, "password": %q}`, worker.EmployeeCode, testPassword)
	r, err := http.NewRequest("POST", mountPoint+"/api/login", bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for an inactive account, got %v", w.Code)
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{Employee: worker}
	s := NewFakeServerWithDAOEmployees(&fake)

	r, err := http.NewRequest("POST", mountPoint+"/api/login",
		bytes.NewBufferString(`{"employeeId": "EMP1001"}`))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 when the password is missing, got %v", w.Code)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{Employee: worker}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("POST", mountPoint+"/api/logout", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("Expected OK for logout, got %v", w.Code)
	}

	// The discarded token must no longer authenticate.
	r2, err := http.NewRequest("GET", mountPoint+"/api/session", nil)
	if err != nil {
		t.Fatal(err)
	}
	r2.Header.Set("X-Session-Token", token)
	w2 := httptest.NewRecorder()
	s.ServeHTTP(w2, r2)
	if w2.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 after logout, got %v", w2.Code)
	}
}

func TestMissingSessionRejected(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{Employee: worker}
	s := NewFakeServerWithDAOEmployees(&fake)

	r, err := http.NewRequest("GET", mountPoint+"/api/attendance/today", nil)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without a session token, got %v", w.Code)
	}
}

// The sign in form on the home page posts url encoded fields rather than
// JSON, and both encodings must open a session.
func TestLoginAcceptsFormEncoding(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{Employee: worker}
	s := NewFakeServerWithDAOEmployees(&fake)

	form := url.Values{}
	form.Set("employeeId", worker.EmployeeCode)
	form.Set("password", testPassword)
	r, err := http.NewRequest("POST", mountPoint+"/api/login",
		bytes.NewBufferString(form.Encode()))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("Expected OK for a form encoded login, got %v", w.Code)
	}
	var resp protocol.LoginResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Errorf("Could not decode login response: %s", err)
	}
	if len(resp.SessionToken) == 0 {
		t.Errorf("Expected a session token in the response")
	}
}
