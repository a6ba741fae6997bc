package server_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bbyours/attendance-server/dao"
)

func TestCorsPreflightReflects(t *testing.T) {
	fake := dao.FakeDAO{}
	s := NewFakeServerWithDAOEmployees(&fake)

	origin := "https://attendance-ui.example.com"
	headers := "content-type, x-session-token"
	r, err := http.NewRequest("OPTIONS", mountPoint+"/api/attendance/clockin", nil)
	if err != nil {
		t.Fatal(err)
	}
	//The whole point is to reflect back these headers:
	r.Header.Set("Origin", origin)
	r.Header.Set("Access-Control-Request-Method", "POST")
	r.Header.Set("Access-Control-Request-Headers", headers)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %v", w.Code)
	}
	// We are expecting simple reflection right now:
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != origin {
		t.Errorf("Origin mismatch: %s vs %s", origin, got)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "POST") {
		t.Errorf("POST missing from allowed methods: %s", w.Header().Get("Access-Control-Allow-Methods"))
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), headers) {
		t.Errorf("Headers not reflected: %s", w.Header().Get("Access-Control-Allow-Headers"))
	}
	if w.Body.Len() != 0 {
		t.Errorf("Preflight must not carry a body, got %q", w.Body.String())
	}
}

func TestCorsPreflightRequiresOrigin(t *testing.T) {
	fake := dao.FakeDAO{}
	s := NewFakeServerWithDAOEmployees(&fake)

	r, err := http.NewRequest("OPTIONS", mountPoint+"/api/attendance/clockin", nil)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without an Origin, got %v", w.Code)
	}
}

// Also check that normal methods get origin checks.
func TestCorsOriginReflectedOnPlainRequests(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{Employee: worker}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	origin := "https://attendance-ui.example.com"
	r, err := http.NewRequest("GET", mountPoint+"/api/session", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Origin", origin)
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("Expected OK, got %v", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != origin {
		t.Errorf("Origin mismatch: %s vs %s", origin, got)
	}
}
