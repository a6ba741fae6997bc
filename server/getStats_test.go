package server_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bbyours/attendance-server/dao"
)

// The stats page is a plain text dump and needs no session, so a load
// balancer health check or a curl can always reach it.
func TestStatsPageRenders(t *testing.T) {
	fake := dao.FakeDAO{}
	s := NewFakeServerWithDAOEmployees(&fake)

	r, err := http.NewRequest("GET", mountPoint+"/stats", nil)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("Expected OK, got %v", w.Code)
	}
	body := w.Body.String()
	for _, section := range []string{"Logins:", "Clock Ins:", "Clock Outs:", "Inventory Draws:", "Database timers"} {
		if !strings.Contains(body, section) {
			t.Errorf("Stats page missing the %q section", section)
		}
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{Employee: worker}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("GET", mountPoint+"/api/timesheets", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %v", w.Code)
	}
}
