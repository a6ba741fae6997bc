package server_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bbyours/attendance-server/dao"
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/protocol"
)

func TestGetPayslipForNamedPeriod(t *testing.T) {
	worker, _ := setupFakeEmployees()

	slip := models.ATPayslip{
		EmployeeID:   worker.ID,
		EmployeeName: worker.Name,
		Period:       "2026-07",
		BasicSalary:  52000,
		Allowances:   1500,
		GrossPay:     53500,
		Deductions:   8000,
		NetPay:       45500,
	}
	slip.ATID = models.NewATID()

	fake := dao.FakeDAO{Employee: worker, Payslip: slip}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("GET", mountPoint+"/api/payslip?period=2026-07", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("Expected OK, got %v", w.Code)
	}
	var resp protocol.Payslip
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Errorf("Could not decode payslip: %s", err)
	}
	if resp.Period != "2026-07" || resp.NetPay != 45500 || resp.Gross != 53500 {
		t.Errorf("Payslip does not match the record: %+v", resp)
	}
	if resp.Name != worker.Name {
		t.Errorf("Expected the employee's name on the payslip, got %q", resp.Name)
	}
}

// Without a period parameter the current month is assumed.
func TestGetPayslipDefaultsToCurrentMonth(t *testing.T) {
	worker, _ := setupFakeEmployees()

	slip := models.ATPayslip{
		EmployeeID: worker.ID,
		Period:     time.Now().Format("2006-01"),
		NetPay:     45500,
	}
	slip.ATID = models.NewATID()

	fake := dao.FakeDAO{Employee: worker, Payslip: slip}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("GET", mountPoint+"/api/payslip", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("Expected OK, got %v", w.Code)
	}
}

func TestGetPayslipUnknownPeriod(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{Employee: worker, Err: sql.ErrNoRows}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("GET", mountPoint+"/api/payslip?period=1999-01", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for a period with no payslip, got %v", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No payslip") {
		t.Errorf("Expected the miss to explain itself: %s", w.Body.String())
	}
}

func TestGetPayslipRejectsMalformedPeriod(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{Employee: worker}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	for _, period := range []string{"August", "2026-7", "202607"} {
		r, err := http.NewRequest("GET", mountPoint+"/api/payslip?period="+period, nil)
		if err != nil {
			t.Fatal(err)
		}
		r.Header.Set("X-Session-Token", token)
		w := httptest.NewRecorder()
		s.ServeHTTP(w, r)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for period %q, got %v", period, w.Code)
		}
	}
}
