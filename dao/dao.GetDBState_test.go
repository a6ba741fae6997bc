package dao_test

import (
	"database/sql"
	"testing"
)

func TestDAOGetDBState(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	if d == nil {
		t.Skip("database not available")
	}
	state, err := d.GetDBState()
	if err != nil {
		t.Fatal(err)
	}
	if len(state.SchemaVersion) == 0 {
		t.Error("expected a schema version")
	}
	if len(state.Identifier) == 0 {
		t.Error("expected a database identifier")
	}
}

func TestDAOGetPayslipUnknownPeriod(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	if d == nil {
		t.Skip("database not available")
	}
	if _, err := d.GetPayslip(testEmployees[0].ID, "1900-01"); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows for an unprepared period, got %v", err)
	}

	// The listing never errors on an empty history
	if _, err := d.GetPayslipsForEmployee(testEmployees[0].ID); err != nil {
		t.Error(err)
	}
}
