package dao_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/bbyours/attendance-server/dao"
	"github.com/bbyours/attendance-server/metadata/models"
)

func freshEmployeeCode() string {
	return fmt.Sprintf("98%08d", rand.Intn(100000000))
}

func TestDAOCreateEmployee(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	if d == nil {
		t.Skip("database not available")
	}
	var employee models.ATEmployee
	employee.CreatedBy = "dao_test"
	employee.EmployeeCode = freshEmployeeCode()
	employee.Name = "Created Employee"
	employee.Email = models.ToNullString("created@example.com")
	employee.PasswordHash = testPasswordHash
	employee.ShiftStart = "08:00"
	employee.ShiftEnd = "16:00"
	employee.BasicSalary = 2800
	employee.IsActive = true

	dbEmployee, err := d.CreateEmployee(&employee)
	if err != nil {
		t.Fatal(err)
	}
	if len(dbEmployee.ID) == 0 {
		t.Error("expected ID to be set")
	}
	if dbEmployee.ModifiedBy != dbEmployee.CreatedBy {
		t.Error("expected ModifiedBy to match CreatedBy")
	}
	if dbEmployee.Role != models.RoleEmployee {
		t.Errorf("expected default role %s, got %s", models.RoleEmployee, dbEmployee.Role)
	}
	if dbEmployee.ChangeCount != 0 {
		t.Errorf("expected ChangeCount 0 on new record, got %d", dbEmployee.ChangeCount)
	}
	if len(dbEmployee.ChangeToken) == 0 {
		t.Error("expected ChangeToken to be assigned")
	}

	// The same code a second time must be refused
	var duplicate models.ATEmployee
	duplicate.CreatedBy = "dao_test"
	duplicate.EmployeeCode = employee.EmployeeCode
	duplicate.Name = "Duplicate Employee"
	duplicate.PasswordHash = testPasswordHash
	duplicate.ShiftStart = "08:00"
	duplicate.ShiftEnd = "16:00"
	if _, err := d.CreateEmployee(&duplicate); err != dao.ErrEmployeeCodeTaken {
		t.Errorf("expected ErrEmployeeCodeTaken, got %v", err)
	}
}

func TestDAOUpdateEmployee(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	if d == nil {
		t.Skip("database not available")
	}
	var employee models.ATEmployee
	employee.CreatedBy = "dao_test"
	employee.EmployeeCode = freshEmployeeCode()
	employee.Name = "Before Update"
	employee.PasswordHash = testPasswordHash
	employee.ShiftStart = "08:00"
	employee.ShiftEnd = "16:00"
	employee.IsActive = true
	dbEmployee, err := d.CreateEmployee(&employee)
	if err != nil {
		t.Fatal(err)
	}

	// A stale token must not overwrite
	stale := dbEmployee
	stale.Name = "Stale Update"
	stale.ModifiedBy = "dao_test"
	stale.ChangeToken = "0123456789abcdef0123456789abcdef"
	if err := d.UpdateEmployee(&stale); err != dao.ErrChangeTokenMismatch {
		t.Errorf("expected ErrChangeTokenMismatch, got %v", err)
	}

	// The current token must be accepted
	current := dbEmployee
	current.Name = "After Update"
	current.ModifiedBy = "dao_test"
	if err := d.UpdateEmployee(&current); err != nil {
		t.Fatal(err)
	}
	if current.Name != "After Update" {
		t.Errorf("expected updated name, got %s", current.Name)
	}
	if current.ChangeCount != dbEmployee.ChangeCount+1 {
		t.Errorf("expected ChangeCount %d, got %d", dbEmployee.ChangeCount+1, current.ChangeCount)
	}
	if current.ChangeToken == dbEmployee.ChangeToken {
		t.Error("expected ChangeToken to rotate on update")
	}
}

func TestDAOSetEmployeePassword(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	if d == nil {
		t.Skip("database not available")
	}
	var employee models.ATEmployee
	employee.CreatedBy = "dao_test"
	employee.EmployeeCode = freshEmployeeCode()
	employee.Name = "Password Holder"
	employee.PasswordHash = testPasswordHash
	employee.ShiftStart = "08:00"
	employee.ShiftEnd = "16:00"
	employee.IsActive = true
	dbEmployee, err := d.CreateEmployee(&employee)
	if err != nil {
		t.Fatal(err)
	}

	newHash := "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefakef"
	if err := d.SetEmployeePassword(dbEmployee.ID, newHash, "dao_test"); err != nil {
		t.Fatal(err)
	}
	updated, err := d.GetEmployeeByID(dbEmployee.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.PasswordHash != newHash {
		t.Error("expected stored password hash to change")
	}

	if err := d.SetEmployeePassword("no-such-id", newHash, "dao_test"); err != dao.ErrNoRows {
		t.Errorf("expected ErrNoRows for unknown employee, got %v", err)
	}
}
