package dao_test

import (
	"flag"
	"fmt"
	"os"
	"testing"

	"github.com/bbyours/attendance-server/config"
	"github.com/bbyours/attendance-server/dao"
	"github.com/bbyours/attendance-server/metadata/models"
)

// Password hash stored on accounts created by these tests. The clear value
// does not matter since DAO tests never attempt a sign in with it.
const testPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

var d *dao.DataAccessLayer
var testEmployees = make([]models.ATEmployee, 3)

// TestMain connects to a locally running database populated with the schema.
// When run with -short, or when no database is reachable, the integration
// tests in this package skip themselves.
func TestMain(m *testing.M) {
	flag.Parse()
	if !testing.Short() {
		setup()
	}
	os.Exit(m.Run())
}

func setup() {
	appConfiguration := config.NewAppConfiguration(config.CommandLineOpts{})
	dbConfig := appConfiguration.DatabaseConnection

	db, err := dbConfig.GetDatabaseHandle()
	if err != nil {
		fmt.Printf("dao tests will skip, could not open database handle: %v\n", err)
		return
	}
	if err := db.Ping(); err != nil {
		fmt.Printf("dao tests will skip, database not reachable: %v\n", err)
		return
	}
	candidate := &dao.DataAccessLayer{
		MetadataDB:           db,
		Logger:               config.RootLogger,
		DeadlockRetryCounter: 30,
		DeadlockRetryDelay:   55,
	}
	if _, err := candidate.GetDBState(); err != nil {
		fmt.Printf("dao tests will skip, schema not populated: %v\n", err)
		return
	}
	d = candidate
	for i := 0; i < len(testEmployees); i++ {
		testEmployees[i] = findOrCreateTestEmployee(fmt.Sprintf("99000000%02d", i))
	}
}

func findOrCreateTestEmployee(employeeCode string) models.ATEmployee {
	employee, err := d.GetEmployeeByCode(employeeCode)
	if err == nil {
		return employee
	}
	var newEmployee models.ATEmployee
	newEmployee.CreatedBy = "dao_test"
	newEmployee.EmployeeCode = employeeCode
	newEmployee.Name = "Test Employee " + employeeCode
	newEmployee.Email = models.ToNullString(employeeCode + "@example.com")
	newEmployee.Role = models.RoleEmployee
	newEmployee.PasswordHash = testPasswordHash
	newEmployee.ShiftStart = "09:00"
	newEmployee.ShiftEnd = "17:00"
	newEmployee.BasicSalary = 3200
	newEmployee.IsActive = true
	employee, err = d.CreateEmployee(&newEmployee)
	if err != nil {
		panic(err)
	}
	return employee
}
