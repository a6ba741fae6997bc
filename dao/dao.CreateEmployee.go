package dao

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
)

// CreateEmployee adds a new employee account to the database based upon the
// passed in settings. At a minimum, createdBy, the employee code, and the
// password hash must exist. Once added, the record is retrieved and the
// employee returned reflects the database assigned attributes. An attempt to
// reuse an employee code held by an existing account yields
// ErrEmployeeCodeTaken.
func (dao *DataAccessLayer) CreateEmployee(employee *models.ATEmployee) (models.ATEmployee, error) {
	defer util.Time("CreateEmployee")()
	logger := dao.GetLogger()
	retryCounter := dao.DeadlockRetryCounter
	retryDelay := dao.DeadlockRetryDelay
	retryOnErrorMessageContains := []string{"Deadlock", "Lock wait timeout exceeded"}
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		logger.Error("could not begin transaction", zap.Error(err))
		return models.ATEmployee{}, err
	}
	dbEmployee, err := createEmployeeInTransaction(tx, employee)
	for retryCounter > 0 && err != nil && util.ContainsAny(err.Error(), retryOnErrorMessageContains) {
		logger.Debug("restarting transaction for createEmployeeInTransaction", zap.String("retryReason", util.FirstMatch(err.Error(), retryOnErrorMessageContains)), zap.Int64("retryCounter", retryCounter))
		tx.Rollback()
		time.Sleep(time.Duration(retryDelay) * time.Millisecond)
		retryCounter--
		tx, err = dao.MetadataDB.Beginx()
		if err != nil {
			logger.Error("could not begin transaction", zap.Error(err))
			return models.ATEmployee{}, err
		}
		dbEmployee, err = createEmployeeInTransaction(tx, employee)
	}
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			err = ErrEmployeeCodeTaken
		} else {
			logger.Error("error in CreateEmployee", zap.Error(err))
		}
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return dbEmployee, err
}

func createEmployeeInTransaction(tx *sqlx.Tx, employee *models.ATEmployee) (models.ATEmployee, error) {
	var dbEmployee models.ATEmployee
	if len(employee.EmployeeCode) == 0 {
		return dbEmployee, fmt.Errorf("cannot create employee with empty employeeCode")
	}
	if len(employee.PasswordHash) == 0 {
		return dbEmployee, fmt.Errorf("cannot create employee with empty passwordHash")
	}
	if len(employee.Role) == 0 {
		employee.Role = models.RoleEmployee
	}
	if len(employee.ID) == 0 {
		employee.ATID = models.NewATID()
	}
	addEmployeeStatement, err := tx.Preparex(`
        insert employee set
            id = ?
            ,createdBy = ?
            ,modifiedBy = ?
            ,employeeCode = ?
            ,name = ?
            ,email = ?
            ,role = ?
            ,passwordHash = ?
            ,shiftStart = ?
            ,shiftEnd = ?
            ,basicSalary = ?
            ,isActive = ?`)
	if err != nil {
		return dbEmployee, fmt.Errorf("CreateEmployee error preparing add employee statement, %s", err.Error())
	}
	defer addEmployeeStatement.Close()
	// Add it
	if _, err := addEmployeeStatement.Exec(employee.ID, employee.CreatedBy,
		employee.CreatedBy, employee.EmployeeCode, employee.Name, employee.Email,
		employee.Role, employee.PasswordHash, employee.ShiftStart,
		employee.ShiftEnd, employee.BasicSalary, employee.IsActive); err != nil {
		return dbEmployee, err
	}
	// Retrieve it
	return getEmployeeByIDInTransaction(tx, employee.ID)
}
