package dao

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
)

// UpdateEmployee uses the passed in employee and makes the appropriate sql
// calls to the database to update the editable fields of the account. The
// changeToken held by the caller must match the current one on the record or
// ErrChangeTokenMismatch is returned and nothing is written. On success the
// passed in employee is refreshed with the database assigned attributes.
func (dao *DataAccessLayer) UpdateEmployee(employee *models.ATEmployee) error {
	defer util.Time("UpdateEmployee")()
	logger := dao.GetLogger()
	retryCounter := dao.DeadlockRetryCounter
	retryDelay := dao.DeadlockRetryDelay
	retryOnErrorMessageContains := []string{"Deadlock", "Lock wait timeout exceeded"}
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		logger.Error("could not begin transaction", zap.Error(err))
		return err
	}
	err = updateEmployeeInTransaction(tx, employee)
	for retryCounter > 0 && err != nil && util.ContainsAny(err.Error(), retryOnErrorMessageContains) {
		logger.Debug("restarting transaction for updateEmployeeInTransaction", zap.String("retryReason", util.FirstMatch(err.Error(), retryOnErrorMessageContains)), zap.Int64("retryCounter", retryCounter))
		tx.Rollback()
		time.Sleep(time.Duration(retryDelay) * time.Millisecond)
		retryCounter--
		tx, err = dao.MetadataDB.Beginx()
		if err != nil {
			logger.Error("could not begin transaction", zap.Error(err))
			return err
		}
		err = updateEmployeeInTransaction(tx, employee)
	}
	if err != nil {
		if err != ErrChangeTokenMismatch {
			logger.Error("error in UpdateEmployee", zap.Error(err))
		}
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return err
}

func updateEmployeeInTransaction(tx *sqlx.Tx, employee *models.ATEmployee) error {
	if len(employee.ID) == 0 {
		return ErrMissingID
	}
	if len(employee.ModifiedBy) == 0 {
		return ErrMissingModifiedBy
	}
	if len(employee.ChangeToken) == 0 {
		return ErrMissingChangeToken
	}
	updateEmployeeStatement, err := tx.Preparex(`
        update employee set
            modifiedBy = ?
            ,name = ?
            ,email = ?
            ,role = ?
            ,shiftStart = ?
            ,shiftEnd = ?
            ,basicSalary = ?
            ,isActive = ?
        where
            id = ? and changeToken = ?`)
	if err != nil {
		return fmt.Errorf("UpdateEmployee error preparing update employee statement, %s", err.Error())
	}
	defer updateEmployeeStatement.Close()
	result, err := updateEmployeeStatement.Exec(employee.ModifiedBy, employee.Name,
		employee.Email, employee.Role, employee.ShiftStart, employee.ShiftEnd,
		employee.BasicSalary, employee.IsActive, employee.ID, employee.ChangeToken)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		// Either the record is gone or someone changed it underneath us.
		return ErrChangeTokenMismatch
	}
	dbEmployee, err := getEmployeeByIDInTransaction(tx, employee.ID)
	if err != nil {
		return err
	}
	*employee = dbEmployee
	return nil
}
