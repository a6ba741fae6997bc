package dao

import (
	"fmt"

	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// SetEmployeePassword stores a new bcrypt password hash on the identified
// employee account. Password changes deliberately skip the changeToken check
// since the hash is write only and an administrative reset must always win.
func (dao *DataAccessLayer) SetEmployeePassword(employeeID string, passwordHash string, modifiedBy string) error {
	defer util.Time("SetEmployeePassword")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return err
	}
	err = setEmployeePasswordInTransaction(tx, employeeID, passwordHash, modifiedBy)
	if err != nil {
		dao.GetLogger().Error("Error in SetEmployeePassword", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return err
}

func setEmployeePasswordInTransaction(tx *sqlx.Tx, employeeID string, passwordHash string, modifiedBy string) error {
	if len(employeeID) == 0 {
		return ErrMissingID
	}
	if len(modifiedBy) == 0 {
		return ErrMissingModifiedBy
	}
	setPasswordStatement, err := tx.Preparex(`
        update employee set
            modifiedBy = ?
            ,passwordHash = ?
        where
            id = ?`)
	if err != nil {
		return fmt.Errorf("SetEmployeePassword error preparing update statement, %s", err.Error())
	}
	defer setPasswordStatement.Close()
	result, err := setPasswordStatement.Exec(modifiedBy, passwordHash, employeeID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNoRows
	}
	return nil
}
