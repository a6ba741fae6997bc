package dao

import (
	"fmt"
	"time"

	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// CreateSecurityLog appends one security relevant action to the log. Rows
// are never updated or deleted through this application.
func (dao *DataAccessLayer) CreateSecurityLog(entry *models.ATSecurityLog) error {
	defer util.Time("CreateSecurityLog")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return err
	}
	err = createSecurityLogInTransaction(tx, entry)
	if err != nil {
		dao.GetLogger().Error("Error in CreateSecurityLog", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return err
}

func createSecurityLogInTransaction(tx *sqlx.Tx, entry *models.ATSecurityLog) error {
	if len(entry.Action) == 0 {
		return fmt.Errorf("cannot create security log with empty action")
	}
	if len(entry.Status) == 0 {
		return fmt.Errorf("cannot create security log with empty status")
	}
	if entry.EventDate.IsZero() {
		entry.EventDate = time.Now()
	}
	if len(entry.ID) == 0 {
		entry.ATID = models.NewATID()
	}
	addLogStatement, err := tx.Preparex(`
        insert security_log set
            id = ?
            ,eventDate = ?
            ,action = ?
            ,userId = ?
            ,status = ?
            ,details = ?`)
	if err != nil {
		return fmt.Errorf("CreateSecurityLog error preparing add log statement, %s", err.Error())
	}
	defer addLogStatement.Close()
	if _, err := addLogStatement.Exec(entry.ID, entry.EventDate, entry.Action,
		entry.UserID, entry.Status, entry.Details); err != nil {
		return err
	}
	return nil
}
