package dao

import (
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// CountActiveEmployees returns the number of accounts currently allowed to
// sign in.
func (dao *DataAccessLayer) CountActiveEmployees() (int, error) {
	defer util.Time("CountActiveEmployees")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return 0, err
	}
	count, err := countActiveEmployeesInTransaction(tx)
	if err != nil {
		dao.GetLogger().Error("Error in CountActiveEmployees", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return count, err
}

func countActiveEmployeesInTransaction(tx *sqlx.Tx) (int, error) {
	var count int
	countStatement := `select count(id) from employee where isActive = 1`
	err := tx.Get(&count, countStatement)
	return count, err
}
