package dao

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// CountPendingApprovals returns the number of approval requests still
// awaiting a decision. Feeds the admin dashboard badge.
func (dao *DataAccessLayer) CountPendingApprovals() (int, error) {
	defer util.Time("CountPendingApprovals")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return 0, err
	}
	count, err := countPendingApprovalsInTransaction(tx)
	if err != nil {
		dao.GetLogger().Error("Error in CountPendingApprovals", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return count, err
}

func countPendingApprovalsInTransaction(tx *sqlx.Tx) (int, error) {
	var count int
	countStatement := `select count(id) from approval_request where status = ?`
	err := tx.Get(&count, countStatement, models.ApprovalStatusPending)
	return count, err
}
