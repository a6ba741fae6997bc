package dao

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// CountUnreadForRecipient returns the number of unread messages waiting for
// the given employee. Feeds the unread badge on the home screen.
func (dao *DataAccessLayer) CountUnreadForRecipient(recipientID string) (int, error) {
	defer util.Time("CountUnreadForRecipient")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return 0, err
	}
	count, err := countUnreadForRecipientInTransaction(tx, recipientID)
	if err != nil {
		dao.GetLogger().Error("Error in CountUnreadForRecipient", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return count, err
}

func countUnreadForRecipientInTransaction(tx *sqlx.Tx, recipientID string) (int, error) {
	var count int
	countStatement := `select count(id) from message where recipientId = ? and status = ?`
	err := tx.Get(&count, countStatement, recipientID, models.MessageStatusUnread)
	return count, err
}
