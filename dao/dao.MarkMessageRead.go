package dao

import (
	"fmt"

	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// MarkMessageRead flips the identified message to read and stamps the read
// date. The recipient is part of the match so an employee can only mark
// their own mail, and a message already read passes through untouched. A
// message that does not exist for the recipient yields ErrNoRows.
func (dao *DataAccessLayer) MarkMessageRead(messageID string, recipientID string) (models.ATMessage, error) {
	defer util.Time("MarkMessageRead")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return models.ATMessage{}, err
	}
	dbMessage, err := markMessageReadInTransaction(tx, messageID, recipientID)
	if err != nil {
		if err.Error() != ErrNoRows.Error() {
			dao.GetLogger().Error("Error in MarkMessageRead", zap.Error(err))
		}
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return dbMessage, err
}

func markMessageReadInTransaction(tx *sqlx.Tx, messageID string, recipientID string) (models.ATMessage, error) {
	var dbMessage models.ATMessage
	if len(messageID) == 0 {
		return dbMessage, ErrMissingID
	}
	markReadStatement, err := tx.Preparex(`
        update message m
            inner join employee r on m.recipientId = r.id
        set
            m.modifiedBy = r.employeeCode
            ,m.status = ?
            ,m.readDate = now()
        where
            m.id = ? and m.recipientId = ? and m.status = ?`)
	if err != nil {
		return dbMessage, fmt.Errorf("MarkMessageRead error preparing update statement, %s", err.Error())
	}
	defer markReadStatement.Close()
	if _, err := markReadStatement.Exec(models.MessageStatusRead,
		messageID, recipientID, models.MessageStatusUnread); err != nil {
		return dbMessage, err
	}
	// Retrieve it scoped to the recipient so nobody reads someone else's mail
	getMessageStatement := `
    select
        m.id
        ,m.createdDate
        ,m.createdBy
        ,m.modifiedDate
        ,m.modifiedBy
        ,m.senderId
        ,m.recipientId
        ,m.messageType
        ,m.content
        ,m.status
        ,m.readDate
        ,s.name senderName
        ,r.name recipientName
    from
        message m
        inner join employee s on m.senderId = s.id
        inner join employee r on m.recipientId = r.id
    where
        m.id = ? and m.recipientId = ?
    `
	err = tx.Get(&dbMessage, getMessageStatement, messageID, recipientID)
	return dbMessage, err
}
