package dao

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
)

// CreateMessage adds a message from the sender to its recipient. A message
// addressed to the broadcast marker is expanded here, inside one
// transaction, into a separate record for every active employee other than
// the sender so each recipient carries their own read state. The created
// records are retrieved and returned with the joined sender and recipient
// names.
func (dao *DataAccessLayer) CreateMessage(message *models.ATMessage) ([]models.ATMessage, error) {
	defer util.Time("CreateMessage")()
	logger := dao.GetLogger()
	retryCounter := dao.DeadlockRetryCounter
	retryDelay := dao.DeadlockRetryDelay
	retryOnErrorMessageContains := []string{"Deadlock", "Lock wait timeout exceeded"}
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		logger.Error("could not begin transaction", zap.Error(err))
		return nil, err
	}
	dbMessages, err := createMessageInTransaction(tx, message)
	for retryCounter > 0 && err != nil && util.ContainsAny(err.Error(), retryOnErrorMessageContains) {
		logger.Debug("restarting transaction for createMessageInTransaction", zap.String("retryReason", util.FirstMatch(err.Error(), retryOnErrorMessageContains)), zap.Int64("retryCounter", retryCounter))
		tx.Rollback()
		time.Sleep(time.Duration(retryDelay) * time.Millisecond)
		retryCounter--
		tx, err = dao.MetadataDB.Beginx()
		if err != nil {
			logger.Error("could not begin transaction", zap.Error(err))
			return nil, err
		}
		dbMessages, err = createMessageInTransaction(tx, message)
	}
	if err != nil {
		logger.Error("error in CreateMessage", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return dbMessages, err
}

func createMessageInTransaction(tx *sqlx.Tx, message *models.ATMessage) ([]models.ATMessage, error) {
	if len(message.SenderID) == 0 {
		return nil, fmt.Errorf("cannot create message with empty senderId")
	}
	if len(message.Content) == 0 {
		return nil, fmt.Errorf("cannot create message with empty content")
	}
	if len(message.MessageType) == 0 {
		return nil, fmt.Errorf("cannot create message with empty messageType")
	}
	var recipients []string
	if message.RecipientID == models.BroadcastRecipient {
		// Expand the broadcast to everyone active except the sender
		getRecipientsStatement := `select id from employee where isActive = 1 and id <> ?`
		if err := tx.Select(&recipients, getRecipientsStatement, message.SenderID); err != nil {
			return nil, err
		}
	} else {
		if len(message.RecipientID) == 0 {
			return nil, fmt.Errorf("cannot create message with empty recipientId")
		}
		recipients = []string{message.RecipientID}
	}
	addMessageStatement, err := tx.Preparex(`
        insert message set
            id = ?
            ,createdBy = ?
            ,modifiedBy = ?
            ,senderId = ?
            ,recipientId = ?
            ,messageType = ?
            ,content = ?
            ,status = ?`)
	if err != nil {
		return nil, fmt.Errorf("CreateMessage error preparing add message statement, %s", err.Error())
	}
	defer addMessageStatement.Close()
	dbMessages := []models.ATMessage{}
	for _, recipientID := range recipients {
		newID := models.NewATID()
		if _, err := addMessageStatement.Exec(newID.ID, message.CreatedBy,
			message.CreatedBy, message.SenderID, recipientID,
			message.MessageType, message.Content, models.MessageStatusUnread); err != nil {
			return nil, err
		}
		dbMessage, err := getMessageByIDInTransaction(tx, newID.ID)
		if err != nil {
			return nil, err
		}
		dbMessages = append(dbMessages, dbMessage)
	}
	return dbMessages, nil
}

func getMessageByIDInTransaction(tx *sqlx.Tx, id string) (models.ATMessage, error) {
	var dbMessage models.ATMessage
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
        m.id = ?
    `
	err := tx.Get(&dbMessage, getMessageStatement, id)
	return dbMessage, err
}
