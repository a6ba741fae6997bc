package dao

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// GetMessagesForRecipient retrieves a paged resultset of messages delivered
// to the given employee, newest first, with the sender and recipient names
// joined in for listings.
func (dao *DataAccessLayer) GetMessagesForRecipient(recipientID string, pagingRequest PagingRequest) (models.ATMessageResultset, error) {
	defer util.Time("GetMessagesForRecipient")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return models.ATMessageResultset{}, err
	}
	response, err := getMessagesForRecipientInTransaction(tx, recipientID, pagingRequest)
	if err != nil {
		dao.GetLogger().Error("Error in GetMessagesForRecipient", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return response, err
}

func getMessagesForRecipientInTransaction(tx *sqlx.Tx, recipientID string, pagingRequest PagingRequest) (models.ATMessageResultset, error) {
	response := models.ATMessageResultset{}
	limit := GetLimit(pagingRequest.PageNumber, pagingRequest.PageSize)
	offset := GetOffset(pagingRequest.PageNumber, pagingRequest.PageSize)
	query := `
    select
        sql_calc_found_rows
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
        m.recipientId = ?
    order by
        m.createdDate desc
    limit ?, ?
    `
	err := tx.Select(&response.Messages, query, recipientID, offset, limit)
	if err != nil {
		return response, err
	}
	// Paging stats for the response
	err = tx.Get(&response.TotalRows, "select found_rows()")
	if err != nil {
		return response, err
	}
	response.PageNumber = GetSanitizedPageNumber(pagingRequest.PageNumber)
	response.PageSize = GetSanitizedPageSize(pagingRequest.PageSize)
	response.PageCount = GetPageCount(response.TotalRows, response.PageSize)
	response.PageRows = len(response.Messages)
	return response, err
}
