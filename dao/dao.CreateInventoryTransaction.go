package dao

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
)

// CreateInventoryTransaction records an employee drawing stock from
// inventory. The decrement only lands when the item still holds enough
// stock, so concurrent draws can never push the count negative and the
// loser sees ErrStockInsufficient. The unit price is snapshotted from the
// item inside the same transaction so later price changes leave the history
// intact. Once added, the record is retrieved and returned with the joined
// product name.
func (dao *DataAccessLayer) CreateInventoryTransaction(transaction *models.ATInventoryTransaction) (models.ATInventoryTransaction, error) {
	defer util.Time("CreateInventoryTransaction")()
	logger := dao.GetLogger()
	retryCounter := dao.DeadlockRetryCounter
	retryDelay := dao.DeadlockRetryDelay
	retryOnErrorMessageContains := []string{"Deadlock", "Lock wait timeout exceeded"}
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		logger.Error("could not begin transaction", zap.Error(err))
		return models.ATInventoryTransaction{}, err
	}
	dbTransaction, err := createInventoryTransactionInTransaction(tx, transaction)
	for retryCounter > 0 && err != nil && util.ContainsAny(err.Error(), retryOnErrorMessageContains) {
		logger.Debug("restarting transaction for createInventoryTransactionInTransaction", zap.String("retryReason", util.FirstMatch(err.Error(), retryOnErrorMessageContains)), zap.Int64("retryCounter", retryCounter))
		tx.Rollback()
		time.Sleep(time.Duration(retryDelay) * time.Millisecond)
		retryCounter--
		tx, err = dao.MetadataDB.Beginx()
		if err != nil {
			logger.Error("could not begin transaction", zap.Error(err))
			return models.ATInventoryTransaction{}, err
		}
		dbTransaction, err = createInventoryTransactionInTransaction(tx, transaction)
	}
	if err != nil {
		if err != ErrStockInsufficient {
			logger.Error("error in CreateInventoryTransaction", zap.Error(err))
		}
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return dbTransaction, err
}

func createInventoryTransactionInTransaction(tx *sqlx.Tx, transaction *models.ATInventoryTransaction) (models.ATInventoryTransaction, error) {
	var dbTransaction models.ATInventoryTransaction
	if len(transaction.EmployeeID) == 0 {
		return dbTransaction, fmt.Errorf("cannot create inventory transaction with empty employeeId")
	}
	if len(transaction.ItemID) == 0 {
		return dbTransaction, fmt.Errorf("cannot create inventory transaction with empty itemId")
	}
	if transaction.Quantity < models.MinUseQuantity || transaction.Quantity > models.MaxUseQuantity {
		return dbTransaction, fmt.Errorf("cannot create inventory transaction with quantity %d", transaction.Quantity)
	}
	// Snapshot the unit price from the item in the same transaction
	var dbItem models.ATInventoryItem
	getItemStatement := `select id, product, sellingPrice, stock from inventory_item where id = ?`
	if err := tx.Get(&dbItem, getItemStatement, transaction.ItemID); err != nil {
		return dbTransaction, err
	}
	// Take the stock, but only if enough remains
	takeStockStatement, err := tx.Preparex(`
        update inventory_item set
            modifiedBy = ?
            ,stock = stock - ?
        where
            id = ? and stock >= ?`)
	if err != nil {
		return dbTransaction, fmt.Errorf("CreateInventoryTransaction error preparing take stock statement, %s", err.Error())
	}
	defer takeStockStatement.Close()
	result, err := takeStockStatement.Exec(transaction.CreatedBy, transaction.Quantity,
		transaction.ItemID, transaction.Quantity)
	if err != nil {
		return dbTransaction, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return dbTransaction, err
	}
	if rowsAffected == 0 {
		return dbTransaction, ErrStockInsufficient
	}
	transaction.UnitPrice = dbItem.SellingPrice
	transaction.TotalPrice = dbItem.SellingPrice * float64(transaction.Quantity)
	if len(transaction.ID) == 0 {
		transaction.ATID = models.NewATID()
	}
	addTransactionStatement, err := tx.Preparex(`
        insert inventory_transaction set
            id = ?
            ,createdBy = ?
            ,modifiedBy = ?
            ,employeeId = ?
            ,itemId = ?
            ,quantity = ?
            ,unitPrice = ?
            ,totalPrice = ?`)
	if err != nil {
		return dbTransaction, fmt.Errorf("CreateInventoryTransaction error preparing add transaction statement, %s", err.Error())
	}
	defer addTransactionStatement.Close()
	// Add it
	if _, err := addTransactionStatement.Exec(transaction.ID, transaction.CreatedBy,
		transaction.CreatedBy, transaction.EmployeeID, transaction.ItemID,
		transaction.Quantity, transaction.UnitPrice, transaction.TotalPrice); err != nil {
		return dbTransaction, err
	}
	// Retrieve it
	return getInventoryTransactionByIDInTransaction(tx, transaction.ID)
}

func getInventoryTransactionByIDInTransaction(tx *sqlx.Tx, id string) (models.ATInventoryTransaction, error) {
	var dbTransaction models.ATInventoryTransaction
	getTransactionStatement := `
    select
        it.id
        ,it.createdDate
        ,it.createdBy
        ,it.modifiedDate
        ,it.modifiedBy
        ,it.employeeId
        ,it.itemId
        ,it.quantity
        ,it.unitPrice
        ,it.totalPrice
        ,i.product product
    from
        inventory_transaction it
        inner join inventory_item i on it.itemId = i.id
    where
        it.id = ?
    `
	err := tx.Get(&dbTransaction, getTransactionStatement, id)
	return dbTransaction, err
}
