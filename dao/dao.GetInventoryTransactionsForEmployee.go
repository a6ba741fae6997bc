package dao

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// GetInventoryTransactionsForEmployee retrieves the inventory draws made by
// the given employee, most recent first, with the product name joined in
// for listings.
func (dao *DataAccessLayer) GetInventoryTransactionsForEmployee(employeeID string) ([]models.ATInventoryTransaction, error) {
	defer util.Time("GetInventoryTransactionsForEmployee")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return nil, err
	}
	transactions, err := getInventoryTransactionsForEmployeeInTransaction(tx, employeeID)
	if err != nil {
		dao.GetLogger().Error("Error in GetInventoryTransactionsForEmployee", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return transactions, err
}

func getInventoryTransactionsForEmployeeInTransaction(tx *sqlx.Tx, employeeID string) ([]models.ATInventoryTransaction, error) {
	var transactions []models.ATInventoryTransaction
	getTransactionsStatement := `
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
        it.employeeId = ?
    order by
        it.createdDate desc
    `
	err := tx.Select(&transactions, getTransactionsStatement, employeeID)
	return transactions, err
}
