package dao

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// GetInventoryItemByProduct uses the passed in product name and makes the
// appropriate sql calls to the database to retrieve and return the matching
// inventory item. Product names are unique across the catalog.
func (dao *DataAccessLayer) GetInventoryItemByProduct(product string) (models.ATInventoryItem, error) {
	defer util.Time("GetInventoryItemByProduct")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return models.ATInventoryItem{}, err
	}
	dbItem, err := getInventoryItemByProductInTransaction(tx, product)
	if err != nil {
		if err.Error() != ErrNoRows.Error() {
			dao.GetLogger().Error("Error in GetInventoryItemByProduct", zap.Error(err))
		}
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return dbItem, err
}

func getInventoryItemByProductInTransaction(tx *sqlx.Tx, product string) (models.ATInventoryItem, error) {
	var dbItem models.ATInventoryItem
	getItemStatement := `
    select
        id
        ,createdDate
        ,createdBy
        ,modifiedDate
        ,modifiedBy
        ,changeCount
        ,changeToken
        ,product
        ,sellingPrice
        ,stock
    from
        inventory_item
    where
        product = ?
    `
	err := tx.Get(&dbItem, getItemStatement, product)
	if err != nil {
		return dbItem, err
	}

	return dbItem, err
}
