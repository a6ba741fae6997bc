package dao

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/util"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// GetInventory retrieves every inventory item ordered by product name. The
// catalog is small enough that no paging is warranted.
func (dao *DataAccessLayer) GetInventory() ([]models.ATInventoryItem, error) {
	defer util.Time("GetInventory")()
	tx, err := dao.MetadataDB.Beginx()
	if err != nil {
		dao.GetLogger().Error("Could not begin transaction", zap.Error(err))
		return nil, err
	}
	items, err := getInventoryInTransaction(tx)
	if err != nil {
		dao.GetLogger().Error("Error in GetInventory", zap.Error(err))
		tx.Rollback()
	} else {
		tx.Commit()
	}
	return items, err
}

func getInventoryInTransaction(tx *sqlx.Tx) ([]models.ATInventoryItem, error) {
	var items []models.ATInventoryItem
	getInventoryStatement := `
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
    order by
        product asc
    `
	err := tx.Select(&items, getInventoryStatement)
	return items, err
}
