package mapping

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/util"
)

// MapATInventoryItemToInventoryItem converts an internal ATInventoryItem
// model object into an API exposable protocol InventoryItem.
func MapATInventoryItemToInventoryItem(i *models.ATInventoryItem) protocol.InventoryItem {
	o := protocol.InventoryItem{}
	o.Product = i.Product
	o.SellingPrice = i.SellingPrice
	o.Stock = i.Stock
	return o
}

// MapATInventoryItemsToInventoryItems converts an array of internal
// ATInventoryItem model objects into an array of protocol InventoryItems.
func MapATInventoryItemsToInventoryItems(i []models.ATInventoryItem) []protocol.InventoryItem {
	o := make([]protocol.InventoryItem, len(i))
	for p, q := range i {
		o[p] = MapATInventoryItemToInventoryItem(&q)
	}
	return o
}

// MapATInventoryTransactionToInventoryTransaction converts an internal
// ATInventoryTransaction model object into an API exposable protocol
// InventoryTransaction.
func MapATInventoryTransactionToInventoryTransaction(i *models.ATInventoryTransaction) protocol.InventoryTransaction {
	o := protocol.InventoryTransaction{}
	o.TransactionID = i.ID
	o.Item = i.Product
	o.Quantity = i.Quantity
	o.UnitPrice = i.UnitPrice
	o.Total = i.TotalPrice
	o.Date = i.CreatedDate.Format(util.DateFormat + " " + util.TimeFormat)
	return o
}

// MapATInventoryTransactionsToInventoryTransactions converts an array of
// internal ATInventoryTransaction model objects into an array of protocol
// InventoryTransactions.
func MapATInventoryTransactionsToInventoryTransactions(i []models.ATInventoryTransaction) []protocol.InventoryTransaction {
	o := make([]protocol.InventoryTransaction, len(i))
	for p, q := range i {
		o[p] = MapATInventoryTransactionToInventoryTransaction(&q)
	}
	return o
}
