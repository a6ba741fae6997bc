package models

/*
ATInventoryItem is a structure defining a product employees may draw from
shared stock while on shift.
*/
type ATInventoryItem struct {
	ATID
	ATCreatable
	ATModifiable
	ATChangeTracking
	// Product is the unique display name of the item.
	Product string `db:"product"`
	// SellingPrice is the current unit price.
	SellingPrice float64 `db:"sellingPrice"`
	// Stock is the quantity remaining. Never negative.
	Stock int `db:"stock"`
}
