package models

// Bounds on the quantity a single inventory use may take.
const (
	MinUseQuantity = 1
	MaxUseQuantity = 50
)

/*
ATInventoryTransaction is a structure recording a single inventory draw by a
clocked in employee.
*/
type ATInventoryTransaction struct {
	ATID
	ATCreatable
	ATModifiable
	// EmployeeID references the employee who drew the stock.
	EmployeeID string `db:"employeeId"`
	// ItemID references the inventory item drawn.
	ItemID string `db:"itemId"`
	// Quantity drawn, between MinUseQuantity and MaxUseQuantity.
	Quantity int `db:"quantity"`
	// UnitPrice is the selling price at the time of the draw.
	UnitPrice float64 `db:"unitPrice"`
	// TotalPrice is quantity times unit price at the time of the draw.
	TotalPrice float64 `db:"totalPrice"`
	// Product is joined from the inventory item for listings.
	Product string `db:"product"`
}
