package protocol

// InventoryItem is the serialized version of a stocked product.
type InventoryItem struct {
	// Product is the display name of the item.
	Product string `json:"product"`
	// SellingPrice is the current unit price.
	SellingPrice float64 `json:"sellingPrice"`
	// Stock is the quantity remaining.
	Stock int `json:"stock"`
}

// InventoryResultset is a page of inventory items.
type InventoryResultset struct {
	Resultset
	Items []InventoryItem `json:"items"`
}

// UseInventoryRequest records a draw against stock by the caller.
type UseInventoryRequest struct {
	// Item is the product name to draw.
	Item string `json:"item"`
	// Quantity to draw, between 1 and 50.
	Quantity int `json:"quantity"`
}

// UseInventoryResponse is returned when a draw is accepted.
type UseInventoryResponse struct {
	// TransactionID identifies the recorded draw.
	TransactionID string `json:"transactionId"`
	Item          string `json:"item"`
	Quantity      int    `json:"quantity"`
	// UnitPrice is the selling price applied.
	UnitPrice float64 `json:"unitPrice"`
	// Total is quantity times unit price.
	Total float64 `json:"total"`
}

// InventoryTransaction is the serialized version of a recorded draw.
type InventoryTransaction struct {
	TransactionID string  `json:"transactionId"`
	Item          string  `json:"item"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`
	Total         float64 `json:"total"`
	// Date is when the draw happened.
	Date string `json:"date"`
	// EmployeeName attributes the draw in admin views.
	EmployeeName string `json:"employeeName,omitempty"`
}

// InventoryTransactionResultset is a page of recorded draws.
type InventoryTransactionResultset struct {
	Resultset
	Transactions []InventoryTransaction `json:"transactions"`
}
