package models

// Resultset provides a summation of an enclosed array of elements
type Resultset struct {
	// TotalRows is the total number of items matching the same query resulting
	// in this page of results
	TotalRows int
	// PageCount is the total rows divided by page size
	PageCount int
	// PageNumber is the requested page number for this resultset
	PageNumber int
	// PageSize is the requested page size for this resultset
	PageSize int
	// PageRows is the number of items included in this page of the results,
	// which may be less than pagesize, but never greater.
	PageRows int
}
