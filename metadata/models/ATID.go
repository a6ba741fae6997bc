package models

import "github.com/samborkent/uuidv7"

// ATID is a nestable structure defining an ID for attendance elements
type ATID struct {
	// ID is the unique identifier for an item. It holds a time ordered
	// uuid in string form so rows sort in creation order.
	ID string `db:"id"`
}

// NewATID assigns a fresh time ordered identifier
func NewATID() ATID {
	return ATID{ID: uuidv7.New().String()}
}
