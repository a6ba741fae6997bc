package models

import "time"

/*
ATCreatable is a nestable structure defining the attributes tracked for
attendance elements that may be created
*/
type ATCreatable struct {
	CreatedDate time.Time `db:"createdDate"`
	CreatedBy   string    `db:"createdBy"`
}
