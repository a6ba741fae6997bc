package models

import "time"

/*
ATModifiable is a nestable structure defining the attributes tracked for
attendance elements that may be modified
*/
type ATModifiable struct {
	ModifiedDate time.Time `db:"modifiedDate"`
	ModifiedBy   string    `db:"modifiedBy"`
}
