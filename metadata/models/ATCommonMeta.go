package models

import "time"

// ATCommonMeta is a nestable structure defining the attributes most common for
// attendance elements
type ATCommonMeta struct {
	ATID
	ATCreatable
	ATModifiable
}

// NewATCommonMeta builds common metadata attributed to the given actor
func NewATCommonMeta(createdBy string) ATCommonMeta {
	var common ATCommonMeta
	common.ATID = NewATID()
	common.CreatedDate = time.Now()
	common.CreatedBy = createdBy
	common.ModifiedBy = createdBy
	return common
}
