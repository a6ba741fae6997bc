package dao

import "errors"

// Database errors
var (
	ErrMissingID           = errors.New("missing id field")
	ErrMissingChangeToken  = errors.New("missing changetoken")
	ErrMissingModifiedBy   = errors.New("modifiedby was not specified for record being updated")
	ErrNoRows              = errors.New("sql: no rows in result set")
	ErrChangeTokenMismatch = errors.New("changetoken does not match expected value")
	// ErrEmployeeCodeTaken reports a create with an employee code that is
	// already assigned.
	ErrEmployeeCodeTaken = errors.New("employee code already assigned")
	// ErrAlreadyClockedIn reports a second clock in for the same day.
	ErrAlreadyClockedIn = errors.New("attendance already recorded for date")
	// ErrApprovalPending reports a duplicate exception request for the same
	// type and day while one is still awaiting a decision.
	ErrApprovalPending = errors.New("a pending request of this type already exists for the date")
	// ErrApprovalProcessed reports a decision on a request that already
	// received one.
	ErrApprovalProcessed = errors.New("approval request already processed")
	// ErrStockInsufficient reports an inventory draw larger than remaining
	// stock.
	ErrStockInsufficient = errors.New("insufficient stock for requested quantity")
)
