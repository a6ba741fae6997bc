package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/bbyours/attendance-server/mapping"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/services/audit"
)

// getInventory lists every stocked product with price and quantity on hand.
func (h AppServer) getInventory(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	gem, _ := GEMFromContext(ctx)
	gem.Action = "access"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventAccess")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "ACCESS")
	d := DAOFromContext(ctx)

	items, err := d.GetInventory()
	if err != nil {
		herr := NewAppError(500, err, "Error loading inventory")
		h.publishError(gem, herr)
		return herr
	}

	apiResponse := protocol.InventoryResultset{
		Items: mapping.MapATInventoryItemsToInventoryItems(items),
	}
	apiResponse.TotalRows = len(items)
	apiResponse.PageCount = 1
	apiResponse.PageNumber = 1
	apiResponse.PageSize = len(items)
	apiResponse.PageRows = len(items)

	h.publishSuccess(gem, w)
	jsonResponse(w, apiResponse)
	return nil
}

// getEmployeeInventory lists the recorded draws of the employee named in the
// URI, newest first. Admin only, gated in ServeHTTP.
func (h AppServer) getEmployeeInventory(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	gem, _ := GEMFromContext(ctx)
	gem.Action = "access"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventAccess")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "ACCESS")
	d := DAOFromContext(ctx)

	captured, ok := CaptureGroupsFromContext(ctx)
	if !ok || captured["employeeCode"] == "" {
		herr := NewAppError(400, errors.New("Could not extract employeeCode from URI"), "URI did not name an employee")
		h.publishError(gem, herr)
		return herr
	}
	employee, herr := h.employeeByCode(ctx, captured["employeeCode"])
	if herr != nil {
		h.publishError(gem, herr)
		return herr
	}

	transactions, err := d.GetInventoryTransactionsForEmployee(employee.ID)
	if err != nil {
		herr := NewAppError(500, err, "Error loading inventory activity")
		h.publishError(gem, herr)
		return herr
	}

	apiResponse := protocol.InventoryTransactionResultset{
		Transactions: mapping.MapATInventoryTransactionsToInventoryTransactions(transactions),
	}
	for i := range apiResponse.Transactions {
		apiResponse.Transactions[i].EmployeeName = employee.Name
	}
	apiResponse.TotalRows = len(transactions)
	apiResponse.PageCount = 1
	apiResponse.PageNumber = 1
	apiResponse.PageSize = len(transactions)
	apiResponse.PageRows = len(transactions)

	h.publishSuccess(gem, w)
	jsonResponse(w, apiResponse)
	return nil
}
