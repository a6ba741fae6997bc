package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bbyours/attendance-server/dao"
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/performance"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/services/audit"
	"github.com/bbyours/attendance-server/util"
)

// useInventory records a draw of stock by the caller at the current selling
// price. Only employees who are clocked in may draw, and the stock decrement
// is guarded so two racing draws cannot take the shelf negative.
func (h AppServer) useInventory(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	beganAt := h.Tracker.BeginTime(performance.InventoryCounter)
	defer h.Tracker.EndTime(performance.InventoryCounter, beganAt, performance.SizeJob(1))

	caller, ok := CallerFromContext(ctx)
	if !ok {
		return NewAppError(500, errors.New("Could not get caller from context"), "Invalid caller.")
	}
	gem, _ := GEMFromContext(ctx)
	gem.Action = "create"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventCreate")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "CREATE")
	d := DAOFromContext(ctx)

	if !util.IsApplicationJSON(r.Header.Get("Content-Type")) {
		herr := NewAppError(400, nil, "Expected header Content-Type: application/json")
		h.publishError(gem, herr)
		return herr
	}
	var request protocol.UseInventoryRequest
	if err := util.FullDecode(r.Body, &request); err != nil {
		herr := NewAppError(400, err, "Could not parse inventory request")
		h.publishError(gem, herr)
		return herr
	}
	if len(request.Item) == 0 {
		herr := NewAppError(400, nil, "Item is required")
		h.publishError(gem, herr)
		return herr
	}
	if request.Quantity < models.MinUseQuantity || request.Quantity > models.MaxUseQuantity {
		herr := NewAppError(400, nil, fmt.Sprintf("Quantity must be between %d and %d", models.MinUseQuantity, models.MaxUseQuantity))
		h.publishError(gem, herr)
		return herr
	}

	// Draws are tied to presence. No attendance row today, no draw.
	today := util.DateString(time.Now())
	attendance, err := d.GetAttendanceForDate(caller.ID, today)
	if err != nil {
		if err.Error() == sql.ErrNoRows.Error() {
			herr := NewAppError(409, nil, "Must be clocked in")
			h.publishError(gem, herr)
			return herr
		}
		herr := NewAppError(500, err, "Error checking attendance")
		h.publishError(gem, herr)
		return herr
	}
	if !attendance.ClockIn.Valid {
		herr := NewAppError(409, nil, "Must be clocked in")
		h.publishError(gem, herr)
		return herr
	}

	item, err := d.GetInventoryItemByProduct(request.Item)
	if err != nil {
		if err.Error() == sql.ErrNoRows.Error() {
			herr := NewAppError(404, nil, "No such product")
			h.publishError(gem, herr)
			return herr
		}
		herr := NewAppError(500, err, "Error loading product")
		h.publishError(gem, herr)
		return herr
	}

	transaction := models.ATInventoryTransaction{
		EmployeeID: caller.ID,
		ItemID:     item.ID,
		Quantity:   request.Quantity,
	}
	transaction.CreatedBy = caller.EmployeeCode
	created, err := d.CreateInventoryTransaction(&transaction)
	if err != nil {
		if err == dao.ErrStockInsufficient {
			herr := NewAppError(409, err, "Not enough stock for that quantity")
			h.publishError(gem, herr)
			return herr
		}
		herr := NewAppError(500, err, "Error recording inventory use")
		h.publishError(gem, herr)
		return herr
	}

	gem.Payload.ObjectID = created.ID
	h.publishSuccess(gem, w)
	jsonResponse(w, protocol.UseInventoryResponse{
		TransactionID: created.ID,
		Item:          created.Product,
		Quantity:      created.Quantity,
		UnitPrice:     created.UnitPrice,
		Total:         created.TotalPrice,
	})
	return nil
}
