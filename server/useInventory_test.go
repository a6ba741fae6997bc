package server_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bbyours/attendance-server/dao"
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/protocol"
)

func TestUseInventoryRecordsDraw(t *testing.T) {
	worker, _ := setupFakeEmployees()

	item := models.ATInventoryItem{Product: "Safety Helmet", SellingPrice: 12.5, Stock: 40}
	item.ATID = models.NewATID()
	draw := models.ATInventoryTransaction{
		EmployeeID: worker.ID,
		ItemID:     item.ID,
		Product:    item.Product,
		Quantity:   2,
		UnitPrice:  12.5,
		TotalPrice: 25,
	}
	draw.ATID = models.NewATID()

	fake := dao.FakeDAO{
		Employee:             worker,
		Attendance:           openAttendance(worker),
		InventoryItem:        item,
		InventoryTransaction: draw,
	}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("POST", mountPoint+"/api/inventory/use",
		bytes.NewBufferString(`{"item": "Safety Helmet", "quantity": 2}`))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("Expected OK, got %v", w.Code)
	}
	var resp protocol.UseInventoryResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Errorf("Could not decode inventory response: %s", err)
	}
	if resp.TransactionID != draw.ID {
		t.Errorf("Expected the recorded transaction id, got %q", resp.TransactionID)
	}
	if resp.Quantity != 2 || resp.Total != 25 {
		t.Errorf("Response does not reflect the draw: %+v", resp)
	}
}

func TestUseInventoryRequiresClockIn(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{
		Employee:      worker,
		AttendanceErr: sql.ErrNoRows,
	}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("POST", mountPoint+"/api/inventory/use",
		bytes.NewBufferString(`{"item": "Safety Helmet", "quantity": 2}`))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 when not clocked in, got %v", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Must be clocked in") {
		t.Errorf("Expected the conflict to explain itself: %s", w.Body.String())
	}
}

func TestUseInventoryQuantityBounds(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{
		Employee:   worker,
		Attendance: openAttendance(worker),
	}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	for _, quantity := range []int{0, models.MaxUseQuantity + 1, -3} {
		body := fmt.Sprintf(`{"item": "Safety Helmet", "quantity": %d}`, quantity)
		r, err := http.NewRequest("POST", mountPoint+"/api/inventory/use", bytes.NewBufferString(body))
		if err != nil {
			t.Fatal(err)
		}
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("X-Session-Token", token)
		w := httptest.NewRecorder()
		s.ServeHTTP(w, r)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for quantity %d, got %v", quantity, w.Code)
		}
	}
}

func TestUseInventoryUnknownProduct(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{
		Employee:   worker,
		Attendance: openAttendance(worker),
		Err:        sql.ErrNoRows,
	}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("POST", mountPoint+"/api/inventory/use",
		bytes.NewBufferString(`{"item": "Unobtainium", "quantity": 1}`))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown product, got %v", w.Code)
	}
}

func TestUseInventoryInsufficientStock(t *testing.T) {
	worker, _ := setupFakeEmployees()

	item := models.ATInventoryItem{Product: "Safety Helmet", SellingPrice: 12.5, Stock: 1}
	item.ATID = models.NewATID()

	fake := dao.FakeDAO{
		Employee:       worker,
		Attendance:     openAttendance(worker),
		InventoryItem:  item,
		TransactionErr: dao.ErrStockInsufficient,
	}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("POST", mountPoint+"/api/inventory/use",
		bytes.NewBufferString(`{"item": "Safety Helmet", "quantity": 30}`))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 when stock runs short, got %v", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Not enough stock") {
		t.Errorf("Expected the conflict to explain itself: %s", w.Body.String())
	}
}

func TestGetInventoryListsCatalog(t *testing.T) {
	worker, _ := setupFakeEmployees()

	helmet := models.ATInventoryItem{Product: "Safety Helmet", SellingPrice: 12.5, Stock: 40}
	helmet.ATID = models.NewATID()
	gloves := models.ATInventoryItem{Product: "Work Gloves", SellingPrice: 4.75, Stock: 180}
	gloves.ATID = models.NewATID()

	fake := dao.FakeDAO{
		Employee:       worker,
		InventoryItems: []models.ATInventoryItem{helmet, gloves},
	}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("GET", mountPoint+"/api/inventory", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("Expected OK, got %v", w.Code)
	}
	var resp protocol.InventoryResultset
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Errorf("Could not decode inventory listing: %s", err)
	}
	if resp.TotalRows != 2 || len(resp.Items) != 2 {
		t.Errorf("Expected both items in the listing: %+v", resp)
	}
	if resp.Items[0].Product != "Safety Helmet" || resp.Items[0].Stock != 40 {
		t.Errorf("Listing does not reflect the stock on hand: %+v", resp.Items[0])
	}
}

func TestUseInventoryRequiresJSONContentType(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{
		Employee:   worker,
		Attendance: openAttendance(worker),
	}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("POST", mountPoint+"/api/inventory/use",
		bytes.NewBufferString(`{"item": "Safety Helmet", "quantity": 2}`))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "text/plain")
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a non JSON body, got %v", w.Code)
	}
}
