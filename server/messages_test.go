package server_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bbyours/attendance-server/dao"
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/protocol"
)

// cannedMessage returns a delivered message the fake DAO can hand back.
func cannedMessage(sender, recipient models.ATEmployee, messageType string) models.ATMessage {
	message := models.ATMessage{
		SenderID:      sender.ID,
		RecipientID:   recipient.ID,
		MessageType:   messageType,
		Content:       "The west loading dock is closed until Friday",
		Status:        models.MessageStatusUnread,
		SenderName:    sender.Name,
		RecipientName: recipient.Name,
	}
	message.ATID = models.NewATID()
	message.CreatedDate = time.Now()
	message.CreatedBy = sender.EmployeeCode
	return message
}

// An employee's message lands with the admin no matter what recipient the
// request names.
func TestSendMessageFromEmployeeReachesAdmin(t *testing.T) {
	worker, admin := setupFakeEmployees()
	delivered := cannedMessage(worker, admin, "QUESTION")

	fake := dao.FakeDAO{
		Employee:      worker,
		AdminEmployee: admin,
		Messages:      []models.ATMessage{delivered},
	}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("POST", mountPoint+"/api/messages",
		bytes.NewBufferString(`{"recipient": "SOMEBODY-ELSE", "messageType": "QUESTION", "content": "When is the dock reopening?"}`))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %v", w.Code)
	}
	var resp protocol.SendMessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Errorf("Could not decode send response: %s", err)
	}
	if resp.MessageID != delivered.ID || resp.Delivered != 1 {
		t.Errorf("Expected one delivered copy: %+v", resp)
	}
}

func TestSendMessageRejectsTypeOutsideRole(t *testing.T) {
	worker, admin := setupFakeEmployees()
	fake := dao.FakeDAO{Employee: worker, AdminEmployee: admin}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	// ANNOUNCEMENT belongs to the admin palette.
	r, err := http.NewRequest("POST", mountPoint+"/api/messages",
		bytes.NewBufferString(`{"messageType": "ANNOUNCEMENT", "content": "hello"}`))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a type outside the role, got %v", w.Code)
	}
}

func TestSendMessageRequiresContent(t *testing.T) {
	worker, admin := setupFakeEmployees()
	fake := dao.FakeDAO{Employee: worker, AdminEmployee: admin}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("POST", mountPoint+"/api/messages",
		bytes.NewBufferString(`{"messageType": "GENERAL", "content": "   "}`))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for blank content, got %v", w.Code)
	}
}

// A broadcast reports one delivered copy per active employee.
func TestSendMessageBroadcastFromAdmin(t *testing.T) {
	worker, admin := setupFakeEmployees()

	first := cannedMessage(admin, worker, "ANNOUNCEMENT")
	second := cannedMessage(admin, worker, "ANNOUNCEMENT")
	third := cannedMessage(admin, worker, "ANNOUNCEMENT")

	fake := dao.FakeDAO{
		Employee: admin,
		Messages: []models.ATMessage{first, second, third},
	}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, admin)

	r, err := http.NewRequest("POST", mountPoint+"/api/messages",
		bytes.NewBufferString(`{"recipient": "ALL EMPLOYEES", "messageType": "ANNOUNCEMENT", "content": "Fire drill at noon"}`))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %v", w.Code)
	}
	var resp protocol.SendMessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Errorf("Could not decode send response: %s", err)
	}
	if resp.Delivered != 3 {
		t.Errorf("Expected a copy per recipient, got %d", resp.Delivered)
	}
	if resp.MessageID != first.ID {
		t.Errorf("Expected the first delivered copy to be reported: %+v", resp)
	}
}

func TestSendMessageToUnknownEmployee(t *testing.T) {
	_, admin := setupFakeEmployees()
	fake := dao.FakeDAO{Err: sql.ErrNoRows}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, admin)

	r, err := http.NewRequest("POST", mountPoint+"/api/messages",
		bytes.NewBufferString(`{"recipient": "GHOST404", "messageType": "GENERAL", "content": "hello"}`))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown recipient, got %v", w.Code)
	}
}

func TestGetMessagesListsInbox(t *testing.T) {
	worker, admin := setupFakeEmployees()

	inbox := models.ATMessageResultset{
		Messages: []models.ATMessage{cannedMessage(admin, worker, "GENERAL")},
	}
	inbox.TotalRows = 1
	inbox.PageCount = 1
	inbox.PageNumber = 1
	inbox.PageSize = 20
	inbox.PageRows = 1

	fake := dao.FakeDAO{Employee: worker, MessageResultset: inbox}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("GET", mountPoint+"/api/messages?pageNumber=1&pageSize=20", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("Expected OK, got %v", w.Code)
	}
	var resp protocol.MessageResultset
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Errorf("Could not decode inbox: %s", err)
	}
	if resp.TotalRows != 1 || len(resp.Messages) != 1 {
		t.Errorf("Expected the one message on file: %+v", resp)
	}
	if resp.Messages[0].Sender != admin.Name {
		t.Errorf("Expected the sender's display name, got %q", resp.Messages[0].Sender)
	}
}

func TestMarkMessageRead(t *testing.T) {
	worker, admin := setupFakeEmployees()

	read := cannedMessage(admin, worker, "GENERAL")
	read.Status = models.MessageStatusRead
	read.ReadDate = models.ToNullTime(time.Now())

	fake := dao.FakeDAO{Employee: worker, Message: read}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	r, err := http.NewRequest("POST", mountPoint+"/api/messages/"+read.ID+"/read", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("Expected OK, got %v", w.Code)
	}
	var resp protocol.Message
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Errorf("Could not decode message: %s", err)
	}
	if resp.Status != models.MessageStatusRead || len(resp.ReadDate) == 0 {
		t.Errorf("Expected the read receipt to be reflected: %+v", resp)
	}
}

// Only the recipient can mark a message read. The row scoped update finds
// nothing for anyone else.
func TestMarkMessageReadWrongRecipient(t *testing.T) {
	worker, _ := setupFakeEmployees()
	fake := dao.FakeDAO{Employee: worker, Err: sql.ErrNoRows}
	s := NewFakeServerWithDAOEmployees(&fake)
	token := signIn(s, worker)

	messageID := models.NewATID().ID
	r, err := http.NewRequest("POST", mountPoint+"/api/messages/"+messageID+"/read", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("X-Session-Token", token)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for a non recipient, got %v", w.Code)
	}
}
