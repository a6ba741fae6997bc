package client_test

import (
	"database/sql"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bbyours/attendance-server/client"
	"github.com/bbyours/attendance-server/config"
	"github.com/bbyours/attendance-server/dao"
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/performance"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/server"
	"github.com/bbyours/attendance-server/services/alert"
	"github.com/bbyours/attendance-server/services/kafka"
	"github.com/bbyours/attendance-server/services/mail"
	"github.com/bbyours/attendance-server/services/session"
	"github.com/bbyours/attendance-server/util"
)

const mountPoint = "/attendance"
const testPassword = "Sunny12Days!"

// newTestClient stands up a full server over canned DAO responses and points
// a Client at it over real HTTP. The returned closer tears the server down.
func newTestClient(t *testing.T, fake *dao.FakeDAO) (*client.Client, func()) {
	t.Helper()
	s := &server.AppServer{
		RootDAO:       fake,
		ServicePrefix: mountPoint,
		SessionStore:  session.NewCacheStore(600, 300),
		Mailer:        &mail.LogMailer{Logger: config.RootLogger, From: "attendance@attendance.test"},
		Alerter:       &alert.NoopAlerter{},
		EventQueue:    kafka.NewFakeAsyncProducer(nil),
		Tracker:       performance.NewJobReporters(1024),
	}
	s.InitRegex()
	ts := httptest.NewServer(s)
	c, err := client.NewClient(client.Config{Remote: ts.URL + mountPoint})
	if err != nil {
		ts.Close()
		t.Fatalf("Could not create client: %v", err)
	}
	return c, ts.Close
}

// fakeWorker builds an employee whose password matches testPassword and
// whose shift brackets the current minute, so clock actions land inside
// their windows.
func fakeWorker() models.ATEmployee {
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		log.Printf("Could not hash test password: %v", err)
	}
	now := time.Now()
	worker := models.ATEmployee{
		EmployeeCode: "EMP1001",
		Name:         "Worker One",
		Email:        models.ToNullString("worker.one@attendance.test"),
		Role:         models.RoleEmployee,
		PasswordHash: string(hash),
		ShiftStart:   now.Format(util.ShiftFormat),
		ShiftEnd:     now.Format(util.ShiftFormat),
		BasicSalary:  52000,
		IsActive:     true,
	}
	worker.ATID = models.NewATID()
	return worker
}

func fakeAdmin() models.ATEmployee {
	admin := fakeWorker()
	admin.EmployeeCode = "ADM9001"
	admin.Name = "Admin One"
	admin.Role = models.RoleAdmin
	return admin
}

func TestLoginRejectsBadPassword(t *testing.T) {
	fake := dao.FakeDAO{Employee: fakeWorker()}
	c, done := newTestClient(t, &fake)
	defer done()

	_, err := c.Login("EMP1001", "wrong password")
	if err == nil {
		t.Fatal("Expected login to fail")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("Expected a 401, got %v", err)
	}
	if c.SessionToken() != "" {
		t.Errorf("Expected no token retained after a failed login")
	}
}

func TestLoginThenClockIn(t *testing.T) {
	worker := fakeWorker()
	stamped := models.ATAttendance{
		EmployeeID:     worker.ID,
		AttendanceDate: util.DateString(time.Now()),
		ClockIn:        models.ToNullTime(time.Now()),
		Status:         models.AttendanceStatusPresent,
	}
	stamped.ATID = models.NewATID()

	fake := dao.FakeDAO{
		Employee:      worker,
		Attendance:    stamped,
		AttendanceErr: sql.ErrNoRows,
	}
	c, done := newTestClient(t, &fake)
	defer done()

	who, err := c.Login("EMP1001", testPassword)
	if err != nil {
		t.Fatalf("Could not log in: %v", err)
	}
	if who.EmployeeName != worker.Name {
		t.Errorf("Expected name %s, got %s", worker.Name, who.EmployeeName)
	}
	if c.SessionToken() == "" {
		t.Fatal("Expected a retained session token")
	}

	resp, err := c.ClockIn()
	if err != nil {
		t.Fatalf("Could not clock in: %v", err)
	}
	if resp.Status != models.AttendanceStatusPresent {
		t.Errorf("Expected status %s, got %s", models.AttendanceStatusPresent, resp.Status)
	}
	if len(resp.ClockInTime) == 0 {
		t.Errorf("Expected a recorded clock in time")
	}
}

func TestClockInOutsideWindowSurfacesApproval(t *testing.T) {
	worker := fakeWorker()
	// Push the shift two hours out so the early window cannot cover it. The
	// gap only holds within a single calendar day.
	shift := time.Now().Add(2 * time.Hour)
	if shift.Day() != time.Now().Day() {
		t.Skip("too close to midnight for a stable shift gap")
	}
	worker.ShiftStart = shift.Format(util.ShiftFormat)

	fake := dao.FakeDAO{
		Employee:      worker,
		AttendanceErr: sql.ErrNoRows,
	}
	c, done := newTestClient(t, &fake)
	defer done()

	if _, err := c.Login("EMP1001", testPassword); err != nil {
		t.Fatalf("Could not log in: %v", err)
	}

	_, err := c.ClockIn()
	if err == nil {
		t.Fatal("Expected clock in to be refused")
	}
	required, ok := err.(*client.ApprovalRequiredError)
	if !ok {
		t.Fatalf("Expected ApprovalRequiredError, got %v", err)
	}
	if !required.Detail.RequiresApproval {
		t.Errorf("Expected the refusal to point at the exception flow")
	}
	if required.Detail.MinutesEarly <= models.EarlyClockInWindowMinutes {
		t.Errorf("Expected more than %d minutes early, got %d",
			models.EarlyClockInWindowMinutes, required.Detail.MinutesEarly)
	}
}

func TestExceptionPasscodeFlow(t *testing.T) {
	worker := fakeWorker()
	queued := models.ATApprovalRequest{
		RequestType: models.ApprovalTypeEarlyClockIn,
		EmployeeID:  worker.ID,
		RequestDate: util.DateString(time.Now()),
		Status:      models.ApprovalStatusPending,
	}
	queued.ATID = models.NewATID()

	fake := dao.FakeDAO{
		Employee:        worker,
		ApprovalRequest: queued,
	}
	c, done := newTestClient(t, &fake)
	defer done()

	if _, err := c.Login("EMP1001", testPassword); err != nil {
		t.Fatalf("Could not log in: %v", err)
	}

	first, err := c.RequestEarlyClockIn(protocol.ExceptionRequest{})
	if err != nil {
		t.Fatalf("Could not request a passcode: %v", err)
	}
	if !first.OTPSent {
		t.Fatal("Expected the first submission to mail a passcode")
	}

	// A wrong passcode must not queue anything. Generated codes are six
	// digits, so this value can never collide.
	_, err = c.RequestEarlyClockIn(protocol.ExceptionRequest{OTP: "not-a-code"})
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("Expected a 401 for a bad passcode, got %v", err)
	}
}

func TestGetInventoryAndUse(t *testing.T) {
	worker := fakeWorker()
	item := models.ATInventoryItem{
		Product:      "Coffee Beans 1kg",
		SellingPrice: 5.50,
		Stock:        40,
	}
	item.ATID = models.NewATID()
	clockedIn := models.ATAttendance{
		EmployeeID:     worker.ID,
		AttendanceDate: util.DateString(time.Now()),
		ClockIn:        models.ToNullTime(time.Now()),
		Status:         models.AttendanceStatusPresent,
	}
	clockedIn.ATID = models.NewATID()
	draw := models.ATInventoryTransaction{
		EmployeeID: worker.ID,
		ItemID:     item.ID,
		Product:    item.Product,
		Quantity:   2,
		UnitPrice:  5.50,
		TotalPrice: 11.00,
	}
	draw.ATID = models.NewATID()

	fake := dao.FakeDAO{
		Employee:             worker,
		Attendance:           clockedIn,
		InventoryItems:       []models.ATInventoryItem{item},
		InventoryItem:        item,
		InventoryTransaction: draw,
	}
	c, done := newTestClient(t, &fake)
	defer done()

	if _, err := c.Login("EMP1001", testPassword); err != nil {
		t.Fatalf("Could not log in: %v", err)
	}

	listed, err := c.GetInventory(protocol.PagingRequest{})
	if err != nil {
		t.Fatalf("Could not list inventory: %v", err)
	}
	if listed.TotalRows != 1 || len(listed.Items) != 1 {
		t.Fatalf("Expected one stocked item, got %d", listed.TotalRows)
	}
	if listed.Items[0].Product != item.Product {
		t.Errorf("Expected product %s, got %s", item.Product, listed.Items[0].Product)
	}

	used, err := c.UseInventory(protocol.UseInventoryRequest{Item: item.Product, Quantity: 2})
	if err != nil {
		t.Fatalf("Could not draw stock: %v", err)
	}
	if used.TransactionID != draw.ID {
		t.Errorf("Expected transaction %s, got %s", draw.ID, used.TransactionID)
	}
	if used.Total != 11.00 {
		t.Errorf("Expected total 11.00, got %v", used.Total)
	}

	// Quantity bounds are enforced before any lookup.
	_, err = c.UseInventory(protocol.UseInventoryRequest{Item: item.Product, Quantity: 51})
	if err == nil || !strings.Contains(err.Error(), "400") {
		t.Errorf("Expected a 400 for an oversized draw, got %v", err)
	}
}

func TestMessagesRoundTrip(t *testing.T) {
	worker := fakeWorker()
	admin := fakeAdmin()
	note := models.ATMessage{
		SenderID:    worker.ID,
		RecipientID: admin.ID,
		MessageType: "GENERAL",
		Content:     "Requesting Friday off",
		Status:      models.MessageStatusUnread,
	}
	note.ATID = models.NewATID()

	resultset := models.ATMessageResultset{Messages: []models.ATMessage{note}}
	resultset.TotalRows = 1
	resultset.PageCount = 1
	resultset.PageNumber = 1
	resultset.PageSize = 20
	resultset.PageRows = 1

	read := note
	read.Status = models.MessageStatusRead
	read.ReadDate = models.ToNullTime(time.Now())

	fake := dao.FakeDAO{
		Employee:         worker,
		AdminEmployee:    admin,
		Messages:         []models.ATMessage{note},
		MessageResultset: resultset,
		Message:          read,
	}
	c, done := newTestClient(t, &fake)
	defer done()

	if _, err := c.Login("EMP1001", testPassword); err != nil {
		t.Fatalf("Could not log in: %v", err)
	}

	sent, err := c.SendMessage(protocol.SendMessageRequest{
		MessageType: "GENERAL",
		Content:     "Requesting Friday off",
	})
	if err != nil {
		t.Fatalf("Could not send message: %v", err)
	}
	if sent.Delivered != 1 {
		t.Errorf("Expected one delivery, got %d", sent.Delivered)
	}
	if sent.MessageID != note.ID {
		t.Errorf("Expected message id %s, got %s", note.ID, sent.MessageID)
	}

	inbox, err := c.GetMessages(protocol.PagingRequest{PageNumber: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("Could not list messages: %v", err)
	}
	if inbox.TotalRows != 1 || len(inbox.Messages) != 1 {
		t.Fatalf("Expected one message, got %d", inbox.TotalRows)
	}

	marked, err := c.MarkMessageRead(note.ID)
	if err != nil {
		t.Fatalf("Could not mark message read: %v", err)
	}
	if marked.Status != models.MessageStatusRead {
		t.Errorf("Expected status %s, got %s", models.MessageStatusRead, marked.Status)
	}
}

func TestAdminReviewFlow(t *testing.T) {
	admin := fakeAdmin()
	pending := models.ATApprovalRequest{
		RequestType: models.ApprovalTypeOvertime,
		EmployeeID:  "worker-id",
		RequestDate: util.DateString(time.Now()),
		Status:      models.ApprovalStatusApproved,
		ProcessedBy: models.ToNullString(admin.EmployeeCode),
	}
	pending.ATID = models.NewATID()

	accountPage := models.ATEmployeeResultset{Employees: []models.ATEmployee{admin}}
	accountPage.TotalRows = 1
	accountPage.PageCount = 1
	accountPage.PageNumber = 1
	accountPage.PageSize = 20
	accountPage.PageRows = 1

	fake := dao.FakeDAO{
		Employee:          admin,
		ActiveCount:       4,
		ClockedInCount:    3,
		PendingCount:      1,
		UnreadCount:       2,
		ApprovalRequest:   pending,
		AdminEmployee:     admin,
		Messages:          []models.ATMessage{{}},
		SecurityLogs:      []models.ATSecurityLog{{Action: "LOGIN", Status: models.LogStatusSuccess}},
		EmployeeResultset: accountPage,
	}
	c, done := newTestClient(t, &fake)
	defer done()

	if _, err := c.Login("ADM9001", testPassword); err != nil {
		t.Fatalf("Could not log in: %v", err)
	}

	board, err := c.Dashboard()
	if err != nil {
		t.Fatalf("Could not load dashboard: %v", err)
	}
	if board.TotalEmployees != 4 || board.ClockedInToday != 3 {
		t.Errorf("Unexpected dashboard counts: %+v", board)
	}

	decided, err := c.ProcessApproval(pending.ID, true)
	if err != nil {
		t.Fatalf("Could not decide approval: %v", err)
	}
	if decided.ApprovalID != pending.ID {
		t.Errorf("Expected approval %s, got %s", pending.ID, decided.ApprovalID)
	}
	if decided.ProcessedBy != admin.Name {
		t.Errorf("Expected decision by %s, got %s", admin.Name, decided.ProcessedBy)
	}

	accounts, err := c.ListEmployees(protocol.PagingRequest{})
	if err != nil {
		t.Fatalf("Could not list employees: %v", err)
	}
	if accounts.TotalRows != 1 {
		t.Errorf("Expected one account, got %d", accounts.TotalRows)
	}

	logs, err := c.RecentLogs(10)
	if err != nil {
		t.Fatalf("Could not list logs: %v", err)
	}
	if len(logs.Logs) != 1 {
		t.Errorf("Expected one log entry, got %d", len(logs.Logs))
	}
}

func TestAdminAreaDeniedToEmployees(t *testing.T) {
	fake := dao.FakeDAO{Employee: fakeWorker()}
	c, done := newTestClient(t, &fake)
	defer done()

	if _, err := c.Login("EMP1001", testPassword); err != nil {
		t.Fatalf("Could not log in: %v", err)
	}

	_, err := c.Dashboard()
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Errorf("Expected a 403 from the admin area, got %v", err)
	}
}

func TestLogoutForgetsSession(t *testing.T) {
	fake := dao.FakeDAO{Employee: fakeWorker()}
	c, done := newTestClient(t, &fake)
	defer done()

	if _, err := c.Login("EMP1001", testPassword); err != nil {
		t.Fatalf("Could not log in: %v", err)
	}
	if err := c.Logout(); err != nil {
		t.Fatalf("Could not log out: %v", err)
	}
	if c.SessionToken() != "" {
		t.Errorf("Expected the token to be forgotten")
	}
	if _, err := c.CheckSession(); err == nil {
		t.Errorf("Expected the discarded session to be rejected")
	}
}

func TestPing(t *testing.T) {
	fake := dao.FakeDAO{}
	c, done := newTestClient(t, &fake)
	defer done()

	up, err := c.Ping()
	if err != nil {
		t.Fatalf("Could not ping: %v", err)
	}
	if !up {
		t.Errorf("Expected the server to report up")
	}
}
