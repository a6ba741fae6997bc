package dao

import (
	"go.uber.org/zap"

	"github.com/bbyours/attendance-server/config"
	"github.com/bbyours/attendance-server/metadata/models"
)

// FakeDAO is suitable for tests. Add fields to this struct to hold fake
// responses for each of the methods that FakeDAO will implement. These fake
// response fields can be explicitly set, or setup functions can be defined.
type FakeDAO struct {
	ActiveCount              int
	AdminEmployee            models.ATEmployee
	ApprovalErr              error
	ApprovalRequest          models.ATApprovalRequest
	ApprovalRequestResultset models.ATApprovalRequestResultset
	Attendance               models.ATAttendance
	AttendanceErr            error
	ClockedInCount           int
	DBState                  models.DBState
	Employee                 models.ATEmployee
	EmployeeResultset        models.ATEmployeeResultset
	Err                      error
	InventoryItem            models.ATInventoryItem
	InventoryItems           []models.ATInventoryItem
	InventoryTransaction     models.ATInventoryTransaction
	InventoryTransactions    []models.ATInventoryTransaction
	Message                  models.ATMessage
	MessageResultset         models.ATMessageResultset
	Messages                 []models.ATMessage
	Payslip                  models.ATPayslip
	Payslips                 []models.ATPayslip
	PendingCount             int
	SecurityLogs             []models.ATSecurityLog
	TransactionErr           error
	UnreadCount              int
	UpdatedAttendance        models.ATAttendance
}

// CountActiveEmployees for FakeDAO.
func (fake *FakeDAO) CountActiveEmployees() (int, error) {
	return fake.ActiveCount, fake.Err
}

// CountClockedInForDate for FakeDAO.
func (fake *FakeDAO) CountClockedInForDate(date string) (int, error) {
	return fake.ClockedInCount, fake.Err
}

// CountPendingApprovals for FakeDAO.
func (fake *FakeDAO) CountPendingApprovals() (int, error) {
	return fake.PendingCount, fake.Err
}

// CountUnreadForRecipient for FakeDAO.
func (fake *FakeDAO) CountUnreadForRecipient(recipientID string) (int, error) {
	return fake.UnreadCount, fake.Err
}

// CreateApprovalRequest for FakeDAO.
func (fake *FakeDAO) CreateApprovalRequest(request *models.ATApprovalRequest) (models.ATApprovalRequest, error) {
	return fake.ApprovalRequest, fake.ApprovalErr
}

// CreateAttendance for FakeDAO.
func (fake *FakeDAO) CreateAttendance(attendance *models.ATAttendance) (models.ATAttendance, error) {
	return fake.Attendance, fake.Err
}

// CreateEmployee for FakeDAO.
func (fake *FakeDAO) CreateEmployee(employee *models.ATEmployee) (models.ATEmployee, error) {
	return fake.Employee, fake.Err
}

// CreateInventoryTransaction for FakeDAO.
func (fake *FakeDAO) CreateInventoryTransaction(transaction *models.ATInventoryTransaction) (models.ATInventoryTransaction, error) {
	return fake.InventoryTransaction, fake.TransactionErr
}

// CreateMessage for FakeDAO.
func (fake *FakeDAO) CreateMessage(message *models.ATMessage) ([]models.ATMessage, error) {
	return fake.Messages, fake.Err
}

// CreateSecurityLog for FakeDAO.
func (fake *FakeDAO) CreateSecurityLog(entry *models.ATSecurityLog) error {
	return fake.Err
}

// GetAdminEmployee for FakeDAO.
func (fake *FakeDAO) GetAdminEmployee() (models.ATEmployee, error) {
	return fake.AdminEmployee, fake.Err
}

// GetAllEmployees for FakeDAO.
func (fake *FakeDAO) GetAllEmployees(pagingRequest PagingRequest) (models.ATEmployeeResultset, error) {
	return fake.EmployeeResultset, fake.Err
}

// GetApprovalByID for FakeDAO.
func (fake *FakeDAO) GetApprovalByID(id string) (models.ATApprovalRequest, error) {
	return fake.ApprovalRequest, fake.Err
}

// GetAttendanceForDate for FakeDAO.
func (fake *FakeDAO) GetAttendanceForDate(employeeID string, date string) (models.ATAttendance, error) {
	return fake.Attendance, fake.AttendanceErr
}

// GetDBState for FakeDAO.
func (fake *FakeDAO) GetDBState() (models.DBState, error) {
	return fake.DBState, fake.Err
}

// GetEmployeeByCode for FakeDAO.
func (fake *FakeDAO) GetEmployeeByCode(employeeCode string) (models.ATEmployee, error) {
	return fake.Employee, fake.Err
}

// GetEmployeeByID for FakeDAO.
func (fake *FakeDAO) GetEmployeeByID(id string) (models.ATEmployee, error) {
	return fake.Employee, fake.Err
}

// GetInventory for FakeDAO.
func (fake *FakeDAO) GetInventory() ([]models.ATInventoryItem, error) {
	return fake.InventoryItems, fake.Err
}

// GetInventoryItemByProduct for FakeDAO.
func (fake *FakeDAO) GetInventoryItemByProduct(product string) (models.ATInventoryItem, error) {
	return fake.InventoryItem, fake.Err
}

// GetInventoryTransactionsForEmployee for FakeDAO.
func (fake *FakeDAO) GetInventoryTransactionsForEmployee(employeeID string) ([]models.ATInventoryTransaction, error) {
	return fake.InventoryTransactions, fake.Err
}

// GetLogger for FakeDAO.
func (fake *FakeDAO) GetLogger() *zap.Logger {
	return config.RootLogger
}

// GetMessagesForRecipient for FakeDAO.
func (fake *FakeDAO) GetMessagesForRecipient(recipientID string, pagingRequest PagingRequest) (models.ATMessageResultset, error) {
	return fake.MessageResultset, fake.Err
}

// GetPayslip for FakeDAO.
func (fake *FakeDAO) GetPayslip(employeeID string, period string) (models.ATPayslip, error) {
	return fake.Payslip, fake.Err
}

// GetPayslipsForEmployee for FakeDAO.
func (fake *FakeDAO) GetPayslipsForEmployee(employeeID string) ([]models.ATPayslip, error) {
	return fake.Payslips, fake.Err
}

// GetPendingApprovals for FakeDAO.
func (fake *FakeDAO) GetPendingApprovals(pagingRequest PagingRequest) (models.ATApprovalRequestResultset, error) {
	return fake.ApprovalRequestResultset, fake.Err
}

// GetRecentSecurityLogs for FakeDAO.
func (fake *FakeDAO) GetRecentSecurityLogs(limit int) ([]models.ATSecurityLog, error) {
	return fake.SecurityLogs, fake.Err
}

// MarkMessageRead for FakeDAO.
func (fake *FakeDAO) MarkMessageRead(messageID string, recipientID string) (models.ATMessage, error) {
	return fake.Message, fake.Err
}

// ProcessApproval for FakeDAO.
func (fake *FakeDAO) ProcessApproval(request *models.ATApprovalRequest, approve bool, processedBy string) (models.ATApprovalRequest, error) {
	return fake.ApprovalRequest, fake.Err
}

// SetAttendanceClockOut for FakeDAO.
func (fake *FakeDAO) SetAttendanceClockOut(attendance *models.ATAttendance) (models.ATAttendance, error) {
	return fake.UpdatedAttendance, fake.Err
}

// SetEmployeePassword for FakeDAO.
func (fake *FakeDAO) SetEmployeePassword(employeeID string, passwordHash string, modifiedBy string) error {
	return fake.Err
}

// UpdateEmployee for FakeDAO.
func (fake *FakeDAO) UpdateEmployee(employee *models.ATEmployee) error {
	return fake.Err
}
