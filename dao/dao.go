package dao

import (
	"fmt"
	"time"

	"github.com/bbyours/attendance-server/config"
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// SchemaVersion marks compatibility with previously created databases.
// On startup, we should be checking the schema, and raise some alarm if
// the schema is out of date, or trigger a migration, etc.
var SchemaVersion = "20240215"

// DAO defines the contract our app has with the database.
type DAO interface {
	CountActiveEmployees() (int, error)
	CountClockedInForDate(date string) (int, error)
	CountPendingApprovals() (int, error)
	CountUnreadForRecipient(recipientID string) (int, error)
	CreateApprovalRequest(request *models.ATApprovalRequest) (models.ATApprovalRequest, error)
	CreateAttendance(attendance *models.ATAttendance) (models.ATAttendance, error)
	CreateEmployee(employee *models.ATEmployee) (models.ATEmployee, error)
	CreateInventoryTransaction(transaction *models.ATInventoryTransaction) (models.ATInventoryTransaction, error)
	CreateMessage(message *models.ATMessage) ([]models.ATMessage, error)
	CreateSecurityLog(entry *models.ATSecurityLog) error
	GetAdminEmployee() (models.ATEmployee, error)
	GetAllEmployees(pagingRequest PagingRequest) (models.ATEmployeeResultset, error)
	GetApprovalByID(id string) (models.ATApprovalRequest, error)
	GetAttendanceForDate(employeeID string, date string) (models.ATAttendance, error)
	GetDBState() (models.DBState, error)
	GetEmployeeByCode(employeeCode string) (models.ATEmployee, error)
	GetEmployeeByID(id string) (models.ATEmployee, error)
	GetInventory() ([]models.ATInventoryItem, error)
	GetInventoryItemByProduct(product string) (models.ATInventoryItem, error)
	GetInventoryTransactionsForEmployee(employeeID string) ([]models.ATInventoryTransaction, error)
	GetMessagesForRecipient(recipientID string, pagingRequest PagingRequest) (models.ATMessageResultset, error)
	GetPayslip(employeeID string, period string) (models.ATPayslip, error)
	GetPayslipsForEmployee(employeeID string) ([]models.ATPayslip, error)
	GetPendingApprovals(pagingRequest PagingRequest) (models.ATApprovalRequestResultset, error)
	GetRecentSecurityLogs(limit int) ([]models.ATSecurityLog, error)
	MarkMessageRead(messageID string, recipientID string) (models.ATMessage, error)
	ProcessApproval(request *models.ATApprovalRequest, approve bool, processedBy string) (models.ATApprovalRequest, error)
	SetAttendanceClockOut(attendance *models.ATAttendance) (models.ATAttendance, error)
	SetEmployeePassword(employeeID string, passwordHash string, modifiedBy string) error
	UpdateEmployee(employee *models.ATEmployee) error
	GetLogger() *zap.Logger
}

// DataAccessLayer is a concrete DAO implementation with a true DB connection.
type DataAccessLayer struct {
	// MetadataDB is the connection.
	MetadataDB *sqlx.DB
	// Logger has a default, but can be updated by passing options to constructor.
	Logger *zap.Logger
	// DeadlockRetryCounter is how many times a transaction is restarted when
	// the database reports contention.
	DeadlockRetryCounter int64
	// DeadlockRetryDelay is the milliseconds slept between restarts.
	DeadlockRetryDelay int64
}

// Opt sets an option on DataAccessLayer.
type Opt func(*DataAccessLayer)

// WithLogger sets a custom logger on DataAccessLayer.
func WithLogger(logger *zap.Logger) Opt {
	return func(d *DataAccessLayer) {
		d.Logger = logger
	}
}

// NewDataAccessLayer constructs a new DataAccessLayer with defaults and options. A string database
// identifier is also returned.
func NewDataAccessLayer(conf config.DatabaseConfiguration, opts ...Opt) (*DataAccessLayer, string, error) {

	db, err := conf.GetDatabaseHandle()
	if err != nil {
		return nil, "", err
	}
	d := DataAccessLayer{
		MetadataDB:           db,
		DeadlockRetryCounter: conf.DeadlockRetryCounter,
		DeadlockRetryDelay:   conf.DeadlockRetryDelay,
	}

	defaults(&d)
	for _, opt := range opts {
		opt(&d)
	}

	err = pingDB(&d)
	if err != nil {
		return nil, "", fmt.Errorf("could not ping database: %v", err)
	}

	state, err := d.GetDBState()
	if err != nil {
		return nil, "", fmt.Errorf("getting db state failed: %v", err)
	}

	return &d, state.Identifier, nil
}

func defaults(d *DataAccessLayer) {
	d.Logger = config.RootLogger.With(zap.String("node", config.NodeID))
}

// GetLogger is a logger, probably for this session
func (d *DataAccessLayer) GetLogger() *zap.Logger {
	return d.Logger
}

func daoCompileCheck() DAO {
	// function exists to make compiler complain when interface changes.
	return &DataAccessLayer{}
}

func pingDB(d *DataAccessLayer) error {

	logger := d.GetLogger()

	attempts := 0
	max := 20
	sleep := 3

	var err error

	for attempts < max {

		attempts++

		err = d.MetadataDB.Ping()
		if err != nil {
			logger.Info("db sleep for retry")
			time.Sleep(time.Duration(sleep) * time.Second)
			continue
		}
		_, err = d.GetDBState()
		if err != nil {
			logger.Info("db available but schema not populated")
			time.Sleep(time.Duration(sleep) * time.Second)
			continue
		}
		break

	}
	return err
}
