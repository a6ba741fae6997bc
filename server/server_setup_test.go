package server_test

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bbyours/attendance-server/config"
	"github.com/bbyours/attendance-server/dao"
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/performance"
	"github.com/bbyours/attendance-server/server"
	"github.com/bbyours/attendance-server/services/alert"
	"github.com/bbyours/attendance-server/services/kafka"
	"github.com/bbyours/attendance-server/services/mail"
	"github.com/bbyours/attendance-server/services/session"
	"github.com/bbyours/attendance-server/util"
)

// mountPoint is the base path every route hangs off, matching the default
// server configuration.
const mountPoint = "/attendance"

// testPassword is the clear password every fake account accepts.
const testPassword = "Sunny12Days!"

// setupFakeEmployees returns a worker and an admin with usable bcrypt hashes.
// The worker's shift brackets the current minute so clock operations land
// inside their windows unless a test moves the shift on purpose.
func setupFakeEmployees() (models.ATEmployee, models.ATEmployee) {
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
	worker.CreatedBy = worker.EmployeeCode

	admin := models.ATEmployee{
		EmployeeCode: "ADM9001",
		Name:         "Admin One",
		Email:        models.ToNullString("admin.one@attendance.test"),
		Role:         models.RoleAdmin,
		PasswordHash: string(hash),
		ShiftStart:   "09:00",
		ShiftEnd:     "17:00",
		BasicSalary:  76000,
		IsActive:     true,
	}
	admin.ATID = models.NewATID()
	admin.CreatedBy = admin.EmployeeCode

	return worker, admin
}

// NewFakeServerWithDAOEmployees wires an AppServer around canned DAO
// responses. Handlers see the full dependency surface of the real server
// with in process stand ins for the store, mailer, alerter, and event queue.
func NewFakeServerWithDAOEmployees(fake *dao.FakeDAO) *server.AppServer {
	s := server.AppServer{
		RootDAO:       fake,
		ServicePrefix: mountPoint,
		SessionStore:  session.NewCacheStore(600, 300),
		Mailer:        &mail.LogMailer{Logger: config.RootLogger, From: "attendance@attendance.test"},
		Alerter:       &alert.NoopAlerter{},
		EventQueue:    kafka.NewFakeAsyncProducer(nil),
		Tracker:       performance.NewJobReporters(1024),
	}
	// Panics occur if regex routes are not compiled with InitRegex()
	s.InitRegex()
	return &s
}

// signIn opens a session for the employee directly in the store and returns
// the token a client would present on later requests.
func signIn(s *server.AppServer, employee models.ATEmployee) string {
	token, err := util.NewGUID()
	if err != nil {
		log.Printf("Could not create GUID.")
	}
	now := time.Now()
	s.SessionStore.Put(context.Background(), session.Session{
		Token:        token,
		EmployeeID:   employee.ID,
		EmployeeCode: employee.EmployeeCode,
		Name:         employee.Name,
		Role:         employee.Role,
		LoginTime:    now,
		LastActive:   now,
	})
	return token
}
