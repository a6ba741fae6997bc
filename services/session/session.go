package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// OTP purposes. One pending code is held per employee and purpose.
const (
	PurposeEarlyClockIn = "EARLYCLOCKIN"
	PurposeOvertime     = "OVERTIME"
)

// ErrNotFound is returned when a session token is unknown or has idled out.
var ErrNotFound = errors.New("session not found or expired")

// ErrOTPInvalid is returned when a one time code is wrong, expired, or
// already used.
var ErrOTPInvalid = errors.New("one time code is not valid")

// Session is the server side state for a logged in employee.
type Session struct {
	Token        string    `json:"token"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeCode string    `json:"employeeCode"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	LoginTime    time.Time `json:"loginTime"`
	LastActive   time.Time `json:"lastActive"`
}

// OTP is a single use code mailed to an employee to authorize an attendance
// exception request.
type OTP struct {
	EmployeeID string `json:"employeeId"`
	Purpose    string `json:"purpose"`
	Code       string `json:"code"`
}

// Store holds sessions and one time codes with a sliding idle timeout.
// Implementations are safe for concurrent use.
type Store interface {
	Put(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (Session, error)
	Touch(ctx context.Context, token string) error
	Delete(ctx context.Context, token string) error
	PutOTP(ctx context.Context, o OTP) error
	TakeOTP(ctx context.Context, employeeID, purpose, code string) error
}

// GenerateCode returns a random 6 digit one time code.
func GenerateCode() string {
	n, _ := rand.Int(rand.Reader, big.NewInt(1000000))
	return fmt.Sprintf("%06d", n.Int64())
}

func sessionKey(token string) string {
	return "session/" + token
}

func otpKey(employeeID, purpose string) string {
	return "otp/" + employeeID + "/" + purpose
}
