package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"
	"go.uber.org/zap"
)

// ValkeyStore keeps sessions in a valkey server so that they survive a
// process restart and are shared between nodes.
type ValkeyStore struct {
	client  valkey.Client
	logger  *zap.Logger
	idleTTL int64
	otpTTL  int64
}

// NewValkeyStore connects to the valkey server at addr and returns a Store
// with the given idle and one time code lifetimes in seconds.
func NewValkeyStore(addr, password string, idleTTL, otpTTL int64, logger *zap.Logger) (*ValkeyStore, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
		Password:    password,
	})
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ValkeyStore{client: client, logger: logger, idleTTL: idleTTL, otpTTL: otpTTL}, nil
}

// Close releases the client connection.
func (s *ValkeyStore) Close() {
	s.client.Close()
}

// Put stores a session with the idle lifetime.
func (s *ValkeyStore) Put(ctx context.Context, sess Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Do(ctx, s.client.B().Set().Key(sessionKey(sess.Token)).Value(string(b)).ExSeconds(s.idleTTL).Build()).Error()
}

// Get returns the session for a token. The idle clock is not advanced.
func (s *ValkeyStore) Get(ctx context.Context, token string) (Session, error) {
	var sess Session
	resp := s.client.Do(ctx, s.client.B().Get().Key(sessionKey(token)).Build())
	b, err := resp.AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return sess, ErrNotFound
		}
		return sess, err
	}
	if err := json.Unmarshal(b, &sess); err != nil {
		return sess, err
	}
	return sess, nil
}

// Touch marks the session active now and restarts its idle lifetime.
func (s *ValkeyStore) Touch(ctx context.Context, token string) error {
	sess, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	sess.LastActive = time.Now()
	return s.Put(ctx, sess)
}

// Delete removes a session.
func (s *ValkeyStore) Delete(ctx context.Context, token string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(sessionKey(token)).Build()).Error()
}

// PutOTP stores a one time code, replacing any pending code for the same
// employee and purpose.
func (s *ValkeyStore) PutOTP(ctx context.Context, o OTP) error {
	b, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return s.client.Do(ctx, s.client.B().Set().Key(otpKey(o.EmployeeID, o.Purpose)).Value(string(b)).ExSeconds(s.otpTTL).Build()).Error()
}

// TakeOTP consumes the pending code for the employee and purpose, then
// validates it. GETDEL removes the stored code in the same command that
// reads it, so concurrent redemptions of one code cannot both succeed; a
// mismatched attempt also burns the code and the employee must request a
// new one.
func (s *ValkeyStore) TakeOTP(ctx context.Context, employeeID, purpose, code string) error {
	key := otpKey(employeeID, purpose)
	resp := s.client.Do(ctx, s.client.B().Getdel().Key(key).Build())
	b, err := resp.AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return ErrOTPInvalid
		}
		return err
	}
	var o OTP
	if err := json.Unmarshal(b, &o); err != nil {
		return err
	}
	if o.Code != code {
		return ErrOTPInvalid
	}
	return nil
}
