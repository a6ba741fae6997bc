package session

import (
	"context"
	"sync"
	"time"

	"github.com/karlseguin/ccache"
)

// CacheStore keeps sessions in process memory. It is the fallback when no
// valkey server is configured and suits a single node deployment.
type CacheStore struct {
	cache   *ccache.Cache
	idleTTL time.Duration
	otpTTL  time.Duration
	otpMu   sync.Mutex
}

// NewCacheStore returns an in memory Store with the given idle and one time
// code lifetimes in seconds.
func NewCacheStore(idleTTL, otpTTL int64) *CacheStore {
	return &CacheStore{
		cache:   ccache.New(ccache.Configure().MaxSize(10000).ItemsToPrune(100)),
		idleTTL: time.Duration(idleTTL) * time.Second,
		otpTTL:  time.Duration(otpTTL) * time.Second,
	}
}

// Put stores a session with the idle lifetime.
func (s *CacheStore) Put(ctx context.Context, sess Session) error {
	s.cache.Set(sessionKey(sess.Token), sess, s.idleTTL)
	return nil
}

// Get returns the session for a token. The idle clock is not advanced.
func (s *CacheStore) Get(ctx context.Context, token string) (Session, error) {
	item := s.cache.Get(sessionKey(token))
	if item == nil || item.Expired() {
		return Session{}, ErrNotFound
	}
	sess, ok := item.Value().(Session)
	if !ok {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Touch marks the session active now and restarts its idle lifetime.
func (s *CacheStore) Touch(ctx context.Context, token string) error {
	sess, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	sess.LastActive = time.Now()
	return s.Put(ctx, sess)
}

// Delete removes a session.
func (s *CacheStore) Delete(ctx context.Context, token string) error {
	s.cache.Delete(sessionKey(token))
	return nil
}

// PutOTP stores a one time code, replacing any pending code for the same
// employee and purpose.
func (s *CacheStore) PutOTP(ctx context.Context, o OTP) error {
	s.cache.Set(otpKey(o.EmployeeID, o.Purpose), o, s.otpTTL)
	return nil
}

// TakeOTP consumes the pending code, then validates it. The mutex makes the
// get and delete one step, so a code can be taken once even when two
// redemptions race; a mismatched attempt also burns the code, same as the
// valkey store.
func (s *CacheStore) TakeOTP(ctx context.Context, employeeID, purpose, code string) error {
	s.otpMu.Lock()
	defer s.otpMu.Unlock()
	key := otpKey(employeeID, purpose)
	item := s.cache.Get(key)
	if item == nil || item.Expired() {
		return ErrOTPInvalid
	}
	s.cache.Delete(key)
	o, ok := item.Value().(OTP)
	if !ok || o.Code != code {
		return ErrOTPInvalid
	}
	return nil
}
