package repository

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

// VerifyResult is the outcome of checking a submitted OTP code.
type VerifyResult int

const (
	OTPValid VerifyResult = iota
	OTPInvalid
	OTPExpired
	OTPNotFound
)

func (r VerifyResult) String() string {
	switch r {
	case OTPValid:
		return "valid"
	case OTPInvalid:
		return "invalid"
	case OTPExpired:
		return "expired"
	case OTPNotFound:
		return "not_found"
	}
	return "unknown"
}

// otpRetention keeps an expired challenge readable for a while so that
// verification can report Expired rather than NotFound. Past retention the
// key falls out of Redis and a stale row costs nothing.
const otpRetention = time.Hour

const otpKeyPrefix = "otp:"

// otpRecord is the stored challenge. Expiry is checked lazily at
// verification time against ExpiresAt, not via the Redis TTL.
type otpRecord struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// OTPStore manages one-time passcode challenges, at most one live challenge
// per email.
type OTPStore interface {
	// Issue generates a fresh code with the configured TTL and replaces any
	// existing challenge for email. Returns the plaintext code for delivery.
	Issue(ctx context.Context, email string) (string, error)
	// Verify checks a submitted code without consuming it.
	Verify(ctx context.Context, email, code string) (VerifyResult, error)
	// Consume deletes the challenge. Deleting an absent challenge is not an
	// error.
	Consume(ctx context.Context, email string) error
}

type otpStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewOTPStore creates a Redis-backed OTPStore with the given challenge TTL.
func NewOTPStore(client *redis.Client, ttl time.Duration) OTPStore {
	return &otpStore{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *otpStore) Issue(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate otp code: %w", err)
	}

	record := otpRecord{
		Code:      code,
		ExpiresAt: s.now().Add(s.ttl),
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to encode otp record: %w", err)
	}

	// A single SET is the atomic upsert: concurrent issues for the same
	// email serialize in Redis and exactly one code is live afterwards.
	if err := s.client.Set(ctx, otpKeyPrefix+email, payload, s.ttl+otpRetention).Err(); err != nil {
		return "", fmt.Errorf("failed to store otp challenge: %w", err)
	}

	return code, nil
}

func (s *otpStore) Verify(ctx context.Context, email, code string) (VerifyResult, error) {
	payload, err := s.client.Get(ctx, otpKeyPrefix+email).Bytes()
	if errors.Is(err, redis.Nil) {
		return OTPNotFound, nil
	}
	if err != nil {
		return OTPNotFound, fmt.Errorf("failed to read otp challenge: %w", err)
	}

	var record otpRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return OTPNotFound, fmt.Errorf("failed to decode otp record: %w", err)
	}

	if record.Code != code {
		return OTPInvalid, nil
	}
	if !s.now().Before(record.ExpiresAt) {
		return OTPExpired, nil
	}
	return OTPValid, nil
}

func (s *otpStore) Consume(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, otpKeyPrefix+email).Err(); err != nil {
		return fmt.Errorf("failed to delete otp challenge: %w", err)
	}
	return nil
}

// generateCode draws a 6-digit code uniformly from [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
