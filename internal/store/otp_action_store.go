package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrActionExpired     = errors.New("otp action expired")
	ErrActionInvalidOTP  = errors.New("otp action invalid otp")
	ErrActionMaxAttempts = errors.New("otp action max attempts exceeded")
	ErrActionNotFound    = errors.New("otp action not found")
)

// OTPActionStore guards one-shot account actions (password reset,
// phone change) behind an OTP. The prefix separates action kinds.
type OTPActionStore struct {
	rdb         *redis.Client
	secret      string
	prefix      string
	ttl         time.Duration
	maxAttempts int
}

func NewOTPActionStore(rdb *redis.Client, secret, prefix string, ttl time.Duration, maxAttempts int) *OTPActionStore {
	return &OTPActionStore{rdb: rdb, secret: secret, prefix: prefix, ttl: ttl, maxAttempts: maxAttempts}
}

func (s *OTPActionStore) key(actionID string) string { return s.prefix + ":" + actionID }

func (s *OTPActionStore) hash(actionID, otp string) string {
	sum := sha256.Sum256([]byte(actionID + ":" + otp + ":" + s.secret))
	return hex.EncodeToString(sum[:])
}

type ActionPayload struct {
	UserID   uuid.UUID
	Phone    string
	NewPhone string
}

func (s *OTPActionStore) Create(ctx context.Context, userID uuid.UUID, phone, newPhone, otp string) (actionID string, err error) {
	actionID = uuid.NewString()
	key := s.key(actionID)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key,
		"user_id", userID.String(),
		"phone", phone,
		"new_phone", newPhone,
		"hash", s.hash(actionID, otp),
		"attempts", "0",
	)
	pipe.Expire(ctx, key, s.ttl)
	_, err = pipe.Exec(ctx)
	if err != nil {
		return "", err
	}
	return actionID, nil
}

func (s *OTPActionStore) Verify(ctx context.Context, actionID, otp string) (ActionPayload, error) {
	key := s.key(actionID)
	vals, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return ActionPayload{}, err
	}
	if len(vals) == 0 {
		return ActionPayload{}, ErrActionExpired
	}

	attempts, _ := strconv.Atoi(vals["attempts"])
	if attempts >= s.maxAttempts {
		return ActionPayload{}, ErrActionMaxAttempts
	}

	want := vals["hash"]
	got := s.hash(actionID, otp)
	if want == "" || got != want {
		attempts++
		_ = s.rdb.HSet(ctx, key, "attempts", fmt.Sprintf("%d", attempts)).Err()
		if attempts >= s.maxAttempts {
			return ActionPayload{}, ErrActionMaxAttempts
		}
		return ActionPayload{}, ErrActionInvalidOTP
	}

	uid, err := uuid.Parse(vals["user_id"])
	if err != nil {
		return ActionPayload{}, ErrActionNotFound
	}

	// consume
	_ = s.rdb.Del(ctx, key).Err()
	return ActionPayload{UserID: uid, Phone: vals["phone"], NewPhone: vals["new_phone"]}, nil
}
