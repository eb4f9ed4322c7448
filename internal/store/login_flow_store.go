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

	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/domain"
)

var (
	ErrFlowExpired     = errors.New("login flow expired")
	ErrFlowInvalidOTP  = errors.New("login flow invalid otp")
	ErrFlowMaxAttempts = errors.New("login flow max attempts exceeded")
	ErrFlowWrongStep   = errors.New("login flow wrong step")
	ErrFlowNotFound    = errors.New("login flow not found")
)

// LoginFlowStore keeps the server side of the login wizard in Redis:
// one flow per successful credentials check, consumed by OTP verification.
type LoginFlowStore struct {
	rdb *redis.Client
	// secret is mixed into the OTP hash; never the plaintext code.
	secret      string
	ttl         time.Duration
	maxAttempts int
}

func NewLoginFlowStore(rdb *redis.Client, secret string, ttl time.Duration, maxAttempts int) *LoginFlowStore {
	return &LoginFlowStore{rdb: rdb, secret: secret, ttl: ttl, maxAttempts: maxAttempts}
}

func (s *LoginFlowStore) key(flowID string) string { return "loginflow:" + flowID }

func (s *LoginFlowStore) hash(flowID, otp string) string {
	sum := sha256.Sum256([]byte(flowID + ":" + otp + ":" + s.secret))
	return hex.EncodeToString(sum[:])
}

type LoginFlow struct {
	UserID uuid.UUID
	Phone  string
	Step   domain.AuthStep
}

// Create opens a flow already positioned on the OTP step (credentials
// were checked by the caller) and returns its ID.
func (s *LoginFlowStore) Create(ctx context.Context, userID uuid.UUID, phone, otp string) (flowID string, err error) {
	flowID = uuid.NewString()
	key := s.key(flowID)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key,
		"user_id", userID.String(),
		"phone", phone,
		"step", string(domain.StepOTP),
		"hash", s.hash(flowID, otp),
		"attempts", "0",
	)
	pipe.Expire(ctx, key, s.ttl)
	_, err = pipe.Exec(ctx)
	if err != nil {
		return "", err
	}
	return flowID, nil
}

// Get returns the flow without touching it.
func (s *LoginFlowStore) Get(ctx context.Context, flowID string) (LoginFlow, error) {
	vals, err := s.rdb.HGetAll(ctx, s.key(flowID)).Result()
	if err != nil {
		return LoginFlow{}, err
	}
	if len(vals) == 0 {
		return LoginFlow{}, ErrFlowExpired
	}
	return parseFlow(vals)
}

// Reissue replaces the OTP of an existing flow (resend) and resets the
// attempt counter. The TTL restarts so the new code lives a full window.
func (s *LoginFlowStore) Reissue(ctx context.Context, flowID, otp string) (LoginFlow, error) {
	key := s.key(flowID)
	vals, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return LoginFlow{}, err
	}
	if len(vals) == 0 {
		return LoginFlow{}, ErrFlowExpired
	}
	flow, err := parseFlow(vals)
	if err != nil {
		return LoginFlow{}, err
	}
	if flow.Step != domain.StepOTP {
		return LoginFlow{}, ErrFlowWrongStep
	}

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, "hash", s.hash(flowID, otp), "attempts", "0")
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return LoginFlow{}, err
	}
	return flow, nil
}

// Verify checks the OTP against the flow and consumes it on success.
// The flow must be on the otp step and allowed to advance to done.
func (s *LoginFlowStore) Verify(ctx context.Context, flowID, otp string) (LoginFlow, error) {
	key := s.key(flowID)
	vals, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return LoginFlow{}, err
	}
	if len(vals) == 0 {
		return LoginFlow{}, ErrFlowExpired
	}

	flow, err := parseFlow(vals)
	if err != nil {
		return LoginFlow{}, err
	}
	if !flow.Step.CanAdvance(domain.StepDone) {
		return LoginFlow{}, ErrFlowWrongStep
	}

	attempts, _ := strconv.Atoi(vals["attempts"])
	if attempts >= s.maxAttempts {
		return LoginFlow{}, ErrFlowMaxAttempts
	}

	want := vals["hash"]
	got := s.hash(flowID, otp)
	if want == "" || got != want {
		attempts++
		_ = s.rdb.HSet(ctx, key, "attempts", fmt.Sprintf("%d", attempts)).Err()
		if attempts >= s.maxAttempts {
			return LoginFlow{}, ErrFlowMaxAttempts
		}
		return LoginFlow{}, ErrFlowInvalidOTP
	}

	// consume: a flow is single-use
	_ = s.rdb.Del(ctx, key).Err()
	flow.Step = domain.StepDone
	return flow, nil
}

func parseFlow(vals map[string]string) (LoginFlow, error) {
	uid, err := uuid.Parse(vals["user_id"])
	if err != nil {
		return LoginFlow{}, ErrFlowNotFound
	}
	phone := vals["phone"]
	if phone == "" {
		return LoginFlow{}, ErrFlowNotFound
	}
	return LoginFlow{
		UserID: uid,
		Phone:  phone,
		Step:   domain.AuthStep(vals["step"]),
	}, nil
}
