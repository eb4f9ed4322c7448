package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/domain"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestLoginFlowIsSingleUse(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := NewLoginFlowStore(rdb, "secret", time.Minute, 3)
	ctx := context.Background()

	userID := uuid.New()
	flowID, err := s.Create(ctx, userID, "+919876543210", "123456")
	require.NoError(t, err)

	flow, err := s.Verify(ctx, flowID, "123456")
	require.NoError(t, err)
	assert.Equal(t, userID, flow.UserID)
	assert.Equal(t, "+919876543210", flow.Phone)
	assert.Equal(t, domain.StepDone, flow.Step)

	// consumed: the same flow can never mint a second login
	_, err = s.Verify(ctx, flowID, "123456")
	assert.ErrorIs(t, err, ErrFlowExpired)
}

func TestLoginFlowMaxAttempts(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := NewLoginFlowStore(rdb, "secret", time.Minute, 3)
	ctx := context.Background()

	flowID, err := s.Create(ctx, uuid.New(), "+919876543210", "123456")
	require.NoError(t, err)

	_, err = s.Verify(ctx, flowID, "000000")
	assert.ErrorIs(t, err, ErrFlowInvalidOTP)
	_, err = s.Verify(ctx, flowID, "000000")
	assert.ErrorIs(t, err, ErrFlowInvalidOTP)
	_, err = s.Verify(ctx, flowID, "000000")
	assert.ErrorIs(t, err, ErrFlowMaxAttempts)

	// locked out even with the right code
	_, err = s.Verify(ctx, flowID, "123456")
	assert.ErrorIs(t, err, ErrFlowMaxAttempts)
}

func TestLoginFlowExpires(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewLoginFlowStore(rdb, "secret", time.Minute, 3)
	ctx := context.Background()

	flowID, err := s.Create(ctx, uuid.New(), "+919876543210", "123456")
	require.NoError(t, err)

	mr.FastForward(time.Minute + time.Second)

	_, err = s.Verify(ctx, flowID, "123456")
	assert.ErrorIs(t, err, ErrFlowExpired)
	_, err = s.Get(ctx, flowID)
	assert.ErrorIs(t, err, ErrFlowExpired)
}

func TestLoginFlowWrongStep(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := NewLoginFlowStore(rdb, "secret", time.Minute, 3)
	ctx := context.Background()

	flowID, err := s.Create(ctx, uuid.New(), "+919876543210", "123456")
	require.NoError(t, err)

	require.NoError(t, rdb.HSet(ctx, s.key(flowID), "step", string(domain.StepDone)).Err())

	_, err = s.Verify(ctx, flowID, "123456")
	assert.ErrorIs(t, err, ErrFlowWrongStep)
}

func TestReissueResetsAttemptsAndCode(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := NewLoginFlowStore(rdb, "secret", time.Minute, 2)
	ctx := context.Background()

	flowID, err := s.Create(ctx, uuid.New(), "+919876543210", "111111")
	require.NoError(t, err)

	_, err = s.Verify(ctx, flowID, "000000")
	require.ErrorIs(t, err, ErrFlowInvalidOTP)

	_, err = s.Reissue(ctx, flowID, "222222")
	require.NoError(t, err)

	// old code is dead, attempts start over
	_, err = s.Verify(ctx, flowID, "111111")
	assert.ErrorIs(t, err, ErrFlowInvalidOTP)
	_, err = s.Verify(ctx, flowID, "222222")
	assert.NoError(t, err)
}

func TestReissueExpiredFlow(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewLoginFlowStore(rdb, "secret", time.Minute, 3)
	ctx := context.Background()

	flowID, err := s.Create(ctx, uuid.New(), "+919876543210", "123456")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = s.Reissue(ctx, flowID, "654321")
	assert.ErrorIs(t, err, ErrFlowExpired)
}
