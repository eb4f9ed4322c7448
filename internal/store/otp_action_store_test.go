package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPActionRoundTrip(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := NewOTPActionStore(rdb, "secret", "reset", time.Minute, 3)
	ctx := context.Background()

	userID := uuid.New()
	actionID, err := s.Create(ctx, userID, "+919876543210", "", "123456")
	require.NoError(t, err)

	payload, err := s.Verify(ctx, actionID, "123456")
	require.NoError(t, err)
	assert.Equal(t, userID, payload.UserID)
	assert.Equal(t, "+919876543210", payload.Phone)

	// one-shot: the action is gone after a successful verify
	_, err = s.Verify(ctx, actionID, "123456")
	assert.ErrorIs(t, err, ErrActionExpired)
}

func TestOTPActionMaxAttempts(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := NewOTPActionStore(rdb, "secret", "reset", time.Minute, 2)
	ctx := context.Background()

	actionID, err := s.Create(ctx, uuid.New(), "+919876543210", "", "123456")
	require.NoError(t, err)

	_, err = s.Verify(ctx, actionID, "000000")
	assert.ErrorIs(t, err, ErrActionInvalidOTP)
	_, err = s.Verify(ctx, actionID, "000000")
	assert.ErrorIs(t, err, ErrActionMaxAttempts)
	_, err = s.Verify(ctx, actionID, "123456")
	assert.ErrorIs(t, err, ErrActionMaxAttempts)
}

func TestOTPActionPrefixIsolation(t *testing.T) {
	_, rdb := newTestRedis(t)
	resets := NewOTPActionStore(rdb, "secret", "reset", time.Minute, 3)
	changes := NewOTPActionStore(rdb, "secret", "phonechange", time.Minute, 3)
	ctx := context.Background()

	actionID, err := resets.Create(ctx, uuid.New(), "+919876543210", "", "123456")
	require.NoError(t, err)

	// a reset action never verifies against the phone-change store
	_, err = changes.Verify(ctx, actionID, "123456")
	assert.ErrorIs(t, err, ErrActionExpired)
}
