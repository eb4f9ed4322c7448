package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendLimiterCooldown(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewSendLimiter(rdb, time.Minute, 10, 30)
	ctx := context.Background()

	require.NoError(t, l.Reserve(ctx, "+919876543210", "203.0.113.5"))
	assert.ErrorIs(t, l.Reserve(ctx, "+919876543210", "203.0.113.5"), ErrSendCooldown)

	// another phone is not affected
	assert.NoError(t, l.Reserve(ctx, "+919876543211", "203.0.113.6"))

	mr.FastForward(time.Minute + time.Second)
	assert.NoError(t, l.Reserve(ctx, "+919876543210", "203.0.113.5"))
}

func TestSendLimiterPerPhoneCap(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewSendLimiter(rdb, time.Second, 2, 30)
	ctx := context.Background()

	require.NoError(t, l.Reserve(ctx, "+919876543210", "203.0.113.5"))
	mr.FastForward(2 * time.Second)
	require.NoError(t, l.Reserve(ctx, "+919876543210", "203.0.113.5"))
	mr.FastForward(2 * time.Second)

	assert.ErrorIs(t, l.Reserve(ctx, "+919876543210", "203.0.113.5"), ErrSendRateLimited)
}

func TestSendLimiterPerIPCap(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewSendLimiter(rdb, time.Second, 10, 1)
	ctx := context.Background()

	require.NoError(t, l.Reserve(ctx, "+919876543210", "203.0.113.5"))
	mr.FastForward(2 * time.Second)

	// different phone, same client IP
	assert.ErrorIs(t, l.Reserve(ctx, "+919876543211", "203.0.113.5"), ErrSendRateLimited)
}
