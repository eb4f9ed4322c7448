package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshConsumeIsSingleUse(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := NewRefreshStore(rdb, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "user-1", "jti-1"))
	require.NoError(t, s.Consume(ctx, "user-1", "jti-1"))

	// rotation consumed the old JTI; a replay is rejected
	assert.ErrorIs(t, s.Consume(ctx, "user-1", "jti-1"), ErrRefreshInvalid)
}

func TestRefreshConsumeUnknownJTI(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := NewRefreshStore(rdb, time.Hour)

	assert.ErrorIs(t, s.Consume(context.Background(), "user-1", "never-issued"), ErrRefreshInvalid)
}

func TestRefreshWhitelistExpires(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewRefreshStore(rdb, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "user-1", "jti-1"))
	mr.FastForward(2 * time.Minute)

	assert.ErrorIs(t, s.Consume(ctx, "user-1", "jti-1"), ErrRefreshInvalid)
}
