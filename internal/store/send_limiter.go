package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrSendCooldown    = errors.New("otp resend cooldown")
	ErrSendRateLimited = errors.New("otp send rate limited")
)

// SendLimiter caps how often OTP SMS leave the system: a short per-phone
// resend cooldown plus hourly send counters per phone and per client IP.
type SendLimiter struct {
	rdb      *redis.Client
	cooldown time.Duration
	perPhone int64
	perIP    int64
}

func NewSendLimiter(rdb *redis.Client, cooldown time.Duration, perPhone, perIP int) *SendLimiter {
	return &SendLimiter{rdb: rdb, cooldown: cooldown, perPhone: int64(perPhone), perIP: int64(perIP)}
}

func (l *SendLimiter) cooldownKey(phone string) string { return "otp:cooldown:" + phone }
func (l *SendLimiter) phoneKey(phone string) string    { return "otp:send_count:" + phone }
func (l *SendLimiter) ipKey(ip string) string          { return "otp:send_count_ip:" + ip }

// Reserve records an outbound OTP send. It must be called before the SMS
// gateway, so a rejected reservation never costs a gateway request.
func (l *SendLimiter) Reserve(ctx context.Context, phone, ip string) error {
	if ok, _ := l.rdb.Exists(ctx, l.cooldownKey(phone)).Result(); ok > 0 {
		return ErrSendCooldown
	}

	if err := l.incrWithLimit(ctx, l.phoneKey(phone), l.perPhone, time.Hour); err != nil {
		return err
	}
	if ip != "" {
		if err := l.incrWithLimit(ctx, l.ipKey(ip), l.perIP, time.Hour); err != nil {
			return err
		}
	}

	return l.rdb.Set(ctx, l.cooldownKey(phone), "1", l.cooldown).Err()
}

func (l *SendLimiter) incrWithLimit(ctx context.Context, key string, limit int64, window time.Duration) error {
	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		_ = l.rdb.Expire(ctx, key, window).Err()
	}
	if n > limit {
		return ErrSendRateLimited
	}
	return nil
}
