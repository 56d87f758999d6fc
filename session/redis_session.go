package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginAttempts 失败登录计数，窗口内超过 max 次即锁定
type LoginAttempts struct {
	rdb    *redis.Client
	window time.Duration
	max    int64
}

func NewLoginAttempts(rdb *redis.Client, window time.Duration, max int64) *LoginAttempts {
	return &LoginAttempts{rdb: rdb, window: window, max: max}
}

func attemptKey(email string) string {
	return fmt.Sprintf("login:fail:%s", strings.ToLower(strings.TrimSpace(email)))
}

// Locked reports whether email has used up its failures for the window.
func (l *LoginAttempts) Locked(ctx context.Context, email string) (bool, error) {
	n, err := l.rdb.Get(ctx, attemptKey(email)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n >= l.max, nil
}

func (l *LoginAttempts) Fail(ctx context.Context, email string) (int64, error) {
	k := attemptKey(email)
	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (l *LoginAttempts) Reset(ctx context.Context, email string) {
	_ = l.rdb.Del(ctx, attemptKey(email)).Err()
}
