package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestKeys(t *testing.T) {
	if got := attemptKey("  Store@Example.COM "); got != "login:fail:store@example.com" {
		t.Fatalf("attemptKey = %q", got)
	}
	if got := key("abc"); got != "app:sess:abc" {
		t.Fatalf("key = %q", got)
	}
	if got := employeeSetKey(7); got != "app:employee_sessions:7" {
		t.Fatalf("employeeSetKey = %q", got)
	}
}

// testRedis connects to TEST_REDIS_ADDR (default localhost:6379, db 15)
// and skips when nothing answers.
func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestLoginAttemptsLockout(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	la := NewLoginAttempts(rdb, time.Minute, 3)
	email := uuid.NewString() + "@example.com"
	t.Cleanup(func() { la.Reset(ctx, email) })

	for i := 1; i <= 3; i++ {
		locked, err := la.Locked(ctx, email)
		if err != nil {
			t.Fatal(err)
		}
		if locked {
			t.Fatalf("locked after %d failures", i-1)
		}
		n, err := la.Fail(ctx, email)
		if err != nil {
			t.Fatal(err)
		}
		if n != int64(i) {
			t.Fatalf("Fail count = %d, want %d", n, i)
		}
	}
	if locked, _ := la.Locked(ctx, email); !locked {
		t.Fatal("expected lockout after max failures")
	}
	if ttl := rdb.TTL(ctx, attemptKey(email)).Val(); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("window ttl = %v", ttl)
	}
	la.Reset(ctx, email)
	if locked, _ := la.Locked(ctx, email); locked {
		t.Fatal("still locked after reset")
	}
}

func TestAppSessionRevokeAll(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	store := NewAppSessionStore(rdb, time.Minute)
	a, b := uuid.NewString(), uuid.NewString()
	const eid = 424242

	for _, id := range []string{a, b} {
		if err := store.Create(ctx, id, eid, "store@example.com"); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	s, err := store.Get(ctx, a)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.EmployeeID != eid || s.ExpiresAt <= s.IssuedAt {
		t.Fatalf("session = %+v", s)
	}

	if err := store.Delete(ctx, a); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, a); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Get after Delete: %v", err)
	}

	if err := store.RevokeAllForEmployee(ctx, eid); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, b); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Get after revoke: %v", err)
	}
}
