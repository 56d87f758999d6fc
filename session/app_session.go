package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNoSession = errors.New("session not found")

// AppSessionStore 登录会话；JWT 的 jti 即会话 id，删除即注销
type AppSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAppSessionStore(rdb *redis.Client, ttl time.Duration) *AppSessionStore {
	return &AppSessionStore{rdb: rdb, ttl: ttl}
}

type AppSession struct {
	EmployeeID uint   `json:"eid"`
	Email      string `json:"email"`
	IssuedAt   int64  `json:"iat"`
	ExpiresAt  int64  `json:"exp"`
}

func (s *AppSessionStore) TTL() time.Duration { return s.ttl }

func key(id string) string           { return fmt.Sprintf("app:sess:%s", id) }
func employeeSetKey(eid uint) string { return fmt.Sprintf("app:employee_sessions:%d", eid) }

func (s *AppSessionStore) Create(ctx context.Context, id string, employeeID uint, email string) error {
	now := time.Now()
	b, _ := json.Marshal(AppSession{
		EmployeeID: employeeID,
		Email:      email,
		IssuedAt:   now.Unix(),
		ExpiresAt:  now.Add(s.ttl).Unix(),
	})
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, key(id), b, s.ttl)
	pipe.SAdd(ctx, employeeSetKey(employeeID), id)
	pipe.Expire(ctx, employeeSetKey(employeeID), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *AppSessionStore) Get(ctx context.Context, id string) (*AppSession, error) {
	b, err := s.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	var as AppSession
	if err := json.Unmarshal(b, &as); err != nil {
		return nil, err
	}
	return &as, nil
}

func (s *AppSessionStore) Delete(ctx context.Context, id string) error {
	as, _ := s.Get(ctx, id) // 忽略失败
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key(id))
	if as != nil {
		pipe.SRem(ctx, employeeSetKey(as.EmployeeID), id)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// RevokeAllForEmployee 修改密码后撤销该员工的全部会话
func (s *AppSessionStore) RevokeAllForEmployee(ctx context.Context, employeeID uint) error {
	ids, err := s.rdb.SMembers(ctx, employeeSetKey(employeeID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	pipe := s.rdb.TxPipeline()
	for _, sid := range ids {
		pipe.Del(ctx, key(sid))
	}
	pipe.Del(ctx, employeeSetKey(employeeID))
	_, err = pipe.Exec(ctx)
	return err
}
