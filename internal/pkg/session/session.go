package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store 会话存储
// JWT 本身无法吊销，Redis 里的会话键是吊销的事实来源：
// 注销即删除键，之后同一个 token 不再通过认证
type Store interface {
	Create(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	Destroy(ctx context.Context, sessionID string) error
}

type redisStore struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// Create 建立会话，TTL 与 token 过期时间对齐
func (s *redisStore) Create(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error {
	return s.rdb.Set(ctx, sessionKey(sessionID), userID, ttl).Err()
}

// Exists 会话是否仍然有效
func (s *redisStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Destroy 注销会话；键不存在时也返回成功（幂等）
func (s *redisStore) Destroy(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, sessionKey(sessionID)).Err()
}
