package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const challengeReplayPrefix = "projecthub:challenge:"

// ReplayGuard marks challenge ids as redeemed. Consume reports true the first
// time an id is seen within ttl and false afterwards.
type ReplayGuard interface {
	Consume(ctx context.Context, id string, ttl time.Duration) (bool, error)
}

type RedisReplayGuard struct {
	client *redis.Client
}

// NewRedisReplayGuard connects to url (redis://...) and pings it.
func NewRedisReplayGuard(ctx context.Context, url string) (*RedisReplayGuard, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisReplayGuard{client: client}, nil
}

func (g *RedisReplayGuard) Consume(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	if ttl < time.Second {
		ttl = time.Second
	}
	return g.client.SetNX(ctx, challengeReplayPrefix+id, "1", ttl).Result()
}

func (g *RedisReplayGuard) Close() error {
	return g.client.Close()
}

// MemoryReplayGuard is the single-process variant used when no Redis is
// configured but single-use challenges are still wanted.
type MemoryReplayGuard struct {
	mu   sync.Mutex
	seen map[string]time.Time
	now  func() time.Time
}

func NewMemoryReplayGuard() *MemoryReplayGuard {
	return &MemoryReplayGuard{seen: make(map[string]time.Time), now: time.Now}
}

func (g *MemoryReplayGuard) Consume(_ context.Context, id string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for k, exp := range g.seen {
		if now.After(exp) {
			delete(g.seen, k)
		}
	}
	if _, used := g.seen[id]; used {
		return false, nil
	}
	g.seen[id] = now.Add(ttl)
	return true, nil
}
