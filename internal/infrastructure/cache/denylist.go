package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenDenylist remembers ID tokens that were logged out before they
// expired.
type TokenDenylist interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
	Contains(ctx context.Context, token string) (bool, error)
}

func denylistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "denylist:" + hex.EncodeToString(sum[:])
}

// NewRedisClient accepts either a redis:// URL or a bare host:port.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	if strings.Contains(redisURL, "://") {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, err
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{
		Addr: redisURL,
		DB:   0,
	}), nil
}

type redisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(client *redis.Client) TokenDenylist {
	return &redisDenylist{client: client}
}

func (d *redisDenylist) Add(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistKey(token), 1, ttl).Err()
}

func (d *redisDenylist) Contains(ctx context.Context, token string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type memoryDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryDenylist is used when no Redis is configured. Entries are
// dropped lazily once expired.
func NewMemoryDenylist() TokenDenylist {
	return &memoryDenylist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (d *memoryDenylist) Add(ctx context.Context, token string, expiresAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for key, until := range d.entries {
		if !until.After(now) {
			delete(d.entries, key)
		}
	}
	if expiresAt.After(now) {
		d.entries[denylistKey(token)] = expiresAt
	}
	return nil
}

func (d *memoryDenylist) Contains(ctx context.Context, token string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	until, ok := d.entries[denylistKey(token)]
	if !ok {
		return false, nil
	}
	if !until.After(d.now()) {
		delete(d.entries, denylistKey(token))
		return false, nil
	}
	return true, nil
}
