// Package dedup recognises repeated deliveries of the same provider webhook.
package dedup

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

const keyPrefix = "webhook:dedup:"

// Deduper claims a delivery key. Claim returns false when the key is
// already held, meaning the delivery is a duplicate.
type Deduper interface {
	Claim(ctx context.Context, key, fingerprint string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Key picks the dedup key: the provider's conversation id when present,
// else the content fingerprint.
func Key(conversationID, fingerprint string) string {
	if conversationID != "" {
		return keyPrefix + conversationID
	}
	return keyPrefix + "fp:" + fingerprint
}

// RedisDeduper holds claims as SET NX keys with a TTL.
type RedisDeduper struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisDeduper(rdb redis.Cmdable, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{rdb: rdb, ttl: ttl}
}

func (d *RedisDeduper) Claim(ctx context.Context, key, fingerprint string) (bool, error) {
	ok, err := d.rdb.SetNX(ctx, key, fingerprint, d.ttl).Result()
	if err != nil {
		return false, eris.Wrapf(err, "dedup: claim %s", key)
	}
	return ok, nil
}

func (d *RedisDeduper) Release(ctx context.Context, key string) error {
	if err := d.rdb.Del(ctx, key).Err(); err != nil {
		return eris.Wrapf(err, "dedup: release %s", key)
	}
	return nil
}

// MemoryDeduper is an in-process Deduper for tests and single-node dev.
type MemoryDeduper struct {
	mu     sync.Mutex
	now    func() time.Time
	ttl    time.Duration
	claims map[string]time.Time
}

func NewMemoryDeduper(ttl time.Duration) *MemoryDeduper {
	return &MemoryDeduper{now: time.Now, ttl: ttl, claims: map[string]time.Time{}}
}

func (d *MemoryDeduper) Claim(_ context.Context, key, _ string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	if exp, ok := d.claims[key]; ok && now.Before(exp) {
		return false, nil
	}
	d.claims[key] = now.Add(d.ttl)
	return true, nil
}

func (d *MemoryDeduper) Release(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.claims, key)
	return nil
}

// NoopDeduper treats every delivery as new.
type NoopDeduper struct{}

func (NoopDeduper) Claim(context.Context, string, string) (bool, error) { return true, nil }
func (NoopDeduper) Release(context.Context, string) error               { return nil }
