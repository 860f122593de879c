package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// releaseScript deletes the lease only if the caller still holds it.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// TickLease implements ports.TickLease with SET NX PX. It only avoids
// redundant batches across instances; correctness does not depend on it.
type TickLease struct {
	client *goredis.Client
	prefix string
}

// NewTickLease creates a Redis-backed tick lease.
func NewTickLease(client *goredis.Client) *TickLease {
	return &TickLease{
		client: client,
		prefix: keyPrefix + "tick-lease:",
	}
}

// Acquire claims window for holder until ttl elapses.
func (l *TickLease) Acquire(ctx context.Context, window string, holder string, ttl time.Duration) (bool, error) {
	result, err := l.client.SetArgs(ctx, l.prefix+window, holder, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis lease acquire: %w", err)
	}
	return result == "OK", nil
}

// Release frees the window if holder still owns it.
func (l *TickLease) Release(ctx context.Context, window string, holder string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.prefix + window}, holder).Err(); err != nil {
		return fmt.Errorf("redis lease release: %w", err)
	}
	return nil
}
