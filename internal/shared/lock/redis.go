package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio-backend/internal/shared/telemetry"
)

const keyPrefix = "portfolio:lock:"

// Only the holder that set the value may delete the key.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every API instance pointed at the same server.
type Redis struct {
	client *redis.Client
}

// NewRedis connects using a redis:// URL and verifies the connection.
func NewRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	value := randomValue()
	ok, err := r.client.SetNX(ctx, keyPrefix+key, value, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrHeld
	}
	return func() {
		// The request context may already be cancelled by the time we release.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, r.client, []string{keyPrefix + key}, value).Err(); err != nil {
			telemetry.Warn("lock.release_failed", map[string]any{"key": key, "error": err.Error()})
		}
	}, nil
}

// Ping reports whether the Redis server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

func randomValue() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
