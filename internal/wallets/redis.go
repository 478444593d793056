package wallets

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding address -> name pairs.
const DefaultRedisKey = "wallet:names"

// RedisLoader loads the wallet-name mapping from a Redis hash, letting
// several processes share one directory.
type RedisLoader struct {
	client *redis.Client
	key    string
}

// NewRedisLoader creates a RedisLoader. An empty key uses DefaultRedisKey.
func NewRedisLoader(client *redis.Client, key string) *RedisLoader {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisLoader{client: client, key: key}
}

// Compile-time interface check.
var _ Loader = (*RedisLoader)(nil)

// Load reads the full hash.
func (l *RedisLoader) Load(ctx context.Context) (map[string]string, error) {
	names, err := l.client.HGetAll(ctx, l.key).Result()
	if err != nil {
		return nil, fmt.Errorf("load wallet names from redis %s: %w", l.key, err)
	}
	return names, nil
}

// Set writes one address -> name pair, visible to all directory users on
// their next reload.
func (l *RedisLoader) Set(ctx context.Context, wallet, name string) error {
	if err := l.client.HSet(ctx, l.key, wallet, name).Err(); err != nil {
		return fmt.Errorf("set wallet name in redis %s: %w", l.key, err)
	}
	return nil
}
