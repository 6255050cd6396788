package checkin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"emarge/pkg/platform/sentinel"
)

const tokenKeyPrefix = "checkin:token:"

// RedisCache is a read-through cache in front of the token store. Tokens are
// immutable after issuance except the revocation flag, so entries use a short
// TTL to bound how long a freshly revoked token may still validate.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache constructs a token cache with the given entry TTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, value string) (*Token, error) {
	raw, err := c.client.Get(ctx, tokenKeyPrefix+value).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("token cache miss: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("token cache get: %w", err)
	}
	var token Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("token cache decode: %w", err)
	}
	return &token, nil
}

func (c *RedisCache) Set(ctx context.Context, token *Token) error {
	ttl := c.ttl
	if until := time.Until(token.ExpiresAt); until > 0 && until < ttl {
		ttl = until
	}
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("token cache encode: %w", err)
	}
	if err := c.client.Set(ctx, tokenKeyPrefix+token.Value, raw, ttl).Err(); err != nil {
		return fmt.Errorf("token cache set: %w", err)
	}
	return nil
}

// Invalidate drops cached entries so revocation takes effect immediately on
// this node instead of waiting out the TTL.
func (c *RedisCache) Invalidate(ctx context.Context, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	keys := make([]string, len(values))
	for i, value := range values {
		keys[i] = tokenKeyPrefix + value
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("token cache invalidate: %w", err)
	}
	return nil
}
