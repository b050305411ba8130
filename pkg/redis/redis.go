package redis

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// Sentinel errors for the store taxonomy. Callers classify with errors.Is.
var (
	// ErrNotFound marks a key or hash that does not exist.
	ErrNotFound = errors.New("redis: key not found")
	// ErrUnavailable marks a failed round trip to the store.
	ErrUnavailable = errors.New("redis: store unavailable")
)

// Store is the persistence surface the services depend on. *Client is the
// production implementation; tests substitute an in-memory fake.
type Store interface {
	SetHash(key string, fields map[string]string) error
	GetHash(key string) (map[string]string, error)
	IncrHashField(key, field string, delta int64) error
	ZSetAdd(key, member string, score float64) error
	ZSetTopN(key string, n int64) ([]ScoredMember, error)
	KeysByPattern(pattern string) ([]string, error)
	DeleteByPattern(pattern string) (int, error)
	Ping() error
}

// ScoredMember is one entry of a sorted-set read.
type ScoredMember struct {
	Member string
	Score  float64
}

// Client wraps the go-redis connection with the handful of operations the
// game needs.
type Client struct {
	client *redis.Client
	ctx    context.Context
}

// NewClient connects to Redis and verifies the connection before returning.
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("%w: connecting to %s: %v", ErrUnavailable, addr, err)
	}

	log.Println("✅ Connected to Redis")

	return &Client{client: rdb, ctx: ctx}, nil
}

// SetHash writes every field of a flat string record under the given key.
func (c *Client) SetHash(key string, fields map[string]string) error {
	values := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		values[k] = v
	}
	if err := c.client.HSet(c.ctx, key, values).Err(); err != nil {
		return fmt.Errorf("%w: hset %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

// GetHash reads a flat string record. A missing key is ErrNotFound.
func (c *Client) GetHash(key string) (map[string]string, error) {
	fields, err := c.client.HGetAll(c.ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: hgetall %s: %v", ErrUnavailable, key, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return fields, nil
}

// IncrHashField atomically adds delta to one integer field of a hash.
func (c *Client) IncrHashField(key, field string, delta int64) error {
	if err := c.client.HIncrBy(c.ctx, key, field, delta).Err(); err != nil {
		return fmt.Errorf("%w: hincrby %s.%s: %v", ErrUnavailable, key, field, err)
	}
	return nil
}

// ZSetAdd upserts a member with its score into a sorted set.
func (c *Client) ZSetAdd(key, member string, score float64) error {
	err := c.client.ZAdd(c.ctx, key, redis.Z{Score: score, Member: member}).Err()
	if err != nil {
		return fmt.Errorf("%w: zadd %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

// ZSetTopN returns the n highest-scored members in descending score order.
func (c *Client) ZSetTopN(key string, n int64) ([]ScoredMember, error) {
	zs, err := c.client.ZRevRangeWithScores(c.ctx, key, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: zrevrange %s: %v", ErrUnavailable, key, err)
	}
	members := make([]ScoredMember, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		members = append(members, ScoredMember{Member: member, Score: z.Score})
	}
	return members, nil
}

// KeysByPattern scans for keys matching a glob pattern. Fine at this scale;
// a maintained index would replace it if the key space ever grows.
func (c *Client) KeysByPattern(pattern string) ([]string, error) {
	var keys []string
	iter := c.client.Scan(c.ctx, 0, pattern, 0).Iterator()
	for iter.Next(c.ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: scan %s: %v", ErrUnavailable, pattern, err)
	}
	return keys, nil
}

// DeleteByPattern removes every key matching the pattern and returns how
// many were deleted.
func (c *Client) DeleteByPattern(pattern string) (int, error) {
	keys, err := c.KeysByPattern(pattern)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := c.client.Del(c.ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("%w: del %s: %v", ErrUnavailable, pattern, err)
	}
	return len(keys), nil
}

// Ping verifies the store is reachable.
func (c *Client) Ping() error {
	if _, err := c.client.Ping(c.ctx).Result(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.client.Close()
}
