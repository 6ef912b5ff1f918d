package db

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// RedisProvider implements DatabaseProvider for Redis. Ledger keys are plain
// strings, so they map directly onto redis keys.
type RedisProvider struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisProvider creates a new Redis provider
func NewRedisProvider(address string) (DatabaseProvider, error) {
	client := redis.NewClient(&redis.Options{
		Addr: address,
	})

	ctx := context.Background()

	// Test connection
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisProvider{
		client: client,
		ctx:    ctx,
	}, nil
}

// Get retrieves a value by key
func (p *RedisProvider) Get(key []byte) ([]byte, error) {
	value, err := p.client.Get(p.ctx, string(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	return value, nil
}

// GetBatch retrieves multiple values by keys in a single MGET
func (p *RedisProvider) GetBatch(keys [][]byte) (map[string][]byte, error) {
	if len(keys) == 0 {
		return make(map[string][]byte), nil
	}

	redisKeys := make([]string, len(keys))
	for i, key := range keys {
		redisKeys[i] = string(key)
	}

	values, err := p.client.MGet(p.ctx, redisKeys...).Result()
	if err != nil {
		return nil, err
	}

	result := make(map[string][]byte, len(keys))
	for i, value := range values {
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok {
			result[redisKeys[i]] = []byte(s)
		}
	}
	return result, nil
}

// Put stores a key-value pair
func (p *RedisProvider) Put(key, value []byte) error {
	return p.client.Set(p.ctx, string(key), value, 0).Err()
}

// Delete removes a key-value pair
func (p *RedisProvider) Delete(key []byte) error {
	return p.client.Del(p.ctx, string(key)).Err()
}

// Has checks if a key exists
func (p *RedisProvider) Has(key []byte) (bool, error) {
	count, err := p.client.Exists(p.ctx, string(key)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Close closes the database connection
func (p *RedisProvider) Close() error {
	return p.client.Close()
}

// Batch returns a new batch for atomic operations
func (p *RedisProvider) Batch() DatabaseBatch {
	return &RedisBatch{
		client: p.client,
		ctx:    p.ctx,
		pipe:   p.client.Pipeline(),
	}
}

// IteratePrefix implements IterableProvider for Redis. SCAN returns keys
// in no particular order, so the matching key set is collected and sorted
// before the callback runs; the log indexes require ascending key order.
func (p *RedisProvider) IteratePrefix(prefix []byte, callback func(key, value []byte) bool) error {
	pattern := string(prefix) + "*"
	var cursor uint64
	keys := make([]string, 0)
	for {
		page, newCursor, err := p.client.Scan(p.ctx, cursor, pattern, 1000).Result()
		if err != nil {
			return err
		}
		keys = append(keys, page...)
		cursor = newCursor
		if cursor == 0 {
			break
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		value, err := p.client.Get(p.ctx, k).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return err
		}
		if !callback([]byte(k), value) {
			return nil
		}
	}
	return nil
}

// RedisBatch implements DatabaseBatch for Redis using a pipeline
type RedisBatch struct {
	client *redis.Client
	ctx    context.Context
	pipe   redis.Pipeliner
}

// Put adds a key-value pair to the batch
func (b *RedisBatch) Put(key, value []byte) {
	b.pipe.Set(b.ctx, string(key), value, 0)
}

// Delete adds a deletion to the batch
func (b *RedisBatch) Delete(key []byte) {
	b.pipe.Del(b.ctx, string(key))
}

// Write commits all operations in the batch
func (b *RedisBatch) Write() error {
	_, err := b.pipe.Exec(b.ctx)
	return err
}

// Reset clears the batch
func (b *RedisBatch) Reset() {
	b.pipe.Discard()
	b.pipe = b.client.Pipeline()
}

// Close releases batch resources
func (b *RedisBatch) Close() {
	b.pipe.Discard()
}
