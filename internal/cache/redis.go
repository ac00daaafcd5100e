package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Domenick1991/offercheck/config"
	"github.com/Domenick1991/offercheck/internal/domain"
)

// RedisCache keeps validation outcomes keyed by the digest of the raw
// payload, so repeated submissions skip the engine.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg config.RedisConfig, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    ttl,
	}
}

// GetOutcome returns nil, nil on a miss.
func (c *RedisCache) GetOutcome(ctx context.Context, digest string) (*domain.Outcome, error) {
	data, err := c.client.Get(ctx, outcomeKey(digest)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return decodeOutcome(data)
}

func (c *RedisCache) SetOutcome(ctx context.Context, digest string, outcome *domain.Outcome) error {
	payload, err := encodeOutcome(outcome)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, outcomeKey(digest), payload, c.ttl).Err()
}

// encodeOutcome leaves HTML characters unescaped so the canonical bytes
// read back from the cache are the ones the engine produced.
func encodeOutcome(outcome *domain.Outcome) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(outcome); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func decodeOutcome(data []byte) (*domain.Outcome, error) {
	var outcome domain.Outcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func outcomeKey(digest string) string {
	return "cache:offercheck:outcome:" + digest
}
