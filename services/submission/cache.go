package submission

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"meetsync/models"
	"meetsync/utils"

	"github.com/go-redis/redis/v8"
)

// SuggestionCache remembers solver responses for identical requests.
type SuggestionCache interface {
	Get(ctx context.Context, key string) (*models.SolverResponse, bool, error)
	Set(ctx context.Context, key string, resp *models.SolverResponse) error
}

// CacheKey hashes the wire body, so any change to attendees, slots, meeting
// length or constraints yields a new key.
func CacheKey(req models.SolverRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("CacheKey: %w", err)
	}
	sum := sha256.Sum256(body)
	return utils.SuggestionCachePrefix + hex.EncodeToString(sum[:]), nil
}

// RedisSuggestionCache stores responses as JSON strings with a TTL.
type RedisSuggestionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSuggestionCache(client *redis.Client, ttl time.Duration) *RedisSuggestionCache {
	return &RedisSuggestionCache{client: client, ttl: ttl}
}

func (c *RedisSuggestionCache) Get(ctx context.Context, key string) (*models.SolverResponse, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("suggestion cache get: %w", err)
	}
	var resp models.SolverResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false, fmt.Errorf("suggestion cache decode: %w", err)
	}
	return &resp, true, nil
}

func (c *RedisSuggestionCache) Set(ctx context.Context, key string, resp *models.SolverResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("suggestion cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("suggestion cache set: %w", err)
	}
	return nil
}
