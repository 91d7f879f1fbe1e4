package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/floroz/gavel-marketplace/internal/domain/bids"
)

const (
	summaryKeyPrefix    = "marketplace:listing-summary:"
	generationKeyPrefix = "marketplace:listing-generation:"

	// generations outlive any summary TTL so a reader never sees one reset
	generationTTL = 24 * time.Hour
)

// RedisSummaryCache implements bids.SummaryCache with a TTL per entry.
// The TTL bounds how long a summary can outlive a missed invalidation.
type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{client: client, ttl: ttl}
}

func summaryKey(listingID uuid.UUID) string {
	return summaryKeyPrefix + listingID.String()
}

func generationKey(listingID uuid.UUID) string {
	return generationKeyPrefix + listingID.String()
}

// getter is satisfied by both *redis.Client and the *redis.Tx inside Watch
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// readGeneration treats a missing counter as generation zero
func readGeneration(ctx context.Context, cmd getter, key string) (int64, error) {
	gen, err := cmd.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisSummaryCache) GetSummary(ctx context.Context, listingID uuid.UUID) (*bids.Summary, error) {
	raw, err := c.client.Get(ctx, summaryKey(listingID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read summary: %w", err)
	}

	var summary bids.Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary: %w", err)
	}
	return &summary, nil
}

func (c *RedisSummaryCache) Generation(ctx context.Context, listingID uuid.UUID) (int64, error) {
	gen, err := readGeneration(ctx, c.client, generationKey(listingID))
	if err != nil {
		return 0, fmt.Errorf("failed to read generation: %w", err)
	}
	return gen, nil
}

// SetSummary writes under WATCH on the generation key, so an invalidation
// landing between the check and the write aborts the transaction.
func (c *RedisSummaryCache) SetSummary(ctx context.Context, summary *bids.Summary, generation int64) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	genKey := generationKey(summary.ListingID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, genKey)
		if err != nil {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, summaryKey(summary.ListingID), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// InvalidateSummary bumps the generation and drops the cached entry
func (c *RedisSummaryCache) InvalidateSummary(ctx context.Context, listingID uuid.UUID) error {
	genKey := generationKey(listingID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		pipe.Del(ctx, summaryKey(listingID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate summary: %w", err)
	}
	return nil
}
