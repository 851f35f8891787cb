package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cassiomorais/payment-orchestrator/internal/domain/transaction"
	"github.com/redis/go-redis/v9"
)

// RecordCache keeps serialized transaction records in Redis for point
// lookups. It is purely an accelerator: every operation returns an error
// the caller is expected to ignore after logging.
type RecordCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRecordCache(client *redis.Client, ttl time.Duration) *RecordCache {
	return &RecordCache{client: client, ttl: ttl}
}

func (c *RecordCache) key(id string) string {
	return "tx:" + id
}

// Get returns the cached transaction, or nil on a miss.
func (c *RecordCache) Get(ctx context.Context, id string) (*transaction.PaymentTransaction, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var rec transaction.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return transaction.FromRecord(rec), nil
}

// Set stores the transaction's record under its id.
func (c *RecordCache) Set(ctx context.Context, tx *transaction.PaymentTransaction) error {
	raw, err := json.Marshal(tx.ToRecord())
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(tx.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached record for the given id.
func (c *RecordCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
