package cached

import (
	"context"
	"time"

	"github.com/cassiomorais/payment-orchestrator/internal/domain/transaction"
	infraRedis "github.com/cassiomorais/payment-orchestrator/internal/infrastructure/redis"
	"github.com/rs/zerolog/log"
)

// TransactionRepository decorates a transaction.Repository with a Redis
// record cache for point lookups. Cache failures never affect the result;
// the store stays authoritative.
type TransactionRepository struct {
	inner transaction.Repository
	cache *infraRedis.RecordCache
}

func NewTransactionRepository(inner transaction.Repository, cache *infraRedis.RecordCache) *TransactionRepository {
	return &TransactionRepository{inner: inner, cache: cache}
}

func (r *TransactionRepository) CreatePending(ctx context.Context, tx *transaction.PaymentTransaction) (*transaction.PaymentTransaction, error) {
	created, err := r.inner.CreatePending(ctx, tx)
	if err != nil {
		return nil, err
	}
	r.fill(ctx, created)
	return created, nil
}

func (r *TransactionRepository) GetByOrder(ctx context.Context, orderID int64) (*transaction.PaymentTransaction, error) {
	// Order lookups always need the latest row; only id lookups are cached.
	return r.inner.GetByOrder(ctx, orderID)
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.PaymentTransaction, error) {
	if hit, err := r.cache.Get(ctx, id); err == nil && hit != nil {
		return hit, nil
	} else if err != nil {
		log.Debug().Err(err).Str("transaction_id", id).Msg("record cache read failed")
	}

	tx, err := r.inner.GetByID(ctx, id)
	if err != nil || tx == nil {
		return tx, err
	}
	r.fill(ctx, tx)
	return tx, nil
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, status transaction.Status, providerTxID, errMsg string) (*transaction.PaymentTransaction, error) {
	r.drop(ctx, id)
	updated, err := r.inner.UpdateStatus(ctx, id, status, providerTxID, errMsg)
	if err == nil && updated != nil {
		r.fill(ctx, updated)
	}
	return updated, err
}

func (r *TransactionRepository) UpdateCallbackStatus(ctx context.Context, id string, status transaction.CallbackStatus, errMsg string) (*transaction.PaymentTransaction, error) {
	r.drop(ctx, id)
	updated, err := r.inner.UpdateCallbackStatus(ctx, id, status, errMsg)
	if err == nil && updated != nil {
		r.fill(ctx, updated)
	}
	return updated, err
}

func (r *TransactionRepository) UpsertByOrderIfPending(ctx context.Context, tx *transaction.PaymentTransaction) (*transaction.PaymentTransaction, bool, error) {
	saved, created, err := r.inner.UpsertByOrderIfPending(ctx, tx)
	if err == nil && saved != nil {
		r.fill(ctx, saved)
	}
	return saved, created, err
}

func (r *TransactionRepository) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*transaction.PaymentTransaction, error) {
	return r.inner.ListStalePending(ctx, cutoff, limit)
}

func (r *TransactionRepository) fill(ctx context.Context, tx *transaction.PaymentTransaction) {
	if err := r.cache.Set(ctx, tx); err != nil {
		log.Debug().Err(err).Str("transaction_id", tx.ID).Msg("record cache write failed")
	}
}

func (r *TransactionRepository) drop(ctx context.Context, id string) {
	if err := r.cache.Invalidate(ctx, id); err != nil {
		log.Debug().Err(err).Str("transaction_id", id).Msg("record cache invalidate failed")
	}
}
