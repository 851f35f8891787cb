package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/cassiomorais/payment-orchestrator/internal/domain/errors"
	"github.com/cassiomorais/payment-orchestrator/internal/domain/transaction"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// TransactionRepository implements transaction.Repository on PostgreSQL.
// Each transaction is stored as its serialized Record in a jsonb column,
// with id, order_id and created_at lifted out for keying and indexing.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// CreatePending inserts a new transaction. The primary key makes the
// insert an atomic "create if absent": a concurrent writer with the same
// id loses with ErrDuplicateTransaction instead of overwriting.
func (r *TransactionRepository) CreatePending(ctx context.Context, tx *transaction.PaymentTransaction) (*transaction.PaymentTransaction, error) {
	doc, err := json.Marshal(tx.ToRecord())
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO payment_transactions (id, order_id, created_at, record)
		 VALUES ($1, $2, $3, $4)`,
		tx.ID, tx.OrderID, tx.CreatedAt, doc,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrDuplicateTransaction
		}
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	return tx, nil
}

// GetByOrder returns the latest transaction for the order, newest
// created_at first. Query failures degrade to a nil result so callers
// treat them as "no record"; the failure is logged, not returned.
func (r *TransactionRepository) GetByOrder(ctx context.Context, orderID int64) (*transaction.PaymentTransaction, error) {
	tx, err := r.scanRecord(r.pool.QueryRow(ctx,
		`SELECT record FROM payment_transactions
		 WHERE order_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`, orderID))
	if err != nil {
		log.Warn().Err(err).Int64("order_id", orderID).Msg("order lookup degraded to absent")
		return nil, nil
	}
	return tx, nil
}

// GetByID returns the transaction with the given id, or nil when missing.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.PaymentTransaction, error) {
	tx, err := r.scanRecord(r.pool.QueryRow(ctx,
		`SELECT record FROM payment_transactions WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return tx, nil
}

// UpdateStatus merges the status transition into the stored record in one
// statement. provider_tx_id is only written when the record has none yet,
// mirroring the "first webhook wins" correlation rule; an empty
// providerTxID defaults to the transaction id itself.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, status transaction.Status, providerTxID, errMsg string) (*transaction.PaymentTransaction, error) {
	if providerTxID == "" {
		providerTxID = id
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE payment_transactions
		 SET record = record || jsonb_build_object(
		     'status', $2::text,
		     'last_error', $3::text,
		     'updated_at', $4::text,
		     'provider_tx_id', COALESCE(record->>'provider_tx_id', $5::text))
		 WHERE id = $1`,
		id, string(status), errMsg, time.Now().UTC().Format(time.RFC3339Nano), providerTxID,
	)
	if err != nil {
		log.Warn().Err(err).Str("transaction_id", id).Msg("status update degraded to absent")
		return nil, nil
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

// UpdateCallbackStatus merges a callback delivery outcome into the record,
// with the same degrade-to-nil behavior as UpdateStatus.
func (r *TransactionRepository) UpdateCallbackStatus(ctx context.Context, id string, status transaction.CallbackStatus, errMsg string) (*transaction.PaymentTransaction, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payment_transactions
		 SET record = record || jsonb_build_object(
		     'callback_status', $2::text,
		     'last_callback_error', $3::text,
		     'updated_at', $4::text)
		 WHERE id = $1`,
		id, string(status), errMsg, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		log.Warn().Err(err).Str("transaction_id", id).Msg("callback status update degraded to absent")
		return nil, nil
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

// UpsertByOrderIfPending returns the existing transaction for the order
// when one exists, regardless of its status; only a brand-new order gets
// tx inserted. Two concurrent creators for the same order can both see
// "absent" here, so a duplicate-key loss on insert re-fetches the winner.
func (r *TransactionRepository) UpsertByOrderIfPending(ctx context.Context, tx *transaction.PaymentTransaction) (*transaction.PaymentTransaction, bool, error) {
	existing, err := r.GetByOrder(ctx, tx.OrderID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	created, err := r.CreatePending(ctx, tx)
	if err != nil {
		if errors.Is(err, domainErrors.ErrDuplicateTransaction) {
			winner, ferr := r.GetByOrder(ctx, tx.OrderID)
			if ferr == nil && winner != nil {
				return winner, false, nil
			}
			return nil, false, err
		}
		return nil, false, err
	}
	return created, true, nil
}

// ListStalePending returns PENDING transactions whose expiry deadline has
// passed, oldest first.
func (r *TransactionRepository) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*transaction.PaymentTransaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT record FROM payment_transactions
		 WHERE record->>'status' = $1
		   AND record ? 'expires_at'
		   AND (record->>'expires_at')::timestamptz <= $2
		 ORDER BY created_at ASC
		 LIMIT $3`,
		string(transaction.StatusPending), cutoff, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list stale transactions: %w", err)
	}
	defer rows.Close()

	var stale []*transaction.PaymentTransaction
	for rows.Next() {
		tx, err := r.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		stale = append(stale, tx)
	}
	return stale, rows.Err()
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord decodes a stored record into the aggregate. A missing row
// yields (nil, nil).
func (r *TransactionRepository) scanRecord(s scanner) (*transaction.PaymentTransaction, error) {
	var doc []byte
	if err := s.Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan record: %w", err)
	}

	var rec transaction.Record
	if err := json.Unmarshal(doc, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return transaction.FromRecord(rec), nil
}
