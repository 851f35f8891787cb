package transaction

import (
	"context"
	"time"
)

// Repository defines persistence for payment transactions. A nil
// transaction with a nil error means "absent"; several operations degrade
// backend failures to absent as well, matching the store contract callers
// rely on (see the method comments).
type Repository interface {
	// CreatePending inserts a new transaction. It must be an atomic
	// conditional insert: a record with the same id already existing
	// yields errors.ErrDuplicateTransaction, never a silent overwrite.
	CreatePending(ctx context.Context, tx *PaymentTransaction) (*PaymentTransaction, error)

	// GetByOrder returns the most recently created transaction for the
	// order, or nil if none exists. Index lookup failures also degrade
	// to nil, so callers cannot distinguish "no record" from "couldn't
	// check" at this layer.
	GetByOrder(ctx context.Context, orderID int64) (*PaymentTransaction, error)

	// GetByID returns the transaction with the given id, or nil.
	GetByID(ctx context.Context, id string) (*PaymentTransaction, error)

	// UpdateStatus applies a status transition server-side. An absent
	// providerTxID defaults to the transaction id, an absent errMsg to
	// the empty string. Write failures degrade to a nil result.
	UpdateStatus(ctx context.Context, id string, status Status, providerTxID, errMsg string) (*PaymentTransaction, error)

	// UpdateCallbackStatus records a callback delivery outcome, with the
	// same degrade-to-nil behavior as UpdateStatus.
	UpdateCallbackStatus(ctx context.Context, id string, status CallbackStatus, errMsg string) (*PaymentTransaction, error)

	// UpsertByOrderIfPending is the idempotency gate for creation: any
	// existing transaction for the order is returned unchanged with
	// created=false, regardless of its status; only when none exists is
	// tx inserted. A lost creation race re-fetches and returns the winner.
	UpsertByOrderIfPending(ctx context.Context, tx *PaymentTransaction) (*PaymentTransaction, bool, error)

	// ListStalePending returns up to limit PENDING transactions whose
	// expiry deadline is at or before cutoff.
	ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*PaymentTransaction, error)
}
