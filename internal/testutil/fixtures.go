package testutil

import (
	"time"

	"github.com/cassiomorais/payment-orchestrator/internal/domain/transaction"
)

func NewTestTransaction(orderID int64, amount float64) *transaction.PaymentTransaction {
	expiresAt := time.Now().UTC().Add(15 * time.Minute)
	return transaction.New(orderID, amount, "", "https://pay.local/tx/1", &expiresAt)
}

func NewApprovedTransaction(orderID int64, amount float64) *transaction.PaymentTransaction {
	tx := NewTestTransaction(orderID, amount)
	tx.MarkStatus(transaction.StatusApproved, "prov-tx-1", "")
	return tx
}

func NewExpiredPendingTransaction(orderID int64, amount float64) *transaction.PaymentTransaction {
	tx := NewTestTransaction(orderID, amount)
	past := time.Now().UTC().Add(-time.Minute)
	tx.ExpiresAt = &past
	return tx
}

func TimePtr(t time.Time) *time.Time {
	return &t
}
