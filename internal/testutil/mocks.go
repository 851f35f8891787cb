package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/cassiomorais/payment-orchestrator/internal/domain/transaction"
)

// --- Transaction Repository Mock ---

// MockTransactionRepository is an in-memory implementation of
// transaction.Repository. Per-method Func fields override the default
// behavior for failure injection.
type MockTransactionRepository struct {
	mu           sync.Mutex
	transactions map[string]*transaction.PaymentTransaction

	CreatePendingFunc          func(ctx context.Context, tx *transaction.PaymentTransaction) (*transaction.PaymentTransaction, error)
	GetByOrderFunc             func(ctx context.Context, orderID int64) (*transaction.PaymentTransaction, error)
	GetByIDFunc                func(ctx context.Context, id string) (*transaction.PaymentTransaction, error)
	UpdateStatusFunc           func(ctx context.Context, id string, status transaction.Status, providerTxID, errMsg string) (*transaction.PaymentTransaction, error)
	UpdateCallbackStatusFunc   func(ctx context.Context, id string, status transaction.CallbackStatus, errMsg string) (*transaction.PaymentTransaction, error)
	UpsertByOrderIfPendingFunc func(ctx context.Context, tx *transaction.PaymentTransaction) (*transaction.PaymentTransaction, bool, error)
	ListStalePendingFunc       func(ctx context.Context, cutoff time.Time, limit int) ([]*transaction.PaymentTransaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*transaction.PaymentTransaction),
	}
}

// Add pre-populates the mock with a transaction.
func (m *MockTransactionRepository) Add(tx *transaction.PaymentTransaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[tx.ID] = tx
}

// Get returns the stored transaction (test helper, no context needed).
func (m *MockTransactionRepository) Get(id string) *transaction.PaymentTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transactions[id]
}

func (m *MockTransactionRepository) CreatePending(ctx context.Context, tx *transaction.PaymentTransaction) (*transaction.PaymentTransaction, error) {
	if m.CreatePendingFunc != nil {
		return m.CreatePendingFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[tx.ID] = tx
	return tx, nil
}

func (m *MockTransactionRepository) GetByOrder(ctx context.Context, orderID int64) (*transaction.PaymentTransaction, error) {
	if m.GetByOrderFunc != nil {
		return m.GetByOrderFunc(ctx, orderID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latestForOrder(orderID), nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*transaction.PaymentTransaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return nil, nil
	}
	return tx, nil
}

func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, id string, status transaction.Status, providerTxID, errMsg string) (*transaction.PaymentTransaction, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, providerTxID, errMsg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return nil, nil
	}
	if providerTxID == "" {
		providerTxID = id
	}
	tx.MarkStatus(status, providerTxID, errMsg)
	return tx, nil
}

func (m *MockTransactionRepository) UpdateCallbackStatus(ctx context.Context, id string, status transaction.CallbackStatus, errMsg string) (*transaction.PaymentTransaction, error) {
	if m.UpdateCallbackStatusFunc != nil {
		return m.UpdateCallbackStatusFunc(ctx, id, status, errMsg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return nil, nil
	}
	tx.MarkCallback(status, errMsg)
	return tx, nil
}

func (m *MockTransactionRepository) UpsertByOrderIfPending(ctx context.Context, tx *transaction.PaymentTransaction) (*transaction.PaymentTransaction, bool, error) {
	if m.UpsertByOrderIfPendingFunc != nil {
		return m.UpsertByOrderIfPendingFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing := m.latestForOrder(tx.OrderID); existing != nil {
		return existing, false, nil
	}
	m.transactions[tx.ID] = tx
	return tx, true, nil
}

func (m *MockTransactionRepository) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*transaction.PaymentTransaction, error) {
	if m.ListStalePendingFunc != nil {
		return m.ListStalePendingFunc(ctx, cutoff, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var stale []*transaction.PaymentTransaction
	for _, tx := range m.transactions {
		if len(stale) >= limit {
			break
		}
		if tx.Status == transaction.StatusPending && tx.ExpiresAt != nil && !tx.ExpiresAt.After(cutoff) {
			stale = append(stale, tx)
		}
	}
	return stale, nil
}

func (m *MockTransactionRepository) latestForOrder(orderID int64) *transaction.PaymentTransaction {
	var latest *transaction.PaymentTransaction
	for _, tx := range m.transactions {
		if tx.OrderID != orderID {
			continue
		}
		if latest == nil || tx.CreatedAt.After(latest.CreatedAt) {
			latest = tx
		}
	}
	return latest
}

// --- Redelivery Queue Mock ---

// MockRedeliveryQueue records enqueued transaction ids.
type MockRedeliveryQueue struct {
	mu       sync.Mutex
	enqueued []string

	EnqueueRedeliveryFunc func(ctx context.Context, transactionID string) error
}

func (m *MockRedeliveryQueue) EnqueueRedelivery(ctx context.Context, transactionID string) error {
	if m.EnqueueRedeliveryFunc != nil {
		return m.EnqueueRedeliveryFunc(ctx, transactionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enqueued = append(m.enqueued, transactionID)
	return nil
}

// Enqueued returns the ids enqueued so far.
func (m *MockRedeliveryQueue) Enqueued() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.enqueued...)
}
