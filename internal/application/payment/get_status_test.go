package payment_test

import (
	"context"
	"errors"
	"testing"

	paymentApp "github.com/cassiomorais/payment-orchestrator/internal/application/payment"
	domainErrors "github.com/cassiomorais/payment-orchestrator/internal/domain/errors"
	"github.com/cassiomorais/payment-orchestrator/internal/domain/transaction"
	"github.com/cassiomorais/payment-orchestrator/internal/testutil"
)

func TestGetStatus_Found(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockTransactionRepository()
	tx := testutil.NewApprovedTransaction(5, 75)
	repo.Add(tx)

	uc := paymentApp.NewGetStatusUseCase(repo)

	view, err := uc.Execute(ctx, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.TransactionID != tx.ID {
		t.Errorf("expected transaction %s, got %s", tx.ID, view.TransactionID)
	}
	if view.Status != tx.Status {
		t.Errorf("expected status %s, got %s", tx.Status, view.Status)
	}
	if view.CallbackStatus != tx.CallbackStatus {
		t.Errorf("expected callback status %s, got %s", tx.CallbackStatus, view.CallbackStatus)
	}
}

func TestGetStatus_NoTransactionForOrder(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockTransactionRepository()
	uc := paymentApp.NewGetStatusUseCase(repo)

	_, err := uc.Execute(ctx, 404)
	if !errors.Is(err, domainErrors.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestGetStatus_DegradedLookupPresentsAsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockTransactionRepository()
	tx := testutil.NewTestTransaction(6, 20)
	repo.Add(tx)
	// Index failures degrade to absent at the repository layer, so the
	// use case sees nil and reports not found.
	repo.GetByOrderFunc = func(context.Context, int64) (*transaction.PaymentTransaction, error) {
		return nil, nil
	}

	uc := paymentApp.NewGetStatusUseCase(repo)
	_, err := uc.Execute(ctx, 6)
	if !errors.Is(err, domainErrors.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}
}
