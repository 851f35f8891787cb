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

func TestProcessWebhook_Approved(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockTransactionRepository()
	tx := testutil.NewTestTransaction(1, 50)
	repo.Add(tx)

	uc := paymentApp.NewProcessWebhookUseCase(repo)

	updated, err := uc.Execute(ctx, paymentApp.WebhookRequest{
		TransactionID:  tx.ID,
		ApprovalStatus: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != transaction.StatusApproved {
		t.Errorf("expected APPROVED, got %s", updated.Status)
	}
	if updated.ProviderTxID != tx.ID {
		t.Errorf("expected provider tx id to default to %s, got %s", tx.ID, updated.ProviderTxID)
	}
}

func TestProcessWebhook_Declined(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockTransactionRepository()
	tx := testutil.NewTestTransaction(2, 50)
	repo.Add(tx)

	uc := paymentApp.NewProcessWebhookUseCase(repo)

	updated, err := uc.Execute(ctx, paymentApp.WebhookRequest{
		TransactionID:  tx.ID,
		ApprovalStatus: false,
		Message:        "insufficient funds",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != transaction.StatusDeclined {
		t.Errorf("expected DECLINED, got %s", updated.Status)
	}
	if updated.LastError != "insufficient funds" {
		t.Errorf("expected provider message recorded, got %q", updated.LastError)
	}
}

func TestProcessWebhook_UnknownTransaction(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockTransactionRepository()
	uc := paymentApp.NewProcessWebhookUseCase(repo)

	_, err := uc.Execute(ctx, paymentApp.WebhookRequest{TransactionID: "missing", ApprovalStatus: true})
	if !errors.Is(err, domainErrors.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestProcessWebhook_DegradedUpdatePresentsAsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMockTransactionRepository()
	tx := testutil.NewTestTransaction(3, 50)
	repo.Add(tx)
	repo.UpdateStatusFunc = func(_ context.Context, _ string, _ transaction.Status, _, _ string) (*transaction.PaymentTransaction, error) {
		return nil, nil
	}

	uc := paymentApp.NewProcessWebhookUseCase(repo)

	_, err := uc.Execute(ctx, paymentApp.WebhookRequest{TransactionID: tx.ID, ApprovalStatus: true})
	if !errors.Is(err, domainErrors.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound for degraded update, got %v", err)
	}
}
