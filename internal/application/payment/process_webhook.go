package payment

import (
	"context"

	domainErrors "github.com/cassiomorais/payment-orchestrator/internal/domain/errors"
	"github.com/cassiomorais/payment-orchestrator/internal/domain/transaction"
)

// WebhookRequest is the provider's notification about a payment outcome.
// The provider-facing transaction id is the internal id in this system.
// The provider's own date and event id are accepted at the edge but carry
// no state of ours.
type WebhookRequest struct {
	TransactionID  string
	ApprovalStatus bool
	Message        string
}

// ProcessWebhookUseCase applies a provider webhook to the transaction it
// references.
type ProcessWebhookUseCase struct {
	repo transaction.Repository
}

// NewProcessWebhookUseCase creates a new ProcessWebhookUseCase.
func NewProcessWebhookUseCase(repo transaction.Repository) *ProcessWebhookUseCase {
	return &ProcessWebhookUseCase{repo: repo}
}

// Execute transitions the referenced transaction to APPROVED or DECLINED.
// A missing transaction — and an update that degraded to absent, which
// this layer cannot tell apart — surfaces as ErrTransactionNotFound.
func (uc *ProcessWebhookUseCase) Execute(ctx context.Context, req WebhookRequest) (*transaction.PaymentTransaction, error) {
	tx, err := uc.repo.GetByID(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domainErrors.ErrTransactionNotFound
	}

	newStatus := transaction.StatusDeclined
	if req.ApprovalStatus {
		newStatus = transaction.StatusApproved
	}

	updated, err := uc.repo.UpdateStatus(ctx, tx.ID, newStatus, req.TransactionID, req.Message)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domainErrors.ErrTransactionNotFound
	}
	return updated, nil
}
