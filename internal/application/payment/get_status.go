package payment

import (
	"context"
	"time"

	domainErrors "github.com/cassiomorais/payment-orchestrator/internal/domain/errors"
	"github.com/cassiomorais/payment-orchestrator/internal/domain/transaction"
)

// StatusView is the read-only projection of a transaction returned to
// status pollers.
type StatusView struct {
	TransactionID  string
	OrderID        int64
	Status         transaction.Status
	CallbackStatus transaction.CallbackStatus
	QROrLink       string
	ExpiresAt      *time.Time
	LastError      string
}

// GetStatusUseCase retrieves transaction status by order id.
type GetStatusUseCase struct {
	repo transaction.Repository
}

// NewGetStatusUseCase creates a new GetStatusUseCase.
func NewGetStatusUseCase(repo transaction.Repository) *GetStatusUseCase {
	return &GetStatusUseCase{repo: repo}
}

func (uc *GetStatusUseCase) Execute(ctx context.Context, orderID int64) (*StatusView, error) {
	tx, err := uc.repo.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domainErrors.ErrTransactionNotFound
	}

	return &StatusView{
		TransactionID:  tx.ID,
		OrderID:        tx.OrderID,
		Status:         tx.Status,
		CallbackStatus: tx.CallbackStatus,
		QROrLink:       tx.QROrLink,
		ExpiresAt:      tx.ExpiresAt,
		LastError:      tx.LastError,
	}, nil
}
