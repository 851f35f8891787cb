package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cassiomorais/payment-orchestrator/internal/domain/transaction"
	"github.com/cassiomorais/payment-orchestrator/internal/infrastructure/config"
	"github.com/cassiomorais/payment-orchestrator/internal/providers"
	"github.com/rs/zerolog/log"
)

// CreatePaymentRequest holds the input for requesting a payment.
type CreatePaymentRequest struct {
	OrderID     int64
	Amount      float64
	CallbackURL string
	Provider    string
}

// CreatePaymentResponse is what the caller needs to initiate payment.
type CreatePaymentResponse struct {
	TransactionID string
	QROrLink      string
	ExpiresAt     *time.Time
	Created       bool
}

// CreatePaymentUseCase creates or reuses a pending transaction for an
// order. Idempotency by order: repeated requests return the transaction
// already on file instead of opening a second one.
type CreatePaymentUseCase struct {
	repo            transaction.Repository
	providerFactory *providers.Factory
	cfg             config.PaymentConfig
}

// NewCreatePaymentUseCase creates a new CreatePaymentUseCase.
func NewCreatePaymentUseCase(repo transaction.Repository, providerFactory *providers.Factory, cfg config.PaymentConfig) *CreatePaymentUseCase {
	return &CreatePaymentUseCase{
		repo:            repo,
		providerFactory: providerFactory,
		cfg:             cfg,
	}
}

// Execute builds a pending transaction and runs it through the order
// idempotency gate. The response always describes the transaction in
// effect, whether freshly created or reused.
func (uc *CreatePaymentUseCase) Execute(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error) {
	expiresAt := time.Now().UTC().Add(uc.cfg.Expiry)
	qrOrLink := fmt.Sprintf("%s/tx/%d", strings.TrimRight(uc.cfg.QRBaseURL, "/"), req.OrderID)

	tx := transaction.New(req.OrderID, req.Amount, req.Provider, qrOrLink, &expiresAt)
	if req.CallbackURL != "" {
		tx.Metadata[transaction.MetadataCallbackURL] = req.CallbackURL
	}

	// A known provider can hand out a richer payment payload; the
	// deterministic link above stays as the fallback.
	if req.Provider != "" {
		uc.attachProviderCharge(ctx, tx, req.Provider)
	}

	saved, created, err := uc.repo.UpsertByOrderIfPending(ctx, tx)
	if err != nil {
		return nil, err
	}
	if !created {
		tx = saved
	}

	return &CreatePaymentResponse{
		TransactionID: tx.ID,
		QROrLink:      tx.QROrLink,
		ExpiresAt:     tx.ExpiresAt,
		Created:       created,
	}, nil
}

func (uc *CreatePaymentUseCase) attachProviderCharge(ctx context.Context, tx *transaction.PaymentTransaction, name string) {
	provider, breaker, err := uc.providerFactory.Get(name)
	if err != nil {
		log.Debug().Str("provider", name).Msg("unknown provider, using default payment link")
		return
	}

	result, err := breaker.Execute(func() (*providers.ChargeResult, error) {
		return provider.CreateCharge(ctx, providers.ChargeRequest{
			TransactionID: tx.ID,
			OrderID:       tx.OrderID,
			Amount:        tx.Amount,
			ExpiresAt:     *tx.ExpiresAt,
		})
	})
	if err != nil {
		log.Warn().Err(err).Str("provider", name).Int64("order_id", tx.OrderID).
			Msg("provider charge failed, using default payment link")
		return
	}

	tx.QROrLink = result.QROrLink
	tx.Metadata["provider_charge_id"] = result.ProviderChargeID
}
