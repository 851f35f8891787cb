package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cassiomorais/payment-orchestrator/internal/domain/transaction"
	"github.com/cassiomorais/payment-orchestrator/internal/infrastructure/config"
	"github.com/cassiomorais/payment-orchestrator/internal/infrastructure/observability"
	"github.com/rs/zerolog/log"
)

// callbackPayload is the body posted to the order service once a
// transaction reaches a terminal payment status.
type callbackPayload struct {
	TransactionID  string `json:"transaction_id"`
	ApprovalStatus bool   `json:"approval_status"`
	Date           string `json:"date"`
	Message        string `json:"message"`
}

// DeliverCallbackUseCase notifies the order service about a payment
// outcome and records the delivery result on the transaction. A failed
// delivery is enqueued for redelivery when a queue is configured.
type DeliverCallbackUseCase struct {
	repo    transaction.Repository
	client  *http.Client
	cfg     config.CallbackConfig
	queue   RedeliveryQueue
	metrics *observability.Metrics
}

// NewDeliverCallbackUseCase creates a new DeliverCallbackUseCase. queue
// and metrics may be nil; client falls back to http.DefaultClient.
func NewDeliverCallbackUseCase(
	repo transaction.Repository,
	client *http.Client,
	cfg config.CallbackConfig,
	queue RedeliveryQueue,
	metrics *observability.Metrics,
) *DeliverCallbackUseCase {
	if client == nil {
		client = http.DefaultClient
	}
	return &DeliverCallbackUseCase{
		repo:    repo,
		client:  client,
		cfg:     cfg,
		queue:   queue,
		metrics: metrics,
	}
}

// Execute posts the confirmation callback for tx and stamps the outcome.
// Delivery problems never bubble up as errors; they are absorbed into the
// transaction's callback status so the payment flow itself stays intact.
// The returned transaction reflects the recorded outcome, or tx itself
// when even the stamp write degraded to absent.
func (uc *DeliverCallbackUseCase) Execute(ctx context.Context, tx *transaction.PaymentTransaction) *transaction.PaymentTransaction {
	start := time.Now()
	outcome, errMsg := uc.attempt(ctx, tx)

	if uc.metrics != nil {
		uc.metrics.CallbackDuration.Observe(time.Since(start).Seconds())
		uc.metrics.CallbackDeliveries.WithLabelValues(strings.ToLower(string(outcome))).Inc()
	}

	updated, err := uc.repo.UpdateCallbackStatus(ctx, tx.ID, outcome, errMsg)
	if err != nil || updated == nil {
		log.Warn().Err(err).Str("transaction_id", tx.ID).
			Msg("could not record callback outcome")
		updated = tx
	}

	if outcome == transaction.CallbackFailed && uc.queue != nil {
		if err := uc.queue.EnqueueRedelivery(ctx, tx.ID); err != nil {
			log.Error().Err(err).Str("transaction_id", tx.ID).
				Msg("failed to enqueue callback redelivery")
		}
	}

	return updated
}

// attempt performs a single delivery and classifies the result.
func (uc *DeliverCallbackUseCase) attempt(ctx context.Context, tx *transaction.PaymentTransaction) (transaction.CallbackStatus, string) {
	payload := callbackPayload{
		TransactionID:  tx.ID,
		ApprovalStatus: tx.Status == transaction.StatusApproved,
		Date:           time.Now().UTC().Format(time.RFC3339Nano),
		Message:        tx.LastError,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return transaction.CallbackFailed, fmt.Sprintf("Callback failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uc.targetURL(tx), bytes.NewReader(body))
	if err != nil {
		return transaction.CallbackFailed, fmt.Sprintf("Callback failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	switch {
	case uc.cfg.Username != "" && uc.cfg.Password != "":
		req.SetBasicAuth(uc.cfg.Username, uc.cfg.Password)
	case uc.cfg.Token != "":
		req.Header.Set("Authorization", "Bearer "+uc.cfg.Token)
	}

	resp, err := uc.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("transaction_id", tx.ID).Msg("callback request failed")
		return transaction.CallbackFailed, err.Error()
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		log.Warn().Int("status", resp.StatusCode).Str("transaction_id", tx.ID).
			Msg("callback rejected by receiver")
		return transaction.CallbackFailed, fmt.Sprintf("Callback failed: status %d", resp.StatusCode)
	}

	log.Info().Str("transaction_id", tx.ID).Int("status", resp.StatusCode).
		Msg("callback delivered")
	return transaction.CallbackDelivered, ""
}

// targetURL prefers the per-transaction callback URL captured at creation
// time, falling back to the configured order service endpoint.
func (uc *DeliverCallbackUseCase) targetURL(tx *transaction.PaymentTransaction) string {
	if url, ok := tx.Metadata[transaction.MetadataCallbackURL]; ok && url != "" {
		return url
	}
	return fmt.Sprintf("%s/order/payment_confirm/%d",
		strings.TrimRight(uc.cfg.OrderAPIHost, "/"), tx.OrderID)
}
