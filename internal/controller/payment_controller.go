package controller

import (
	"net/http"
	"strconv"

	"github.com/cassiomorais/payment-orchestrator/internal/application/payment"
	domainErrors "github.com/cassiomorais/payment-orchestrator/internal/domain/errors"
	"github.com/cassiomorais/payment-orchestrator/internal/infrastructure/observability"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PaymentController handles the payment lifecycle HTTP endpoints.
type PaymentController struct {
	createUC  *payment.CreatePaymentUseCase
	webhookUC *payment.ProcessWebhookUseCase
	statusUC  *payment.GetStatusUseCase
	deliverUC *payment.DeliverCallbackUseCase
	metrics   *observability.Metrics
}

// NewPaymentController creates a new PaymentController. metrics may be
// nil in tests.
func NewPaymentController(
	createUC *payment.CreatePaymentUseCase,
	webhookUC *payment.ProcessWebhookUseCase,
	statusUC *payment.GetStatusUseCase,
	deliverUC *payment.DeliverCallbackUseCase,
	metrics *observability.Metrics,
) *PaymentController {
	return &PaymentController{
		createUC:  createUC,
		webhookUC: webhookUC,
		statusUC:  statusUC,
		deliverUC: deliverUC,
		metrics:   metrics,
	}
}

// RequestPayment handles POST /payment/request/{order_id}. Requesting
// payment for an order that already has a transaction returns that
// transaction with 200 instead of creating another.
func (h *PaymentController) RequestPayment(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseOrderID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body PaymentRequestBody
	if err := decodeAndValidate(r, &body); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.createUC.Execute(r.Context(), payment.CreatePaymentRequest{
		OrderID:     orderID,
		Amount:      body.Amount,
		CallbackURL: body.CallbackURL,
		Provider:    body.Provider,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if h.metrics != nil {
		result := "reused"
		if resp.Created {
			result = "created"
		}
		h.metrics.TransactionsCreated.WithLabelValues(result).Inc()
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, PaymentRequestResponse{
		TransactionID: resp.TransactionID,
		QROrLink:      resp.QROrLink,
		ExpiresAt:     resp.ExpiresAt,
	})
}

// Webhook handles POST /payment/webhook/mercadopago. The confirmation
// callback to the order service runs within the request, so the provider
// response already reflects the delivery outcome.
func (h *PaymentController) Webhook(w http.ResponseWriter, r *http.Request) {
	var body WebhookBody
	if err := decodeAndValidate(r, &body); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.webhookUC.Execute(r.Context(), payment.WebhookRequest{
		TransactionID:  body.TransactionID,
		ApprovalStatus: body.ApprovalStatus,
		Message:        body.Message,
	})
	if err != nil {
		if h.metrics != nil {
			h.metrics.WebhooksProcessed.WithLabelValues("rejected").Inc()
		}
		writeError(w, err)
		return
	}

	log.Info().Str("transaction_id", updated.ID).Str("status", string(updated.Status)).
		Str("event_id", body.EventID).Msg("webhook processed")
	if h.metrics != nil {
		h.metrics.WebhooksProcessed.WithLabelValues(string(updated.Status)).Inc()
	}

	updated = h.deliverUC.Execute(r.Context(), updated)

	writeJSON(w, http.StatusOK, WebhookResponse{
		Message:       "Payment processed",
		TransactionID: updated.ID,
	})
}

// Status handles GET /payment/status/{order_id}.
func (h *PaymentController) Status(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseOrderID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	view, err := h.statusUC.Execute(r.Context(), orderID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromStatusView(view))
}

func parseOrderID(r *http.Request) (int64, error) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		return 0, domainErrors.NewValidationError("order_id", "must be a positive integer")
	}
	return orderID, nil
}
