package controller

import (
	"time"

	"github.com/cassiomorais/payment-orchestrator/internal/application/payment"
)

// --- Request DTOs ---
// DTOs carry HTTP/JSON concerns (float64 for money, validation tags).
// Controllers convert these to application-layer requests.

// PaymentRequestBody holds the input for requesting a payment.
type PaymentRequestBody struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	CallbackURL string  `json:"callback_url,omitempty" validate:"omitempty,url"`
	Provider    string  `json:"provider,omitempty"`
}

// WebhookBody is the payload providers post to the webhook endpoint.
type WebhookBody struct {
	TransactionID  string `json:"transaction_id" validate:"required"`
	ApprovalStatus bool   `json:"approval_status"`
	Message        string `json:"message,omitempty"`
	Date           string `json:"date,omitempty"`
	EventID        string `json:"event_id,omitempty"`
}

// --- Response DTOs ---

// PaymentRequestResponse is returned from the payment request endpoint.
type PaymentRequestResponse struct {
	TransactionID string     `json:"transaction_id"`
	QROrLink      string     `json:"qr_or_link"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

// WebhookResponse acknowledges a processed provider webhook.
type WebhookResponse struct {
	Message       string `json:"message"`
	TransactionID string `json:"transaction_id"`
}

// TransactionStatusResponse is the status projection returned to pollers
// and webhook callers.
type TransactionStatusResponse struct {
	TransactionID  string     `json:"transaction_id"`
	OrderID        int64      `json:"order_id"`
	Status         string     `json:"status"`
	CallbackStatus string     `json:"callback_status"`
	QROrLink       string     `json:"qr_or_link,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	LastError      string     `json:"last_error,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// --- Conversion helpers ---

// FromStatusView converts the application status projection to the API
// shape.
func FromStatusView(v *payment.StatusView) *TransactionStatusResponse {
	return &TransactionStatusResponse{
		TransactionID:  v.TransactionID,
		OrderID:        v.OrderID,
		Status:         string(v.Status),
		CallbackStatus: string(v.CallbackStatus),
		QROrLink:       v.QROrLink,
		ExpiresAt:      v.ExpiresAt,
		LastError:      v.LastError,
	}
}
