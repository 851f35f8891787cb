package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the payment transaction status in the state machine
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusDeclined Status = "DECLINED"
	StatusExpired  Status = "EXPIRED"
)

// CallbackStatus tracks delivery of the confirmation callback to the
// upstream order service. It lives independently of Status: a transaction
// can be APPROVED while its callback is still FAILED and awaiting retry.
type CallbackStatus string

const (
	CallbackPending   CallbackStatus = "PENDING"
	CallbackDelivered CallbackStatus = "DELIVERED"
	CallbackFailed    CallbackStatus = "FAILED"
)

// MetadataCallbackURL is the metadata key holding a caller-supplied
// callback target, used instead of the default order-service endpoint.
const MetadataCallbackURL = "callback_url"

// PaymentTransaction is the payment attempt aggregate. One transaction is
// tied to exactly one order at creation time; the ID is assigned once and
// never reassigned. Empty strings on optional fields mean "absent".
type PaymentTransaction struct {
	ID                string
	OrderID           int64
	Amount            float64
	Status            Status
	Provider          string
	ProviderTxID      string
	QROrLink          string
	ExpiresAt         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	LastError         string
	Metadata          map[string]string
	CallbackStatus    CallbackStatus
	LastCallbackError string
}

// New creates a pending transaction for an order. Amount positivity is
// enforced at the request boundary, not here.
func New(orderID int64, amount float64, provider, qrOrLink string, expiresAt *time.Time) *PaymentTransaction {
	now := time.Now().UTC()
	return &PaymentTransaction{
		ID:             uuid.New().String(),
		OrderID:        orderID,
		Amount:         amount,
		Status:         StatusPending,
		Provider:       provider,
		QROrLink:       qrOrLink,
		ExpiresAt:      expiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
		Metadata:       make(map[string]string),
		CallbackStatus: CallbackPending,
	}
}

// MarkStatus applies a status transition. providerTxID only overrides an
// existing value when non-empty; errMsg replaces last_error outright, so
// passing "" clears it.
func (t *PaymentTransaction) MarkStatus(status Status, providerTxID, errMsg string) {
	t.Status = status
	if providerTxID != "" {
		t.ProviderTxID = providerTxID
	}
	t.LastError = errMsg
	t.UpdatedAt = time.Now().UTC()
}

// MarkCallback records the outcome of a callback delivery attempt.
func (t *PaymentTransaction) MarkCallback(status CallbackStatus, errMsg string) {
	t.CallbackStatus = status
	t.LastCallbackError = errMsg
	t.UpdatedAt = time.Now().UTC()
}

// IsTerminal reports whether the transaction has left the PENDING state.
func (t *PaymentTransaction) IsTerminal() bool {
	return t.Status == StatusApproved ||
		t.Status == StatusDeclined ||
		t.Status == StatusExpired
}
