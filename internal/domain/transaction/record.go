package transaction

import "time"

// Record is the flat storage document for a transaction. Required fields
// are always present; optional fields are omitted when absent rather than
// written as nulls, keeping stored documents compact. Timestamps are
// RFC 3339 strings, enums their string literals.
type Record struct {
	ID                string            `json:"id"`
	OrderID           int64             `json:"order_id"`
	Amount            float64           `json:"amount"`
	Status            string            `json:"status"`
	CreatedAt         string            `json:"created_at"`
	UpdatedAt         string            `json:"updated_at"`
	Metadata          map[string]string `json:"metadata"`
	CallbackStatus    string            `json:"callback_status"`
	Provider          string            `json:"provider,omitempty"`
	ProviderTxID      string            `json:"provider_tx_id,omitempty"`
	QROrLink          string            `json:"qr_or_link,omitempty"`
	ExpiresAt         string            `json:"expires_at,omitempty"`
	LastError         string            `json:"last_error,omitempty"`
	LastCallbackError string            `json:"last_callback_error,omitempty"`
}

// ToRecord serializes the transaction into its storage document.
func (t *PaymentTransaction) ToRecord() Record {
	r := Record{
		ID:                t.ID,
		OrderID:           t.OrderID,
		Amount:            t.Amount,
		Status:            string(t.Status),
		CreatedAt:         t.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:         t.UpdatedAt.UTC().Format(time.RFC3339Nano),
		Metadata:          t.Metadata,
		CallbackStatus:    string(t.CallbackStatus),
		Provider:          t.Provider,
		ProviderTxID:      t.ProviderTxID,
		QROrLink:          t.QROrLink,
		LastError:         t.LastError,
		LastCallbackError: t.LastCallbackError,
	}
	if r.Metadata == nil {
		r.Metadata = make(map[string]string)
	}
	if t.ExpiresAt != nil {
		r.ExpiresAt = t.ExpiresAt.UTC().Format(time.RFC3339Nano)
	}
	return r
}

// FromRecord is the inverse of ToRecord. Reads are tolerant for forward
// compatibility: missing status fields default to PENDING, a missing
// metadata map to empty, and missing timestamps to the current time.
func FromRecord(r Record) *PaymentTransaction {
	t := &PaymentTransaction{
		ID:                r.ID,
		OrderID:           r.OrderID,
		Amount:            r.Amount,
		Status:            StatusPending,
		Provider:          r.Provider,
		ProviderTxID:      r.ProviderTxID,
		QROrLink:          r.QROrLink,
		CreatedAt:         parseTimeOrNow(r.CreatedAt),
		UpdatedAt:         parseTimeOrNow(r.UpdatedAt),
		LastError:         r.LastError,
		Metadata:          r.Metadata,
		CallbackStatus:    CallbackPending,
		LastCallbackError: r.LastCallbackError,
	}
	if r.Status != "" {
		t.Status = Status(r.Status)
	}
	if r.CallbackStatus != "" {
		t.CallbackStatus = CallbackStatus(r.CallbackStatus)
	}
	if t.Metadata == nil {
		t.Metadata = make(map[string]string)
	}
	if r.ExpiresAt != "" {
		if ts, err := time.Parse(time.RFC3339Nano, r.ExpiresAt); err == nil {
			ts = ts.UTC()
			t.ExpiresAt = &ts
		}
	}
	return t
}

func parseTimeOrNow(s string) time.Time {
	if s == "" {
		return time.Now().UTC()
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Now().UTC()
	}
	return ts.UTC()
}
