package providers

import (
	"context"
	"time"
)

// ChargeResult is the provider's answer to a charge initiation: the
// payload the end user needs to pay (QR code or link) and the provider's
// own identifier for the charge.
type ChargeResult struct {
	QROrLink         string
	ProviderChargeID string
}

// Provider initiates charges with an external payment processor.
type Provider interface {
	// Name returns the provider name.
	Name() string
	// CreateCharge registers a charge and returns its payment payload.
	CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

type ChargeRequest struct {
	TransactionID string
	OrderID       int64
	Amount        float64
	ExpiresAt     time.Time
}
