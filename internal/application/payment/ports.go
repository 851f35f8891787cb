package payment

import "context"

// RedeliveryQueue accepts transactions whose callback delivery failed so
// a worker can retry them later. This is an application-layer port; the
// Redis stream producer is the one implementation.
type RedeliveryQueue interface {
	EnqueueRedelivery(ctx context.Context, transactionID string) error
}
