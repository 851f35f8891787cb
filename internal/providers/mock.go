package providers

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	domainErrors "github.com/cassiomorais/payment-orchestrator/internal/domain/errors"
	"github.com/google/uuid"
)

// MockProvider simulates a charge processor with configurable latency and
// failure behavior. It stands in for the real integrations, which live
// outside this service.
type MockProvider struct {
	name        string
	failureRate float64 // 0.0 to 1.0
	latency     time.Duration
	timeoutRate float64 // 0.0 to 1.0
}

type MockProviderOption func(*MockProvider)

func WithFailureRate(rate float64) MockProviderOption {
	return func(p *MockProvider) { p.failureRate = rate }
}

func WithLatency(d time.Duration) MockProviderOption {
	return func(p *MockProvider) { p.latency = d }
}

func WithTimeoutRate(rate float64) MockProviderOption {
	return func(p *MockProvider) { p.timeoutRate = rate }
}

func NewMockProvider(name string, opts ...MockProviderOption) *MockProvider {
	p := &MockProvider{
		name:    name,
		latency: 50 * time.Millisecond,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *MockProvider) Name() string { return p.name }

func (p *MockProvider) CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	// Simulate latency
	select {
	case <-time.After(p.latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if rand.Float64() < p.timeoutRate {
		return nil, domainErrors.ErrProviderTimeout
	}

	if rand.Float64() < p.failureRate {
		return nil, domainErrors.ErrProviderRejected
	}

	chargeID := fmt.Sprintf("%s_chg_%s", p.name, uuid.New().String()[:8])
	return &ChargeResult{
		QROrLink:         fmt.Sprintf("https://pay.local/tx/%d?charge=%s", req.OrderID, chargeID),
		ProviderChargeID: chargeID,
	}, nil
}
