package providers

import (
	"time"

	domainErrors "github.com/cassiomorais/payment-orchestrator/internal/domain/errors"
	"github.com/sony/gobreaker/v2"
)

// Factory holds registered providers, each behind its own circuit
// breaker so a flapping processor cannot stall every creation request.
type Factory struct {
	providers       map[string]Provider
	circuitBreakers map[string]*gobreaker.CircuitBreaker[*ChargeResult]
}

func NewFactory(providersList ...Provider) *Factory {
	f := &Factory{
		providers:       make(map[string]Provider),
		circuitBreakers: make(map[string]*gobreaker.CircuitBreaker[*ChargeResult]),
	}

	if len(providersList) == 0 {
		f.Register(NewMockProvider("mercadopago",
			WithLatency(150*time.Millisecond),
			WithFailureRate(0.05),
		))
		f.Register(NewMockProvider("pix",
			WithLatency(80*time.Millisecond),
			WithFailureRate(0.02),
		))
	} else {
		for _, p := range providersList {
			f.Register(p)
		}
	}

	return f
}

func (f *Factory) Register(p Provider) {
	f.providers[p.Name()] = p
	f.circuitBreakers[p.Name()] = gobreaker.NewCircuitBreaker[*ChargeResult](gobreaker.Settings{
		Name:        p.Name(),
		MaxRequests: 10,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
	})
}

func (f *Factory) Get(name string) (Provider, *gobreaker.CircuitBreaker[*ChargeResult], error) {
	p, ok := f.providers[name]
	if !ok {
		return nil, nil, domainErrors.ErrProviderNotFound
	}
	return p, f.circuitBreakers[name], nil
}
