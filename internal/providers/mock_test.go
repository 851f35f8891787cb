package providers

import (
	"context"
	"testing"
	"time"

	domainErrors "github.com/cassiomorais/payment-orchestrator/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChargeRequest() ChargeRequest {
	return ChargeRequest{
		TransactionID: "tx-1",
		OrderID:       42,
		Amount:        99.90,
		ExpiresAt:     time.Now().UTC().Add(15 * time.Minute),
	}
}

func TestNewMockProvider(t *testing.T) {
	provider := NewMockProvider("test")

	assert.NotNil(t, provider)
	assert.Equal(t, "test", provider.Name())
}

func TestMockProvider_CreateCharge_Success(t *testing.T) {
	provider := NewMockProvider("test", WithFailureRate(0.0), WithLatency(0))
	ctx := context.Background()

	result, err := provider.CreateCharge(ctx, testChargeRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, result.QROrLink)
	assert.Contains(t, result.ProviderChargeID, "test_chg_")
	assert.Contains(t, result.QROrLink, "42")
}

func TestMockProvider_CreateCharge_Failure(t *testing.T) {
	provider := NewMockProvider("test", WithFailureRate(1.0), WithLatency(0))
	ctx := context.Background()

	_, err := provider.CreateCharge(ctx, testChargeRequest())
	assert.ErrorIs(t, err, domainErrors.ErrProviderRejected)
}

func TestMockProvider_CreateCharge_Timeout(t *testing.T) {
	provider := NewMockProvider("test", WithTimeoutRate(1.0), WithLatency(0))
	ctx := context.Background()

	_, err := provider.CreateCharge(ctx, testChargeRequest())
	assert.ErrorIs(t, err, domainErrors.ErrProviderTimeout)
}

func TestMockProvider_CreateCharge_ContextCancelled(t *testing.T) {
	provider := NewMockProvider("test", WithLatency(5*time.Second))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.CreateCharge(ctx, testChargeRequest())
	assert.ErrorIs(t, err, context.Canceled)
}
