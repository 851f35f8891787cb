package payment

import (
	"context"
	"time"

	"github.com/cassiomorais/payment-orchestrator/internal/domain/transaction"
	"github.com/cassiomorais/payment-orchestrator/internal/infrastructure/observability"
	"github.com/rs/zerolog/log"
)

// ExpirePendingUseCase sweeps PENDING transactions whose payment window
// has closed and moves them to EXPIRED.
type ExpirePendingUseCase struct {
	repo      transaction.Repository
	batchSize int
	metrics   *observability.Metrics
}

// NewExpirePendingUseCase creates a new ExpirePendingUseCase. metrics may
// be nil.
func NewExpirePendingUseCase(repo transaction.Repository, batchSize int, metrics *observability.Metrics) *ExpirePendingUseCase {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ExpirePendingUseCase{repo: repo, batchSize: batchSize, metrics: metrics}
}

// Execute expires one batch of stale transactions and returns how many
// were transitioned. Individual write failures are skipped; the sweeper
// picks them up on the next pass.
func (uc *ExpirePendingUseCase) Execute(ctx context.Context, now time.Time) (int, error) {
	stale, err := uc.repo.ListStalePending(ctx, now, uc.batchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, tx := range stale {
		updated, err := uc.repo.UpdateStatus(ctx, tx.ID, transaction.StatusExpired, "", "")
		if err != nil || updated == nil {
			log.Warn().Err(err).Str("transaction_id", tx.ID).
				Msg("could not expire transaction, will retry next sweep")
			continue
		}
		expired++
		log.Info().Str("transaction_id", tx.ID).Int64("order_id", tx.OrderID).
			Msg("transaction expired")
	}

	if uc.metrics != nil && expired > 0 {
		uc.metrics.TransactionsExpired.Add(float64(expired))
	}

	return expired, nil
}
