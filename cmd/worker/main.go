package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	paymentApp "github.com/cassiomorais/payment-orchestrator/internal/application/payment"
	"github.com/cassiomorais/payment-orchestrator/internal/bootstrap"
	domainErrors "github.com/cassiomorais/payment-orchestrator/internal/domain/errors"
	"github.com/cassiomorais/payment-orchestrator/internal/domain/transaction"
	infraRedis "github.com/cassiomorais/payment-orchestrator/internal/infrastructure/redis"
	"github.com/cassiomorais/payment-orchestrator/internal/repository/postgres"
	"github.com/cassiomorais/payment-orchestrator/pkg/retry"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "payment-worker", "payment_worker")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// The worker reads straight from Postgres; callback redelivery always
	// wants the current record, so the Redis record cache stays out.
	txRepo := postgres.NewTransactionRepository(app.Pool)

	// Redelivery runs without a queue: a still-failing callback stays
	// FAILED in the store instead of cycling through the stream forever.
	deliverUC := paymentApp.NewDeliverCallbackUseCase(
		txRepo,
		&http.Client{Timeout: app.Config.Callback.Timeout},
		app.Config.Callback,
		nil,
		app.Metrics,
	)
	expireUC := paymentApp.NewExpirePendingUseCase(txRepo, app.Config.Worker.ExpiryBatchSize, app.Metrics)

	workerCfg := app.Config.Worker
	consumer := infraRedis.NewStreamConsumer(
		app.Redis,
		infraRedis.CallbackStream,
		workerCfg.ConsumerGroup,
		app.Config.InstanceID,
		workerCfg.BatchSize,
		workerCfg.BlockDuration,
	)
	if err := consumer.CreateGroup(ctx); err != nil {
		app.Logger.Error().Err(err).Msg("Failed to create consumer group (may already exist)")
	}

	app.Logger.Info().
		Str("stream", infraRedis.CallbackStream).
		Str("group", workerCfg.ConsumerGroup).
		Str("consumer", app.Config.InstanceID).
		Msg("Worker started, listening for messages...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Callback redelivery (reads from Redis Streams).
	g.Go(func() error {
		return runCallbackRedelivery(gCtx, app, consumer, txRepo, deliverUC)
	})

	// 2. Expiry sweeper (moves overdue PENDING transactions to EXPIRED).
	g.Go(func() error {
		return runExpirySweeper(gCtx, app.Logger, expireUC, workerCfg.ExpirySweepInterval)
	})

	// 3. Wait for shutdown signal.
	g.Go(func() error {
		select {
		case <-gCtx.Done():
			return gCtx.Err()
		case <-quit:
			app.Logger.Info().Msg("Shutting down worker...")
			cancel()
			return nil
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		app.Logger.Error().Err(err).Msg("Worker error")
	}
	app.Logger.Info().Msg("Worker exited")
}

func runCallbackRedelivery(
	ctx context.Context,
	app *bootstrap.App,
	consumer *infraRedis.StreamConsumer,
	txRepo transaction.Repository,
	deliverUC *paymentApp.DeliverCallbackUseCase,
) error {
	logger := app.Logger
	retryCfg := retry.Config{
		MaxAttempts:  app.Config.Worker.RedeliveryAttempts,
		InitialDelay: app.Config.Worker.RedeliveryDelay,
		MaxDelay:     30 * time.Second,
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		streams, err := consumer.Read(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to read from stream")
			time.Sleep(1 * time.Second)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				txID, _ := msg.Values["transaction_id"].(string)
				if txID == "" {
					logger.Error().Str("message_id", msg.ID).Msg("Missing transaction id in stream message")
					consumer.Ack(ctx, msg.ID)
					continue
				}

				lock := infraRedis.NewDistributedLock(app.Redis, "callback:"+txID, app.Config.Payment.LockTTL)
				acquired, err := lock.Acquire(ctx)
				if err != nil || !acquired {
					logger.Warn().Str("transaction_id", txID).Msg("Could not acquire lock, skipping")
					continue
				}

				if err := redeliverCallback(ctx, txRepo, deliverUC, retryCfg, txID, logger); err != nil {
					logger.Error().Err(err).Str("transaction_id", txID).Msg("Callback redelivery exhausted")
					app.Metrics.WorkerMessagesProcessed.WithLabelValues(infraRedis.CallbackStream, "failed").Inc()
				} else {
					app.Metrics.WorkerMessagesProcessed.WithLabelValues(infraRedis.CallbackStream, "success").Inc()
				}

				lock.Release(ctx)
				consumer.Ack(ctx, msg.ID)
			}
		}
	}
}

// redeliverCallback re-attempts delivery until the callback lands or the
// attempt budget runs out. Transactions whose callback already went
// through, or that never reached a terminal status, are skipped.
func redeliverCallback(
	ctx context.Context,
	txRepo transaction.Repository,
	deliverUC *paymentApp.DeliverCallbackUseCase,
	retryCfg retry.Config,
	txID string,
	logger zerolog.Logger,
) error {
	tx, err := txRepo.GetByID(ctx, txID)
	if err != nil {
		return err
	}
	if tx == nil {
		logger.Warn().Str("transaction_id", txID).Msg("Transaction gone, dropping redelivery")
		return nil
	}
	if tx.CallbackStatus != transaction.CallbackFailed || !tx.IsTerminal() {
		return nil
	}

	logger.Info().Str("transaction_id", txID).Msg("Redelivering callback")

	return retry.Do(ctx, retryCfg, func() error {
		updated := deliverUC.Execute(ctx, tx)
		if updated.CallbackStatus != transaction.CallbackDelivered {
			return domainErrors.ErrCallbackFailed
		}
		return nil
	})
}

func runExpirySweeper(
	ctx context.Context,
	logger zerolog.Logger,
	expireUC *paymentApp.ExpirePendingUseCase,
	interval time.Duration,
) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		expired, err := expireUC.Execute(ctx, time.Now().UTC())
		if err != nil {
			logger.Error().Err(err).Msg("Expiry sweep failed")
			continue
		}
		if expired > 0 {
			logger.Info().Int("count", expired).Msg("Expired stale transactions")
		}
	}
}
