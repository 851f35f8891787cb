package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	paymentApp "github.com/cassiomorais/payment-orchestrator/internal/application/payment"
	"github.com/cassiomorais/payment-orchestrator/internal/bootstrap"
	"github.com/cassiomorais/payment-orchestrator/internal/controller"
	infraRedis "github.com/cassiomorais/payment-orchestrator/internal/infrastructure/redis"
	"github.com/cassiomorais/payment-orchestrator/internal/providers"
	"github.com/cassiomorais/payment-orchestrator/internal/repository/cached"
	"github.com/cassiomorais/payment-orchestrator/internal/repository/postgres"
)

func main() {
	ctx := context.Background()

	app, err := bootstrap.New(ctx, "payment-api", "payment")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	recordCache := infraRedis.NewRecordCache(app.Redis, app.Config.Redis.CacheTTL)
	txRepo := cached.NewTransactionRepository(
		postgres.NewTransactionRepository(app.Pool),
		recordCache,
	)

	// --- Application services ---
	providerFactory := providers.NewFactory()
	streamProducer := infraRedis.NewStreamProducer(app.Redis)

	createUC := paymentApp.NewCreatePaymentUseCase(txRepo, providerFactory, app.Config.Payment)
	webhookUC := paymentApp.NewProcessWebhookUseCase(txRepo)
	statusUC := paymentApp.NewGetStatusUseCase(txRepo)
	deliverUC := paymentApp.NewDeliverCallbackUseCase(
		txRepo,
		&http.Client{Timeout: app.Config.Callback.Timeout},
		app.Config.Callback,
		streamProducer,
		app.Metrics,
	)

	paymentController := controller.NewPaymentController(createUC, webhookUC, statusUC, deliverUC, app.Metrics)

	// --- Build router ---
	router := controller.NewRouter(controller.RouterDeps{
		Pool:              app.Pool,
		RedisClient:       app.Redis,
		PaymentController: paymentController,
		Metrics:           app.Metrics,
		Config:            app.Config,
	})

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	go func() {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	app.Logger.Info().Msg("Server exited")
}
