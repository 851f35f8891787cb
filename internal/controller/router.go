package controller

import (
	"time"

	"github.com/cassiomorais/payment-orchestrator/internal/infrastructure/config"
	"github.com/cassiomorais/payment-orchestrator/internal/infrastructure/observability"
	customMW "github.com/cassiomorais/payment-orchestrator/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type RouterDeps struct {
	Pool              *pgxpool.Pool
	RedisClient       *redis.Client
	PaymentController *PaymentController
	Metrics           *observability.Metrics
	Config            *config.Config
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(customMW.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Server.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: deps.Config.Server.CORS.AllowCredentials,
		MaxAge:           300,
	}))
	r.Use(customMW.Metrics(deps.Metrics))
	if deps.Config.Server.RateLimitPerMin > 0 {
		r.Use(customMW.RateLimit(deps.Config.Server.RateLimitPerMin))
	}

	healthH := NewHealthController(deps.Pool, deps.RedisClient, deps.Config)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)
	r.Get("/health/config", healthH.Config)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/payment", func(r chi.Router) {
		r.Post("/request/{order_id}", deps.PaymentController.RequestPayment)
		r.Get("/status/{order_id}", deps.PaymentController.Status)

		// The provider webhook is the only inbound surface carrying
		// money decisions, so it sits behind basic auth.
		webhookAuth := customMW.BasicAuth(deps.Config.Auth.WebhookUser, deps.Config.Auth.WebhookPassword)
		r.With(webhookAuth).Post("/webhook/mercadopago", deps.PaymentController.Webhook)
	})

	return r
}
