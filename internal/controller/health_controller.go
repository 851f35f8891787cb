package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/cassiomorais/payment-orchestrator/internal/infrastructure/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type HealthController struct {
	pool  *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
}

func NewHealthController(pool *pgxpool.Pool, redis *redis.Client, cfg *config.Config) *HealthController {
	return &HealthController{pool: pool, redis: redis, cfg: cfg}
}

func (h *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthController) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (h *HealthController) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.pool.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "database unavailable",
		})
		return
	}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "redis unavailable",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Config exposes the non-secret runtime settings for operators.
func (h *HealthController) Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"instance_id":           h.cfg.InstanceID,
		"payment_expiry":        h.cfg.Payment.Expiry.String(),
		"qr_base_url":           h.cfg.Payment.QRBaseURL,
		"callback_timeout":      h.cfg.Callback.Timeout.String(),
		"expiry_sweep_interval": h.cfg.Worker.ExpirySweepInterval.String(),
		"tracing_enabled":       h.cfg.Observability.EnableTracing,
	})
}
