package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "payment",
			Password: "payment",
			Database: "payment",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		Payment: PaymentConfig{
			Expiry:    15 * time.Minute,
			QRBaseURL: "https://pay.local",
		},
		Callback: CallbackConfig{
			OrderAPIHost: "http://order-service:8000",
			Timeout:      10 * time.Second,
		},
		Worker: WorkerConfig{
			BatchSize: 10,
		},
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_InvalidServerPort(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{"port too low", 0},
		{"port negative", -1},
		{"port too high", 99999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Port = tt.port
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_Validate_MissingDatabaseHost(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = ""
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_NonPositiveExpiry(t *testing.T) {
	cfg := validConfig()
	cfg.Payment.Expiry = 0
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_MissingOrderAPIHost(t *testing.T) {
	cfg := validConfig()
	cfg.Callback.OrderAPIHost = ""
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_NonPositiveCallbackTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Callback.Timeout = 0
	assert.Error(t, cfg.Validate())
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Payment.Expiry)
	assert.Equal(t, "https://pay.local", cfg.Payment.QRBaseURL)
	assert.Equal(t, "http://order-service:8000", cfg.Callback.OrderAPIHost)
	assert.Equal(t, 10*time.Second, cfg.Callback.Timeout)
	assert.Equal(t, "callback-redelivery", cfg.Worker.ConsumerGroup)
	assert.Equal(t, uint(3), cfg.Worker.RedeliveryAttempts)
	assert.Equal(t, time.Minute, cfg.Worker.ExpirySweepInterval)
	assert.Equal(t, 100, cfg.Worker.ExpiryBatchSize)
	assert.NoError(t, cfg.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Database.SSLMode = "disable"
	dsn := cfg.Database.DatabaseDSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=payment")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestRedisAddr(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "localhost:6379", cfg.Redis.RedisAddr())
}
