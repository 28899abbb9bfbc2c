package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "STORAGE_DRIVER", "PAYMENT_MODE", "PAYMENT_FAILURE_RATE", "LATENCY_SCALE", "PAYMENT_TIMEOUT"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, PaymentDirect, cfg.PaymentMode)
	assert.Equal(t, 0.2, cfg.PaymentFailureRate)
	assert.Equal(t, 1.0, cfg.LatencyScale)
	assert.Equal(t, 10*time.Second, cfg.PaymentTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("PAYMENT_MODE", "temporal")
	t.Setenv("PAYMENT_FAILURE_RATE", "0")
	t.Setenv("LATENCY_SCALE", "0.25")
	t.Setenv("PAYMENT_TIMEOUT", "3s")

	cfg := Load()
	assert.Equal(t, StorageRedis, cfg.StorageDriver)
	assert.Equal(t, PaymentTemporal, cfg.PaymentMode)
	assert.Equal(t, 0.0, cfg.PaymentFailureRate)
	assert.Equal(t, 0.25, cfg.LatencyScale)
	assert.Equal(t, 3*time.Second, cfg.PaymentTimeout)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("PAYMENT_FAILURE_RATE", "often")
	t.Setenv("LATENCY_SCALE", "-1")
	t.Setenv("PAYMENT_TIMEOUT", "soon")

	cfg := Load()
	assert.Equal(t, 0.2, cfg.PaymentFailureRate)
	assert.Equal(t, 1.0, cfg.LatencyScale)
	assert.Equal(t, 10*time.Second, cfg.PaymentTimeout)
}
