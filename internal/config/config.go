package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageMemory = "memory"
	StorageMySQL  = "mysql"
	StorageRedis  = "redis"

	PaymentDirect   = "direct"
	PaymentTemporal = "temporal"
)

type Config struct {
	ServerPort      string
	StorageDriver   string
	DatabaseDSN     string
	RedisAddr       string
	PaymentMode     string
	TemporalAddress string
	// PaymentFailureRate is the chance in [0,1] that a simulated payment fails.
	PaymentFailureRate float64
	// LatencyScale multiplies every simulated delay. 0 disables them.
	LatencyScale   float64
	PaymentTimeout time.Duration
	LogLevel       string
	LogFormat      string
}

func Load() *Config {
	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		StorageDriver:      strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
		DatabaseDSN:        getEnv("DATABASE_DSN", "booking_user:booking_pass@tcp(localhost:3306)/train_booking?parseTime=true"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		PaymentMode:        strings.ToLower(getEnv("PAYMENT_MODE", PaymentDirect)),
		TemporalAddress:    getEnv("TEMPORAL_ADDRESS", "localhost:7233"),
		PaymentFailureRate: parseFloat(getEnv("PAYMENT_FAILURE_RATE", "0.2"), 0.2),
		LatencyScale:       parseFloat(getEnv("LATENCY_SCALE", "1"), 1),
		PaymentTimeout:     parseDuration(getEnv("PAYMENT_TIMEOUT", "10s"), 10*time.Second),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return fallback
	}
	return f
}
