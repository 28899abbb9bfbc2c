package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"train-booking-system/internal/metrics"
)

// Persisted record keys.
const (
	KeyOrders       = "booking_orders"
	KeyAvailability = "train_availability"
	KeyWatchlist    = "train_watchlist"
)

// Store is the durable key to JSON blob contract.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, blob []byte) error
}

const defaultWriteTimeout = 5 * time.Second

// Record reads and writes one JSON value under a fixed key with best-effort
// durability: failures are logged and counted, never returned.
type Record struct {
	store   Store
	key     string
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	timeout time.Duration
}

func NewRecord(store Store, key string, log logrus.FieldLogger, m *metrics.Metrics) *Record {
	return &Record{
		store:   store,
		key:     key,
		log:     log.WithField("record", key),
		metrics: m,
		timeout: defaultWriteTimeout,
	}
}

// Load decodes the stored value into dst. It reports false when nothing was
// stored or the value could not be read.
func (r *Record) Load(ctx context.Context, dst interface{}) bool {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	blob, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		r.log.WithError(err).Error("Failed to load record")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(blob, dst); err != nil {
		r.log.WithError(err).Error("Failed to decode record")
		return false
	}
	return true
}

// Save encodes v and writes it synchronously.
func (r *Record) Save(v interface{}) {
	blob, err := json.Marshal(v)
	if err != nil {
		r.log.WithError(err).Error("Failed to encode record")
		r.metrics.PersistenceFailure(r.key)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.store.Set(ctx, r.key, blob); err != nil {
		r.log.WithError(err).Warn("Failed to persist record, keeping in-memory state")
		r.metrics.PersistenceFailure(r.key)
	}
}
