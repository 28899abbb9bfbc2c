package storage

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"train-booking-system/internal/metrics"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk on fire")
}

func (failingStore) Set(context.Context, string, []byte) error {
	return errors.New("quota exceeded")
}

func TestMemory_GetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	blob := []byte(`["T001"]`)
	require.NoError(t, m.Set(ctx, KeyWatchlist, blob))
	blob[2] = 'X'

	got, ok, err := m.Get(ctx, KeyWatchlist)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["T001"]`, string(got))
}

func TestRecord_SaveAndLoad(t *testing.T) {
	logger, _ := test.NewNullLogger()
	rec := NewRecord(NewMemory(), KeyWatchlist, logger, nil)

	var empty []string
	assert.False(t, rec.Load(context.Background(), &empty))

	rec.Save([]string{"T001", "T003"})

	var ids []string
	require.True(t, rec.Load(context.Background(), &ids))
	assert.Equal(t, []string{"T001", "T003"}, ids)
}

func TestRecord_FailuresAreSwallowed(t *testing.T) {
	logger, hook := test.NewNullLogger()
	m := metrics.New(prometheus.NewRegistry())
	rec := NewRecord(failingStore{}, KeyOrders, logger, m)

	assert.NotPanics(t, func() { rec.Save([]string{"o1"}) })
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistenceFailures.WithLabelValues(KeyOrders)))

	var out []string
	assert.False(t, rec.Load(context.Background(), &out))
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestRecord_CorruptBlob(t *testing.T) {
	logger, hook := test.NewNullLogger()
	store := NewMemory()
	require.NoError(t, store.Set(context.Background(), KeyOrders, []byte("{not json")))

	var out []string
	assert.False(t, NewRecord(store, KeyOrders, logger, nil).Load(context.Background(), &out))
	assert.Equal(t, "Failed to decode record", hook.LastEntry().Message)
}

func TestRedis_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	prefix := "test:" + time.Now().Format("150405.000000") + ":"
	r, err := DialRedis(ctx, addr, prefix)
	require.NoError(t, err)
	defer r.Close()

	_, ok, err := r.Get(ctx, KeyAvailability)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Set(ctx, KeyAvailability, []byte(`{"T001":{"economy":1}}`)))
	got, ok, err := r.Get(ctx, KeyAvailability)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"T001":{"economy":1}}`, string(got))
}
