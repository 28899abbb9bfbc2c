package catalog

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"train-booking-system/internal/inventory"
	"train-booking-system/internal/models"
	"train-booking-system/internal/storage"
)

func newService(t *testing.T, store storage.Store) (*Service, *inventory.Ledger) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	ctx := context.Background()
	ledger := inventory.NewLedger(ctx, storage.NewRecord(store, storage.KeyAvailability, logger, nil), logger, nil)
	svc := NewService(ctx, DefaultTrains(), ledger, storage.NewRecord(store, storage.KeyWatchlist, logger, nil), logger)
	return svc, ledger
}

func ids(trains []models.Train) []string {
	out := make([]string, 0, len(trains))
	for _, t := range trains {
		out = append(out, t.ID)
	}
	return out
}

func TestNewService_SeedsLedger(t *testing.T) {
	_, ledger := newService(t, storage.NewMemory())
	for _, tr := range DefaultTrains() {
		c, ok := ledger.Availability(tr.ID)
		require.True(t, ok, tr.ID)
		assert.Equal(t, tr.Availability, c)
	}
}

func TestSearch(t *testing.T) {
	svc, _ := newService(t, storage.NewMemory())

	assert.Equal(t, []string{"T001", "T002", "T003", "T004", "T005"}, ids(svc.Search("", "")))
	assert.Equal(t, []string{"T001", "T004"}, ids(svc.Search("new delhi", "")))
	assert.Equal(t, []string{"T002", "T003", "T005"}, ids(svc.Search("", "DELHI")))
	assert.Equal(t, []string{"T001"}, ids(svc.Search("delhi", "mum")))
	assert.Empty(t, svc.Search("kolkata", ""))
}

func TestQueries_OverlayLiveCounts(t *testing.T) {
	svc, ledger := newService(t, storage.NewMemory())
	require.True(t, ledger.Reserve("T001", models.ClassEconomy, 3))

	tr, ok := svc.ByID("T001")
	require.True(t, ok)
	assert.Equal(t, 47, tr.Availability.Economy)
	assert.Equal(t, 47, svc.Search("new delhi", "mumbai")[0].Availability.Economy)
	assert.Equal(t, 47, svc.All()[0].Availability.Economy)

	tr.Availability.Economy = 0
	again, _ := svc.ByID("T001")
	assert.Equal(t, 47, again.Availability.Economy, "returned trains carry a copy")

	_, ok = svc.ByID("T404")
	assert.False(t, ok)
}

func TestQueries_FallBackToNominal(t *testing.T) {
	svc, ledger := newService(t, storage.NewMemory())
	ledger.Clear()

	tr, ok := svc.ByID("T003")
	require.True(t, ok)
	assert.Equal(t, 60, tr.Availability.Economy)

	svc.Seed()
	c, ok := ledger.Availability("T003")
	require.True(t, ok)
	assert.Equal(t, 60, c.Economy)
}

func TestWatchlist(t *testing.T) {
	store := storage.NewMemory()
	svc, _ := newService(t, store)

	svc.AddToWatchlist("T004")
	svc.AddToWatchlist("T002")
	svc.AddToWatchlist("T004")
	svc.AddToWatchlist("T999")

	assert.True(t, svc.InWatchlist("T004"))
	assert.False(t, svc.InWatchlist("T001"))
	assert.Equal(t, []string{"T002", "T004"}, ids(svc.Watchlist()))

	svc.RemoveFromWatchlist("T004")
	svc.RemoveFromWatchlist("T001")
	assert.False(t, svc.InWatchlist("T004"))
	assert.Equal(t, []string{"T002"}, ids(svc.Watchlist()))

	reloaded, _ := newService(t, store)
	assert.True(t, reloaded.InWatchlist("T002"))
	assert.True(t, reloaded.InWatchlist("T999"))
	assert.Equal(t, []string{"T002"}, ids(reloaded.Watchlist()))
}

func TestWatchlist_EmptyIsNotNil(t *testing.T) {
	svc, _ := newService(t, storage.NewMemory())
	assert.NotNil(t, svc.Watchlist())
	assert.Empty(t, svc.Watchlist())
}
