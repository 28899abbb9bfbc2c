package booking

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"train-booking-system/internal/models"
	"train-booking-system/internal/payment"
	"train-booking-system/internal/storage"
)

func boolPtr(b bool) *bool { return &b }

func passengers(n int) []models.Passenger {
	ps := make([]models.Passenger, n)
	for i := range ps {
		ps[i] = models.Passenger{ID: string(rune('a' + i)), Name: "Traveller", Age: 40, Gender: models.GenderFemale}
	}
	return ps
}

func newSystem(t *testing.T, store storage.Store) *System {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return New(context.Background(), Options{Store: store, Decider: payment.AlwaysSucceed}, logger)
}

func economy(t *testing.T, s *System, trainID string) int {
	t.Helper()
	tr, err := s.GetTrainByID(context.Background(), trainID)
	require.NoError(t, err)
	require.NotNil(t, tr)
	return tr.Availability.Economy
}

func TestSystem_BookingFlow(t *testing.T) {
	ctx := context.Background()
	s := newSystem(t, storage.NewMemory())

	trains, err := s.SearchTrains(ctx, "delhi", "mumbai")
	require.NoError(t, err)
	require.Len(t, trains, 1)
	train := trains[0]

	conflict, err := s.CheckAvailabilityConflict(ctx, train.ID, models.ClassEconomy, 3)
	require.NoError(t, err)
	assert.Nil(t, conflict)
	ok, err := s.CheckAvailability(ctx, train.ID, models.ClassFirst, 11)
	require.NoError(t, err)
	assert.False(t, ok)

	sel, err := models.NewSeatSelection(train, models.ClassEconomy, passengers(3))
	require.NoError(t, err)
	order, err := s.CreateOrder(ctx, train, sel)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)

	res, err := s.ProcessPayment(ctx, order.ID, nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 47, economy(t, s, "T001"))

	got, err := s.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	cancelled, err := s.CancelOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, 50, economy(t, s, "T001"))

	page, err := s.GetOrderHistory(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestSystem_Absent(t *testing.T) {
	ctx := context.Background()
	s := newSystem(t, storage.NewMemory())

	tr, err := s.GetTrainByID(ctx, "T404")
	require.NoError(t, err)
	assert.Nil(t, tr)

	o, err := s.GetOrderByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, o)

	_, err = s.CancelOrder(ctx, "missing")
	assert.True(t, models.IsNotFound(err))
}

func TestSystem_BookTrain(t *testing.T) {
	ctx := context.Background()
	s := newSystem(t, storage.NewMemory())

	order, err := s.BookTrain(ctx, "T002", models.ClassFirst, passengers(2))
	require.NoError(t, err)
	assert.Equal(t, 7600, order.SeatSelection.TotalPrice())
	assert.Equal(t, "Mumbai Rajdhani", order.Train.Name)

	_, err = s.BookTrain(ctx, "T404", models.ClassFirst, passengers(1))
	assert.True(t, models.IsNotFound(err))

	_, err = s.BookTrain(ctx, "T002", models.ClassFirst, nil)
	assert.True(t, models.IsValidation(err))

	_, err = s.BookTrain(ctx, "T002", models.ClassFirst, passengers(9))
	assert.True(t, models.IsAvailability(err))
}

func TestSystem_Watchlist(t *testing.T) {
	ctx := context.Background()
	s := newSystem(t, storage.NewMemory())

	all, err := s.GetAllTrains(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	s.AddToWatchlist("T003")
	assert.True(t, s.IsInWatchlist("T003"))

	list, err := s.GetWatchlist(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "T003", list[0].ID)

	s.RemoveFromWatchlist("T003")
	assert.False(t, s.IsInWatchlist("T003"))
}

func TestSystem_CancelledContextLeavesStateUntouched(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := New(context.Background(), Options{
		Decider: payment.AlwaysSucceed,
		Latency: DefaultLatency(),
	}, logger)

	order, err := s.Orders.Create(mustTrain(t, s, "T001"), mustSelection(t, s, "T001", 2))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = s.ProcessPayment(ctx, order.ID, boolPtr(false))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	got, _ := s.Orders.ByID(order.ID)
	assert.Equal(t, models.StatusPending, got.Status)
	c, _ := s.Ledger.Availability("T001")
	assert.Equal(t, 50, c.Economy)

	done, stop := context.WithCancel(context.Background())
	stop()
	_, err = s.CancelOrder(done, order.ID)
	assert.ErrorIs(t, err, context.Canceled)
	got, _ = s.Orders.ByID(order.ID)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestSystem_LatencyApplied(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := New(context.Background(), Options{Latency: Latency{Search: 30 * time.Millisecond}}, logger)

	start := time.Now()
	_, err := s.SearchTrains(context.Background(), "", "")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestSystem_Reset(t *testing.T) {
	ctx := context.Background()
	s := newSystem(t, storage.NewMemory())

	order, err := s.BookTrain(ctx, "T001", models.ClassEconomy, passengers(5))
	require.NoError(t, err)
	_, err = s.ProcessPayment(ctx, order.ID, boolPtr(false))
	require.NoError(t, err)
	require.Equal(t, 45, economy(t, s, "T001"))

	require.NoError(t, s.Reset(ctx))
	assert.Equal(t, 50, economy(t, s, "T001"))
	page, err := s.GetOrderHistory(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
}

func TestSystem_StateSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	s := newSystem(t, store)

	order, err := s.BookTrain(ctx, "T004", models.ClassBusiness, passengers(3))
	require.NoError(t, err)
	_, err = s.ProcessPayment(ctx, order.ID, boolPtr(false))
	require.NoError(t, err)
	s.AddToWatchlist("T004")

	restarted := newSystem(t, store)
	tr, err := restarted.GetTrainByID(ctx, "T004")
	require.NoError(t, err)
	assert.Equal(t, 15, tr.Availability.Business)
	assert.True(t, restarted.IsInWatchlist("T004"))

	got, err := restarted.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.StatusConfirmed, got.Status)
}

func TestLatency_Scale(t *testing.T) {
	l := DefaultLatency().Scale(0.5)
	assert.Equal(t, time.Second, l.Pay)
	assert.Equal(t, Latency{}, DefaultLatency().Scale(0))
}

func mustTrain(t *testing.T, s *System, id string) models.Train {
	t.Helper()
	tr, ok := s.Catalog.ByID(id)
	require.True(t, ok)
	return tr
}

func mustSelection(t *testing.T, s *System, id string, n int) models.SeatSelection {
	t.Helper()
	sel, err := models.NewSeatSelection(mustTrain(t, s, id), models.ClassEconomy, passengers(n))
	require.NoError(t, err)
	return sel
}
