package booking

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"train-booking-system/internal/catalog"
	"train-booking-system/internal/inventory"
	"train-booking-system/internal/metrics"
	"train-booking-system/internal/models"
	"train-booking-system/internal/orders"
	"train-booking-system/internal/payment"
	"train-booking-system/internal/storage"
)

type Options struct {
	Store     storage.Store
	Trains    []models.Train
	Decider   payment.Decider
	Latency   Latency
	Publisher orders.Publisher
	Metrics   *metrics.Metrics
	// Clock overrides order timestamps. Used by tests.
	Clock func() time.Time
}

// System is the booking application state, built once at start and shared by
// reference with every caller.
type System struct {
	Catalog *catalog.Service
	Ledger  *inventory.Ledger
	Orders  *orders.Manager

	latency Latency
	log     logrus.FieldLogger
}

func New(ctx context.Context, opts Options, log logrus.FieldLogger) *System {
	if opts.Store == nil {
		opts.Store = storage.NewMemory()
	}
	if opts.Trains == nil {
		opts.Trains = catalog.DefaultTrains()
	}

	record := func(key string) *storage.Record {
		return storage.NewRecord(opts.Store, key, log, opts.Metrics)
	}

	ledger := inventory.NewLedger(ctx, record(storage.KeyAvailability), log, opts.Metrics)
	cat := catalog.NewService(ctx, opts.Trains, ledger, record(storage.KeyWatchlist), log)

	managerOpts := []orders.Option{orders.WithMetrics(opts.Metrics)}
	if opts.Publisher != nil {
		managerOpts = append(managerOpts, orders.WithPublisher(opts.Publisher))
	}
	if opts.Clock != nil {
		managerOpts = append(managerOpts, orders.WithClock(opts.Clock))
	}
	manager := orders.NewManager(ctx, ledger, payment.NewSimulator(opts.Decider),
		record(storage.KeyOrders), log, managerOpts...)

	return &System{
		Catalog: cat,
		Ledger:  ledger,
		Orders:  manager,
		latency: opts.Latency,
		log:     log.WithField("component", "booking"),
	}
}

func (s *System) SearchTrains(ctx context.Context, origin, destination string) ([]models.Train, error) {
	if err := wait(ctx, s.latency.Search); err != nil {
		return nil, err
	}
	return s.Catalog.Search(origin, destination), nil
}

// GetTrainByID returns nil when no train has the id.
func (s *System) GetTrainByID(ctx context.Context, id string) (*models.Train, error) {
	if err := wait(ctx, s.latency.GetTrain); err != nil {
		return nil, err
	}
	t, ok := s.Catalog.ByID(id)
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *System) GetAllTrains(ctx context.Context) ([]models.Train, error) {
	if err := wait(ctx, s.latency.AllTrains); err != nil {
		return nil, err
	}
	return s.Catalog.All(), nil
}

func (s *System) AddToWatchlist(trainID string) {
	s.Catalog.AddToWatchlist(trainID)
}

func (s *System) RemoveFromWatchlist(trainID string) {
	s.Catalog.RemoveFromWatchlist(trainID)
}

func (s *System) IsInWatchlist(trainID string) bool {
	return s.Catalog.InWatchlist(trainID)
}

func (s *System) GetWatchlist(ctx context.Context) ([]models.Train, error) {
	if err := wait(ctx, s.latency.Watchlist); err != nil {
		return nil, err
	}
	return s.Catalog.Watchlist(), nil
}

// CheckAvailabilityConflict returns nil when the seats are available.
func (s *System) CheckAvailabilityConflict(ctx context.Context, trainID string, class models.SeatClass, requested int) (*models.AvailabilityConflict, error) {
	if err := wait(ctx, s.latency.Conflict); err != nil {
		return nil, err
	}
	return s.Ledger.CheckConflict(trainID, class, requested), nil
}

func (s *System) CheckAvailability(ctx context.Context, trainID string, class models.SeatClass, requested int) (bool, error) {
	if err := wait(ctx, s.latency.Conflict); err != nil {
		return false, err
	}
	return s.Ledger.HasAvailability(trainID, class, requested), nil
}

func (s *System) CreateOrder(ctx context.Context, train models.Train, selection models.SeatSelection) (models.Order, error) {
	if err := wait(ctx, s.latency.Create); err != nil {
		return models.Order{}, err
	}
	return s.Orders.Create(train, selection)
}

// BookTrain looks the train up in the catalog and prices the selection from
// it before creating the order.
func (s *System) BookTrain(ctx context.Context, trainID string, class models.SeatClass, passengers []models.Passenger) (models.Order, error) {
	train, ok := s.Catalog.ByID(trainID)
	if !ok {
		return models.Order{}, models.NotFoundError{Resource: "train", ID: trainID}
	}
	selection, err := models.NewSeatSelection(train, class, passengers)
	if err != nil {
		return models.Order{}, err
	}
	return s.CreateOrder(ctx, train, selection)
}

func (s *System) ProcessPayment(ctx context.Context, orderID string, forceFail *bool) (models.PaymentResult, error) {
	if err := wait(ctx, s.latency.Pay); err != nil {
		return models.PaymentResult{}, err
	}
	return s.Orders.ProcessPayment(orderID, forceFail)
}

// GetOrderByID returns nil when no order has the id.
func (s *System) GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	if err := wait(ctx, s.latency.GetOrder); err != nil {
		return nil, err
	}
	o, ok := s.Orders.ByID(orderID)
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (s *System) GetOrderHistory(ctx context.Context, page, pageSize int) (models.OrderPage, error) {
	if err := wait(ctx, s.latency.History); err != nil {
		return models.OrderPage{}, err
	}
	return s.Orders.History(page, pageSize), nil
}

func (s *System) CancelOrder(ctx context.Context, orderID string) (models.Order, error) {
	if err := wait(ctx, s.latency.Cancel); err != nil {
		return models.Order{}, err
	}
	return s.Orders.Cancel(orderID)
}

// Reset drops all orders and restores every train to its nominal seats.
func (s *System) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Orders.Clear()
	s.Ledger.Clear()
	s.Catalog.Seed()
	s.log.Warn("Booking state reset")
	return nil
}
