package orders

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"train-booking-system/internal/events"
	"train-booking-system/internal/metrics"
	"train-booking-system/internal/models"
	"train-booking-system/internal/payment"
	"train-booking-system/internal/storage"
)

const DefaultPageSize = 10

// Inventory is the part of the ledger the lifecycle needs.
type Inventory interface {
	CheckConflict(trainID string, class models.SeatClass, requested int) *models.AvailabilityConflict
	Reserve(trainID string, class models.SeatClass, count int) bool
	Release(trainID string, class models.SeatClass, count int)
}

// Publisher receives an order snapshot after every transition.
type Publisher interface {
	Publish(topic string, order models.Order)
}

// Manager drives orders through pending -> confirmed/failed -> cancelled and
// keeps inventory in step: seats are taken once when payment succeeds and
// returned once when a confirmed order is cancelled.
type Manager struct {
	mu     sync.Mutex
	orders []models.Order

	inventory Inventory
	payments  *payment.Simulator
	record    *storage.Record
	events    Publisher
	metrics   *metrics.Metrics
	log       logrus.FieldLogger
	now       func() time.Time
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithPublisher(p Publisher) Option {
	return func(m *Manager) { m.events = p }
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// NewManager loads persisted orders from record.
func NewManager(ctx context.Context, inv Inventory, payments *payment.Simulator, record *storage.Record, log logrus.FieldLogger, opts ...Option) *Manager {
	m := &Manager{
		inventory: inv,
		payments:  payments,
		record:    record,
		log:       log.WithField("component", "orders"),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}

	var stored []models.Order
	if record.Load(ctx, &stored) {
		m.orders = stored
		m.log.WithField("orders", len(stored)).Info("Loaded orders")
	}
	return m
}

// Create re-prices the selection against train, re-validates availability
// and records a pending order holding a snapshot of train and selection. No
// seats are taken yet.
func (m *Manager) Create(train models.Train, selection models.SeatSelection) (models.Order, error) {
	selection, err := models.NewSeatSelection(train, selection.SeatClass, selection.Passengers)
	if err != nil {
		return models.Order{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if conflict := m.inventory.CheckConflict(train.ID, selection.SeatClass, selection.SeatCount()); conflict != nil {
		return models.Order{}, models.AvailabilityError{Conflict: *conflict}
	}

	now := m.now()
	order := models.Order{
		ID:            newOrderID(),
		Train:         train,
		SeatSelection: selection,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}.Clone()

	m.orders = append(m.orders, order)
	m.persist()

	m.log.WithFields(logrus.Fields{
		"orderID": order.ID,
		"train":   train.ID,
		"class":   selection.SeatClass,
		"seats":   selection.SeatCount(),
	}).Info("Order created")
	m.metrics.OrderCreated()
	m.publish(events.TopicOrderCreated, order)

	return order.Clone(), nil
}

// ProcessPayment settles a pending order. forceFail, when non-nil, decides
// the outcome instead of the simulator. A failed payment is reported in the
// result and leaves inventory alone.
func (m *Manager) ProcessPayment(orderID string, forceFail *bool) (models.PaymentResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, err := m.find(orderID)
	if err != nil {
		return models.PaymentResult{}, err
	}
	order := &m.orders[i]
	if order.Status != models.StatusPending {
		return models.PaymentResult{}, models.StateError{OrderID: orderID, Status: order.Status, Op: "pay"}
	}

	entry := m.log.WithField("orderID", orderID)

	if m.payments.ShouldFail(forceFail) {
		order.Status = models.StatusFailed
		order.PaymentStatus = models.PaymentFailed
		order.UpdatedAt = m.now()
		m.persist()

		entry.Info("Payment failed")
		m.metrics.Payment(false)
		m.publish(events.TopicOrderPaymentFailed, *order)

		return models.PaymentResult{Success: false, Message: payment.FailureMessage}, nil
	}

	sel := order.SeatSelection
	if !m.inventory.Reserve(order.Train.ID, sel.SeatClass, sel.SeatCount()) {
		conflict := m.inventory.CheckConflict(order.Train.ID, sel.SeatClass, sel.SeatCount())
		if conflict == nil {
			conflict = &models.AvailabilityConflict{TrainID: order.Train.ID, SeatClass: sel.SeatClass, Requested: sel.SeatCount()}
		}
		entry.WithField("available", conflict.Available).Warn("Seats no longer available at payment")
		return models.PaymentResult{}, models.AvailabilityError{Conflict: *conflict}
	}

	now := m.now()
	pnr := m.uniquePNR(now)
	order.Status = models.StatusConfirmed
	order.PaymentStatus = models.PaymentSuccess
	order.PNR = &pnr
	order.UpdatedAt = now
	m.persist()

	txn := newTransactionID()
	entry.WithFields(logrus.Fields{"pnr": pnr, "transactionID": txn}).Info("Payment successful")
	m.metrics.Payment(true)
	m.publish(events.TopicOrderConfirmed, *order)

	return models.PaymentResult{Success: true, TransactionID: txn, Message: payment.SuccessMessage}, nil
}

// Cancel moves an order to cancelled. Seats go back to the ledger only when
// they were taken, that is when the order was confirmed with a successful
// payment. Cancelling an already cancelled order changes nothing.
func (m *Manager) Cancel(orderID string) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, err := m.find(orderID)
	if err != nil {
		return models.Order{}, err
	}
	order := &m.orders[i]
	if order.Status == models.StatusCancelled {
		return order.Clone(), nil
	}

	released := false
	if order.Status == models.StatusConfirmed && order.PaymentStatus == models.PaymentSuccess {
		sel := order.SeatSelection
		m.inventory.Release(order.Train.ID, sel.SeatClass, sel.SeatCount())
		released = true
	}

	order.Status = models.StatusCancelled
	order.PNR = nil
	order.UpdatedAt = m.now()
	m.persist()

	m.log.WithFields(logrus.Fields{"orderID": orderID, "released": released}).Info("Order cancelled")
	m.metrics.OrderCancelled(released)
	m.publish(events.TopicOrderCancelled, *order)

	return order.Clone(), nil
}

// History returns a 1-indexed page of orders, newest first. Orders created at
// the same instant keep reverse insertion order.
func (m *Manager) History(page, pageSize int) models.OrderPage {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	m.mu.Lock()
	sorted := make([]models.Order, 0, len(m.orders))
	for i := len(m.orders) - 1; i >= 0; i-- {
		sorted = append(sorted, m.orders[i].Clone())
	}
	m.mu.Unlock()

	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].CreatedAt.After(sorted[b].CreatedAt)
	})

	total := len(sorted)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return models.OrderPage{
		Orders:     sorted[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}
}

func (m *Manager) ByID(orderID string) (models.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, err := m.find(orderID)
	if err != nil {
		return models.Order{}, false
	}
	return m.orders[i].Clone(), true
}

// Clear drops every order (for testing/admin). Inventory is not touched.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.orders = nil
	m.persist()
}

// find must be called with m.mu held.
func (m *Manager) find(orderID string) (int, error) {
	for i := range m.orders {
		if m.orders[i].ID == orderID {
			return i, nil
		}
	}
	return -1, models.NotFoundError{Resource: "order", ID: orderID}
}

// uniquePNR must be called with m.mu held.
func (m *Manager) uniquePNR(now time.Time) string {
	for {
		pnr := newPNR(now)
		taken := false
		for i := range m.orders {
			if m.orders[i].PNR != nil && *m.orders[i].PNR == pnr {
				taken = true
				break
			}
		}
		if !taken {
			return pnr
		}
	}
}

// persist must be called with m.mu held.
func (m *Manager) persist() {
	orders := m.orders
	if orders == nil {
		orders = []models.Order{}
	}
	m.record.Save(orders)
}

func (m *Manager) publish(topic string, order models.Order) {
	if m.events == nil {
		return
	}
	m.events.Publish(topic, order.Clone())
}
