package inventory

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"train-booking-system/internal/metrics"
	"train-booking-system/internal/models"
	"train-booking-system/internal/storage"
)

// Ledger is the live source of truth for per-train, per-class seat
// availability. Every mutation is flushed to the backing record before the
// call returns.
type Ledger struct {
	mu sync.Mutex

	counts map[string]models.SeatClassCounts
	// capacity is the nominal seed per train; release never grows past it.
	capacity map[string]models.SeatClassCounts

	record  *storage.Record
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// NewLedger loads any persisted counts. A missing or unreadable record
// starts the ledger empty.
func NewLedger(ctx context.Context, record *storage.Record, log logrus.FieldLogger, m *metrics.Metrics) *Ledger {
	l := &Ledger{
		counts:   make(map[string]models.SeatClassCounts),
		capacity: make(map[string]models.SeatClassCounts),
		record:   record,
		log:      log.WithField("component", "inventory"),
		metrics:  m,
	}

	var stored map[string]models.SeatClassCounts
	if record.Load(ctx, &stored) {
		for id, c := range stored {
			l.counts[id] = c
			l.observe(id, c)
		}
		l.log.WithField("trains", len(stored)).Info("Loaded availability")
	}
	return l
}

// Initialize seeds the entry for train.ID from its nominal availability
// unless one already exists.
func (l *Ledger) Initialize(train models.Train) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.capacity[train.ID] = train.Availability
	if _, ok := l.counts[train.ID]; ok {
		return
	}
	l.counts[train.ID] = train.Availability
	l.observe(train.ID, train.Availability)
	l.persist()
}

// Availability returns a copy of the live counts for trainID.
func (l *Ledger) Availability(trainID string) (models.SeatClassCounts, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.counts[trainID]
	return c, ok
}

// CheckConflict is advisory: nothing is held between the check and a later
// Reserve. An unknown train counts as zero seats.
func (l *Ledger) CheckConflict(trainID string, class models.SeatClass, requested int) *models.AvailabilityConflict {
	l.mu.Lock()
	defer l.mu.Unlock()

	available := 0
	if c, ok := l.counts[trainID]; ok {
		available = c.Get(class)
	}
	if available >= requested {
		return nil
	}
	return &models.AvailabilityConflict{
		TrainID:   trainID,
		SeatClass: class,
		Requested: requested,
		Available: available,
	}
}

func (l *Ledger) HasAvailability(trainID string, class models.SeatClass, count int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.counts[trainID]
	return ok && c.Get(class) >= count
}

// Reserve takes count seats if at least that many are available and reports
// whether it did. Otherwise the ledger is left untouched.
func (l *Ledger) Reserve(trainID string, class models.SeatClass, count int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.counts[trainID]
	if !ok || count <= 0 || c.Get(class) < count {
		l.log.WithFields(logrus.Fields{
			"train": trainID,
			"class": class,
			"count": count,
		}).Warn("Reserve skipped")
		return false
	}

	c = c.With(class, c.Get(class)-count)
	l.counts[trainID] = c
	l.observe(trainID, c)
	l.persist()
	return true
}

// Release returns count seats, clamped to the train's seeded capacity.
func (l *Ledger) Release(trainID string, class models.SeatClass, count int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.counts[trainID]
	if !ok || count <= 0 {
		return
	}

	next := c.Get(class) + count
	if limit, known := l.capacity[trainID]; known && next > limit.Get(class) {
		l.log.WithFields(logrus.Fields{
			"train":    trainID,
			"class":    class,
			"count":    count,
			"capacity": limit.Get(class),
		}).Warn("Release exceeds capacity, possible double release")
		next = limit.Get(class)
	}

	c = c.With(class, next)
	l.counts[trainID] = c
	l.observe(trainID, c)
	l.persist()
}

// Clear drops every entry. Trains are re-seeded by the next Initialize.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.counts = make(map[string]models.SeatClassCounts)
	l.persist()
}

// persist must be called with l.mu held.
func (l *Ledger) persist() {
	snapshot := make(map[string]models.SeatClassCounts, len(l.counts))
	for id, c := range l.counts {
		snapshot[id] = c
	}
	l.record.Save(snapshot)
}

func (l *Ledger) observe(trainID string, c models.SeatClassCounts) {
	for _, class := range models.SeatClasses {
		l.metrics.SetSeats(trainID, string(class), c.Get(class))
	}
}
