package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the booking collectors. A nil *Metrics is valid and records
// nothing, so components can be built without a registry.
type Metrics struct {
	OrdersCreated       prometheus.Counter
	Payments            *prometheus.CounterVec
	OrdersCancelled     *prometheus.CounterVec
	PersistenceFailures *prometheus.CounterVec
	SeatsAvailable      *prometheus.GaugeVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OrdersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "booking_orders_created_total",
			Help: "Orders created in pending state.",
		}),
		Payments: f.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_payments_total",
			Help: "Payment attempts by result.",
		}, []string{"result"}),
		OrdersCancelled: f.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_orders_cancelled_total",
			Help: "Cancelled orders, split by whether seats were released.",
		}, []string{"released"}),
		PersistenceFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_persistence_failures_total",
			Help: "Durable store writes that failed and were swallowed.",
		}, []string{"key"}),
		SeatsAvailable: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "booking_seats_available",
			Help: "Live available seats per train and class.",
		}, []string{"train", "class"}),
	}
}

func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.OrdersCreated.Inc()
}

func (m *Metrics) Payment(success bool) {
	if m == nil {
		return
	}
	result := "failed"
	if success {
		result = "success"
	}
	m.Payments.WithLabelValues(result).Inc()
}

func (m *Metrics) OrderCancelled(released bool) {
	if m == nil {
		return
	}
	m.OrdersCancelled.WithLabelValues(strconv.FormatBool(released)).Inc()
}

func (m *Metrics) PersistenceFailure(key string) {
	if m == nil {
		return
	}
	m.PersistenceFailures.WithLabelValues(key).Inc()
}

func (m *Metrics) SetSeats(trainID, class string, n int) {
	if m == nil {
		return
	}
	m.SeatsAvailable.WithLabelValues(trainID, class).Set(float64(n))
}
