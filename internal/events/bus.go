package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/sirupsen/logrus"

	"train-booking-system/internal/logging"
	"train-booking-system/internal/models"
)

const (
	TopicOrderCreated       = "booking.order_created"
	TopicOrderConfirmed     = "booking.order_confirmed"
	TopicOrderPaymentFailed = "booking.order_payment_failed"
	TopicOrderCancelled     = "booking.order_cancelled"
)

// OrderEvent is the payload of every order topic.
type OrderEvent struct {
	OrderID    string             `json:"orderId"`
	TrainID    string             `json:"trainId"`
	SeatClass  models.SeatClass   `json:"seatClass"`
	Seats      int                `json:"seats"`
	Status     models.OrderStatus `json:"status"`
	PNR        string             `json:"pnr,omitempty"`
	OccurredAt time.Time          `json:"occurredAt"`
}

func NewOrderEvent(o models.Order) OrderEvent {
	e := OrderEvent{
		OrderID:    o.ID,
		TrainID:    o.Train.ID,
		SeatClass:  o.SeatSelection.SeatClass,
		Seats:      o.PassengerCount(),
		Status:     o.Status,
		OccurredAt: o.UpdatedAt,
	}
	if o.PNR != nil {
		e.PNR = *o.PNR
	}
	return e
}

// Bus is an in-process pub/sub for order lifecycle events.
type Bus struct {
	pubsub *gochannel.GoChannel
	log    logrus.FieldLogger
}

func NewBus(log logrus.FieldLogger) *Bus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		logging.NewWatermillLogger(log),
	)
	return &Bus{pubsub: pubsub, log: log.WithField("component", "events")}
}

// Publish never fails the caller; errors are logged.
func (b *Bus) Publish(topic string, order models.Order) {
	payload, err := json.Marshal(NewOrderEvent(order))
	if err != nil {
		b.log.WithError(err).WithField("topic", topic).Error("Failed to encode event")
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		b.log.WithError(err).WithField("topic", topic).Warn("Failed to publish event")
	}
}

func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// Decode parses an OrderEvent from a message payload.
func Decode(msg *message.Message) (OrderEvent, error) {
	return decodePayload(msg.Payload)
}

func decodePayload(payload []byte) (OrderEvent, error) {
	var e OrderEvent
	if err := json.Unmarshal(payload, &e); err != nil {
		return OrderEvent{}, fmt.Errorf("failed to decode order event: %w", err)
	}
	return e, nil
}
