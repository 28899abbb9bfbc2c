package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/sirupsen/logrus"
)

// Notifier tells passengers about confirmed and cancelled bookings. Delivery
// is simulated with a log line.
type Notifier struct {
	bus       *Bus
	log       logrus.FieldLogger
	confirmed <-chan *message.Message
	cancelled <-chan *message.Message
	// sent, when set, observes every notification. Used by tests.
	sent func(topic string, e OrderEvent)
}

func NewNotifier(bus *Bus, log logrus.FieldLogger) *Notifier {
	return &Notifier{bus: bus, log: log.WithField("component", "notifier")}
}

// Run subscribes and consumes until ctx is done.
func (n *Notifier) Run(ctx context.Context) error {
	if err := n.subscribe(ctx); err != nil {
		return err
	}
	return n.consume(ctx)
}

func (n *Notifier) subscribe(ctx context.Context) error {
	var err error
	n.confirmed, err = n.bus.Subscribe(ctx, TopicOrderConfirmed)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TopicOrderConfirmed, err)
	}
	n.cancelled, err = n.bus.Subscribe(ctx, TopicOrderCancelled)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TopicOrderCancelled, err)
	}
	return nil
}

func (n *Notifier) consume(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-n.confirmed:
			if !ok {
				return nil
			}
			n.handle(TopicOrderConfirmed, msg.Payload)
			msg.Ack()
		case msg, ok := <-n.cancelled:
			if !ok {
				return nil
			}
			n.handle(TopicOrderCancelled, msg.Payload)
			msg.Ack()
		}
	}
}

func (n *Notifier) handle(topic string, payload []byte) {
	e, err := decodePayload(payload)
	if err != nil {
		n.log.WithError(err).WithField("topic", topic).Error("Dropping malformed event")
		return
	}

	entry := n.log.WithFields(logrus.Fields{
		"orderID": e.OrderID,
		"train":   e.TrainID,
		"seats":   e.Seats,
	})
	switch topic {
	case TopicOrderConfirmed:
		entry.WithField("pnr", e.PNR).Info("Sending booking confirmation")
	case TopicOrderCancelled:
		entry.Info("Sending cancellation notice")
	}

	if n.sent != nil {
		n.sent(topic, e)
	}
}
