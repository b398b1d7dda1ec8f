package worker

import (
	"context"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dlawiz83/SkillSwap/internal/notification/events"
	"github.com/dlawiz83/SkillSwap/internal/notification/notifier"
	"github.com/dlawiz83/SkillSwap/pkg/mq"
)

// Worker drains match/booking/karma events off the topic exchange and
// turns them into notifications.
type Worker struct {
	cons     *mq.Consumer
	notifier notifier.Notifier
}

func NewWorker(cons *mq.Consumer, n notifier.Notifier) *Worker {
	return &Worker{cons: cons, notifier: n}
}

// Run consumes until the context is cancelled. Payloads that fail to
// decode are requeued once by the broker's redelivery; everything else
// is acked.
func (w *Worker) Run(ctx context.Context) error {
	msgs, err := w.cons.Deliveries(ctx)
	if err != nil {
		return fmt.Errorf("consume failed: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := w.handleDelivery(d); err != nil {
				log.Printf("[notify] handle error key=%s err=%v -> Nack&requeue", d.RoutingKey, err)
				_ = d.Nack(false, !d.Redelivered)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (w *Worker) handleDelivery(d amqp.Delivery) error {
	switch d.RoutingKey {
	case events.RKMatchRequested:
		ev, err := events.Decode[events.MatchEvent](d.Body)
		if err != nil {
			return err
		}
		return w.notifier.Notify("New match request",
			fmt.Sprintf("User %s wants to learn %s from user %s.", ev.FromUserID, ev.Skill, ev.ToUserID))

	case events.RKMatchAccepted:
		ev, err := events.Decode[events.MatchEvent](d.Body)
		if err != nil {
			return err
		}
		return w.notifier.Notify("Match accepted",
			fmt.Sprintf("Request %s was accepted. Time to book a session.", ev.RequestID))

	case events.RKMatchRejected:
		ev, err := events.Decode[events.MatchEvent](d.Body)
		if err != nil {
			return err
		}
		return w.notifier.Notify("Match declined",
			fmt.Sprintf("Request %s was declined.", ev.RequestID))

	case events.RKBookingConfirmed:
		ev, err := events.Decode[events.BookingConfirmed](d.Body)
		if err != nil {
			return err
		}
		return w.notifier.Notify("Session booked",
			fmt.Sprintf("Booking %s confirmed for %s at %s.", ev.BookingID, ev.Day, ev.Time))

	case events.RKBookingCancelled:
		ev, err := events.Decode[events.BookingCancelled](d.Body)
		if err != nil {
			return err
		}
		return w.notifier.Notify("Session cancelled",
			fmt.Sprintf("Booking %s was cancelled; the karma was refunded.", ev.BookingID))

	case events.RKKarmaTransferred:
		ev, err := events.Decode[events.KarmaTransferred](d.Body)
		if err != nil {
			return err
		}
		return w.notifier.Notify("Karma moved",
			fmt.Sprintf("%d karma moved from %s to %s (ref=%s).", ev.Amount, ev.FromUserID, ev.ToUserID, ev.Ref))

	default:
		log.Printf("[notify] skip unknown key=%s", d.RoutingKey)
	}
	return nil
}
