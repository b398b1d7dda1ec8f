package worker

import (
	"encoding/json"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	"github.com/dlawiz83/SkillSwap/internal/notification/events"
)

type capture struct {
	subjects []string
	messages []string
}

func (c *capture) Notify(subject, message string) error {
	c.subjects = append(c.subjects, subject)
	c.messages = append(c.messages, message)
	return nil
}

func delivery(t *testing.T, key string, payload any) amqp.Delivery {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return amqp.Delivery{RoutingKey: key, Body: b}
}

func TestHandleDeliveryRoutesByKey(t *testing.T) {
	sink := &capture{}
	w := NewWorker(nil, sink)

	require.NoError(t, w.handleDelivery(delivery(t, events.RKMatchRequested, events.MatchEvent{
		RequestID: "r1", FromUserID: "alice", ToUserID: "bob", Skill: "Guitar",
	})))
	require.NoError(t, w.handleDelivery(delivery(t, events.RKBookingConfirmed, events.BookingConfirmed{
		BookingID: "b1", Day: "Monday", Time: "18:00",
	})))

	require.Equal(t, []string{"New match request", "Session booked"}, sink.subjects)
	require.Contains(t, sink.messages[0], "Guitar")
	require.Contains(t, sink.messages[1], "Monday")
}

func TestHandleDeliveryBadPayload(t *testing.T) {
	sink := &capture{}
	w := NewWorker(nil, sink)

	err := w.handleDelivery(amqp.Delivery{RoutingKey: events.RKMatchAccepted, Body: []byte("{nope")})
	require.Error(t, err)
	require.Empty(t, sink.subjects)
}

func TestHandleDeliveryUnknownKeyIsAcked(t *testing.T) {
	sink := &capture{}
	w := NewWorker(nil, sink)

	require.NoError(t, w.handleDelivery(amqp.Delivery{RoutingKey: "something.else", Body: []byte("{}")}))
	require.Empty(t, sink.subjects)
}
