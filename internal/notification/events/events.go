package events

import (
	"encoding/json"
	"fmt"
)

// Routing keys published by the core services.
const (
	RKMatchRequested = "match.requested"
	RKMatchAccepted  = "match.accepted"
	RKMatchRejected  = "match.rejected"

	RKBookingConfirmed = "booking.confirmed"
	RKBookingCancelled = "booking.cancelled"

	RKKarmaTransferred = "karma.transferred"
)

type MatchEvent struct {
	RequestID  string `json:"request_id"`
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Skill      string `json:"skill"`
}

type BookingConfirmed struct {
	BookingID string `json:"booking_id"`
	HostID    string `json:"host_id"`
	PeerID    string `json:"peer_id"`
	Day       string `json:"day"`
	Time      string `json:"time"`
}

type BookingCancelled struct {
	BookingID string `json:"booking_id"`
	HostID    string `json:"host_id"`
	PeerID    string `json:"peer_id"`
}

type KarmaTransferred struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Amount     int    `json:"amount"`
	Ref        string `json:"ref"`
}

func Decode[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload failed: %w", err)
	}
	return t, nil
}
