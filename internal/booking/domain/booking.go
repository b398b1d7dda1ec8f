package domain

import (
	"errors"
	"time"
)

// SessionCost is the fixed karma price of one session.
const SessionCost = 1

type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

var (
	ErrNotFound          = errors.New("booking not found")
	ErrNotAuthorized     = errors.New("only the host or the peer may cancel a booking")
	ErrInvalidTransition = errors.New("booking is not in a cancellable state")
	ErrSlotUnavailable   = errors.New("slot is not in the peer's published availability")
	ErrMatchRequired     = errors.New("an accepted match request is required before booking")
	ErrSelfBooking       = errors.New("cannot book a session with yourself")
)

// Booking is a confirmed session. The host pays one karma to the peer
// who teaches. A cancelled booking keeps its row (terminal status, not
// deletion) so the reversal stays auditable.
type Booking struct {
	ID        string `gorm:"primaryKey"`
	HostID    string `gorm:"index"` // karma payer, the one requesting the session
	HostName  string
	PeerID    string `gorm:"index"` // karma payee, the one teaching
	PeerName  string
	SlotID    string `gorm:"index"`
	Day       string
	Time      string
	Status    Status `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
