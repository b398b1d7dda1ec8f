package domain

import (
	"errors"
	"time"
)

// InitialGrant is the karma every account starts with.
const InitialGrant = 5

var (
	ErrInsufficientKarma = errors.New("insufficient karma")
	ErrInvalidAmount     = errors.New("transfer amount must be positive")
	ErrSelfTransfer      = errors.New("cannot transfer karma to yourself")
)

const (
	EventGrant       = "grant"
	EventTransferOut = "transfer_out"
	EventTransferIn  = "transfer_in"
)

// Entry is one row of the append-only karma ledger. Apart from the
// registration grant, entries always come in zero-sum out/in pairs
// sharing a Ref.
type Entry struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	UserID       string `gorm:"index;not null"`
	Change       int    `gorm:"not null"`
	BalanceAfter int    `gorm:"not null"`
	EventType    string `gorm:"not null"`
	Ref          string `gorm:"index"` // booking id or grant reason
	CreatedAt    time.Time
}
