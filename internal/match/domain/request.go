package domain

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

var (
	ErrNotFound          = errors.New("match request not found")
	ErrDuplicatePending  = errors.New("a pending request for this skill already exists")
	ErrNotAuthorized     = errors.New("only the receiving user may answer a request")
	ErrInvalidTransition = errors.New("request is no longer pending")
	ErrSelfRequest       = errors.New("cannot send a match request to yourself")
)

// Request is a one-directional match proposal. The teach/learn fields
// are snapshots taken at creation so the request text stays stable even
// if either party edits their skills afterwards. Accepted and rejected
// are terminal; requests are never deleted or reopened.
type Request struct {
	ID         string `gorm:"primaryKey"`
	FromUserID string `gorm:"index"`
	ToUserID   string `gorm:"index"`
	Skill      string `gorm:"index"` // the skill the sender wants from the receiver
	FromName   string
	ToName     string
	FromTeach  datatypes.JSONSlice[string]
	FromLearn  datatypes.JSONSlice[string]
	ToTeach    datatypes.JSONSlice[string]
	ToLearn    datatypes.JSONSlice[string]
	Status     Status `gorm:"index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
