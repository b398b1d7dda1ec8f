package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/dlawiz83/SkillSwap/internal/booking/domain"
	"github.com/dlawiz83/SkillSwap/internal/booking/repository"
	karmasvc "github.com/dlawiz83/SkillSwap/internal/karma/service"
	matchsvc "github.com/dlawiz83/SkillSwap/internal/match/service"
	profilesvc "github.com/dlawiz83/SkillSwap/internal/profile/service"
	"github.com/dlawiz83/SkillSwap/pkg/mq"
)

// BookingSvc coordinates the session lifecycle. The booking row and
// its karma transfer share one transaction, so at rest either both
// exist or neither does.
type BookingSvc struct {
	db       *gorm.DB
	repo     *repository.BookingRepo
	profiles *profilesvc.ProfileSvc
	requests *matchsvc.RequestSvc
	ledger   *karmasvc.Ledger
	pub      *mq.Publisher
}

func NewBookingSvc(db *gorm.DB, repo *repository.BookingRepo, profiles *profilesvc.ProfileSvc,
	requests *matchsvc.RequestSvc, ledger *karmasvc.Ledger, pub *mq.Publisher) *BookingSvc {
	return &BookingSvc{db: db, repo: repo, profiles: profiles, requests: requests, ledger: ledger, pub: pub}
}

// Book reserves one of the peer's published slots for the host and
// pays the session cost host -> peer. Preconditions: the slot belongs
// to the peer and is free, and the two users share an accepted match
// request. An insufficient balance rolls the whole thing back.
func (s *BookingSvc) Book(ctx context.Context, hostID, peerID, slotID string) (*domain.Booking, error) {
	if hostID == peerID {
		return nil, domain.ErrSelfBooking
	}
	host, err := s.profiles.Get(ctx, hostID)
	if err != nil {
		return nil, err
	}
	peer, err := s.profiles.Get(ctx, peerID)
	if err != nil {
		return nil, err
	}
	slot, err := s.profiles.Slot(ctx, peerID, slotID)
	if err != nil {
		return nil, domain.ErrSlotUnavailable
	}
	matched, err := s.requests.HasAccepted(ctx, hostID, peerID)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, domain.ErrMatchRequired
	}

	b := &domain.Booking{
		HostID: hostID, HostName: host.Name,
		PeerID: peerID, PeerName: peer.Name,
		SlotID: slot.ID, Day: slot.Day, Time: slot.Time,
		Status: domain.StatusConfirmed,
	}

	// The slot check lives inside the locked transaction: every booking
	// against this peer holds the peer's lock, so a slot observed free
	// here is still free at commit.
	unlock := s.ledger.PairLock(hostID, peerID)
	defer unlock()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := s.repo.SlotTakenTx(tx, slotID)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrSlotUnavailable
		}
		if err := s.repo.CreateTx(tx, b); err != nil {
			return err
		}
		return s.ledger.TransferTx(tx, hostID, peerID, domain.SessionCost, b.ID)
	})
	if err != nil {
		return nil, err
	}

	_ = s.pub.PublishJSON(ctx, "booking.confirmed", map[string]any{
		"booking_id": b.ID, "host_id": b.HostID, "peer_id": b.PeerID,
		"day": b.Day, "time": b.Time,
	})
	return b, nil
}

// Cancel marks a confirmed booking cancelled and refunds the host
// peer -> host, atomically with the status flip. Either party may
// cancel; a cancelled booking stays cancelled.
func (s *BookingSvc) Cancel(ctx context.Context, bookingID, actingUserID string) (*domain.Booking, error) {
	b, err := s.repo.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actingUserID != b.HostID && actingUserID != b.PeerID {
		return nil, domain.ErrNotAuthorized
	}

	unlock := s.ledger.PairLock(b.HostID, b.PeerID)
	defer unlock()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.CancelIfConfirmedTx(tx, bookingID); err != nil {
			return err
		}
		return s.ledger.TransferTx(tx, b.PeerID, b.HostID, domain.SessionCost, b.ID)
	})
	if err != nil {
		return nil, err
	}

	_ = s.pub.PublishJSON(ctx, "booking.cancelled", map[string]any{
		"booking_id": b.ID, "host_id": b.HostID, "peer_id": b.PeerID,
	})
	return s.repo.ByID(ctx, bookingID)
}

func (s *BookingSvc) Get(ctx context.Context, id string) (*domain.Booking, error) {
	return s.repo.ByID(ctx, id)
}

func (s *BookingSvc) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.repo.ByUser(ctx, userID)
}
