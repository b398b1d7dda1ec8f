package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dlawiz83/SkillSwap/internal/booking/domain"
)

type BookingRepo struct{ db *gorm.DB }

func NewBookingRepo(db *gorm.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Booking{})
}

func (r *BookingRepo) CreateTx(tx *gorm.DB, b *domain.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return tx.Create(b).Error
}

func (r *BookingRepo) ByID(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CancelIfConfirmedTx flips CONFIRMED -> CANCELLED with a guarded
// update; a second cancel of the same booking affects zero rows.
func (r *BookingRepo) CancelIfConfirmedTx(tx *gorm.DB, id string) error {
	res := tx.Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, domain.StatusConfirmed).
		Update("status", domain.StatusCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// ByUser lists bookings where the user is either party, newest first.
func (r *BookingRepo) ByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("host_id = ? OR peer_id = ?", userID, userID).
		Order("created_at DESC").Find(&out).Error
	return out, err
}

// SlotTakenTx reports whether a confirmed booking already occupies the
// slot. Callers must run it inside the transaction that inserts the
// booking, under the pair lock, or the answer is stale by commit time.
func (r *BookingRepo) SlotTakenTx(tx *gorm.DB, slotID string) (bool, error) {
	var n int64
	err := tx.Model(&domain.Booking{}).
		Where("slot_id = ? AND status = ?", slotID, domain.StatusConfirmed).
		Count(&n).Error
	return n > 0, err
}
