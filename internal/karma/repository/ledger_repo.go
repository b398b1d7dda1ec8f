package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dlawiz83/SkillSwap/internal/karma/domain"
	profiledomain "github.com/dlawiz83/SkillSwap/internal/profile/domain"
)

type LedgerRepo struct{ db *gorm.DB }

func NewLedgerRepo(db *gorm.DB) *LedgerRepo {
	return &LedgerRepo{db: db}
}

func (r *LedgerRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Entry{})
}

// DebitTx decreases a balance with a guarded update so it can never go
// negative, whatever else runs concurrently.
func (r *LedgerRepo) DebitTx(tx *gorm.DB, userID string, amount int) error {
	res := tx.Model(&profiledomain.Profile{}).
		Where("id = ? AND karma >= ?", userID, amount).
		UpdateColumn("karma", gorm.Expr("karma - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var exists int64
		if err := tx.Model(&profiledomain.Profile{}).Where("id = ?", userID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return profiledomain.ErrNotFound
		}
		return domain.ErrInsufficientKarma
	}
	return nil
}

func (r *LedgerRepo) CreditTx(tx *gorm.DB, userID string, amount int) error {
	res := tx.Model(&profiledomain.Profile{}).
		Where("id = ?", userID).
		UpdateColumn("karma", gorm.Expr("karma + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return profiledomain.ErrNotFound
	}
	return nil
}

func (r *LedgerRepo) BalanceTx(tx *gorm.DB, userID string) (int, error) {
	var p profiledomain.Profile
	err := tx.Select("karma").First(&p, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, profiledomain.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return p.Karma, nil
}

func (r *LedgerRepo) AddEntryTx(tx *gorm.DB, e *domain.Entry) error {
	return tx.Create(e).Error
}

func (r *LedgerRepo) Balance(ctx context.Context, userID string) (int, error) {
	return r.BalanceTx(r.db.WithContext(ctx), userID)
}

// History lists a user's ledger entries, newest first.
func (r *LedgerRepo) History(ctx context.Context, userID string, limit int) ([]domain.Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []domain.Entry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).
		Find(&out).Error
	return out, err
}
