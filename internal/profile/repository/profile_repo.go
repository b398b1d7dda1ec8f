package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/dlawiz83/SkillSwap/internal/profile/domain"
)

type ProfileRepo struct{ db *gorm.DB }

func NewProfileRepo(db *gorm.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Profile{}, &domain.AvailabilitySlot{})
}

func (r *ProfileRepo) CreateTx(tx *gorm.DB, p *domain.Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return tx.Create(p).Error
}

func (r *ProfileRepo) ByID(ctx context.Context, id string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.WithContext(ctx).Preload("Availability").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepo) ByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.WithContext(ctx).Preload("Availability").First(&p, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListExcluding returns every profile except the given one, in creation
// order. Discovery relies on this order being stable for tie-breaks.
func (r *ProfileRepo) ListExcluding(ctx context.Context, excludeID string) ([]domain.Profile, error) {
	var out []domain.Profile
	qb := r.db.WithContext(ctx).Model(&domain.Profile{}).Order("created_at ASC, id ASC")
	if excludeID != "" {
		qb = qb.Where("id <> ?", excludeID)
	}
	if err := qb.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProfileRepo) UpdateSkills(ctx context.Context, id string, teach, learn []string) error {
	res := r.db.WithContext(ctx).Model(&domain.Profile{}).Where("id = ?", id).Updates(map[string]any{
		"skills_teaching": datatypes.NewJSONSlice(teach),
		"skills_learning": datatypes.NewJSONSlice(learn),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProfileRepo) AddSlot(ctx context.Context, s *domain.AvailabilitySlot) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ProfileRepo) SlotByID(ctx context.Context, id string) (*domain.AvailabilitySlot, error) {
	var s domain.AvailabilitySlot
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ProfileRepo) DeleteSlot(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.AvailabilitySlot{}, "id = ?", id).Error
}
