package service

import (
	"context"
	"strings"

	"gorm.io/gorm"

	karmadomain "github.com/dlawiz83/SkillSwap/internal/karma/domain"
	karmasvc "github.com/dlawiz83/SkillSwap/internal/karma/service"
	"github.com/dlawiz83/SkillSwap/internal/profile/domain"
	"github.com/dlawiz83/SkillSwap/internal/profile/repository"
)

type ProfileSvc struct {
	db     *gorm.DB
	repo   *repository.ProfileRepo
	ledger *karmasvc.Ledger
}

func NewProfileSvc(db *gorm.DB, repo *repository.ProfileRepo, ledger *karmasvc.Ledger) *ProfileSvc {
	return &ProfileSvc{db: db, repo: repo, ledger: ledger}
}

// Register creates a profile with empty skill sets and books the
// initial karma grant through the ledger, in one transaction, so every
// balance a user ever holds is explained by ledger rows.
func (s *ProfileSvc) Register(ctx context.Context, id, email, name, handle string) (*domain.Profile, error) {
	var p *domain.Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		p, err = s.RegisterTx(tx, id, email, name, handle)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// RegisterTx is Register inside a caller-owned transaction, for flows
// that create more than the profile (credentials, seed data).
func (s *ProfileSvc) RegisterTx(tx *gorm.DB, id, email, name, handle string) (*domain.Profile, error) {
	p := &domain.Profile{ID: id, Email: strings.ToLower(email), Name: name, Handle: handle}
	if err := s.repo.CreateTx(tx, p); err != nil {
		return nil, err
	}
	if err := s.ledger.GrantTx(tx, p.ID, karmadomain.InitialGrant, "signup"); err != nil {
		return nil, err
	}
	p.Karma = karmadomain.InitialGrant
	return p, nil
}

func (s *ProfileSvc) Get(ctx context.Context, id string) (*domain.Profile, error) {
	return s.repo.ByID(ctx, id)
}

func (s *ProfileSvc) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return s.repo.ByEmail(ctx, strings.ToLower(email))
}

// UpdateSkills merges the submitted labels into the existing sets, the
// way the original skill-card form accumulates entries.
func (s *ProfileSvc) UpdateSkills(ctx context.Context, ownerID string, teach, learn []string) (*domain.Profile, error) {
	if len(teach) == 0 && len(learn) == 0 {
		return nil, domain.ErrEmptySkillSet
	}
	p, err := s.repo.ByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	merged := struct{ teach, learn []string }{
		teach: domain.MergeSkills(p.SkillsTeaching, teach),
		learn: domain.MergeSkills(p.SkillsLearning, learn),
	}
	if err := s.repo.UpdateSkills(ctx, ownerID, merged.teach, merged.learn); err != nil {
		return nil, err
	}
	return s.repo.ByID(ctx, ownerID)
}

func (s *ProfileSvc) AddAvailability(ctx context.Context, ownerID, day, timeOfDay string) (*domain.AvailabilitySlot, error) {
	if _, err := s.repo.ByID(ctx, ownerID); err != nil {
		return nil, err
	}
	slot := &domain.AvailabilitySlot{ProfileID: ownerID, Day: day, Time: timeOfDay}
	if err := s.repo.AddSlot(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *ProfileSvc) RemoveAvailability(ctx context.Context, ownerID, slotID string) error {
	slot, err := s.repo.SlotByID(ctx, slotID)
	if err != nil {
		return err
	}
	if slot.ProfileID != ownerID {
		return domain.ErrNotOwner
	}
	return s.repo.DeleteSlot(ctx, slotID)
}

// Slot resolves a published availability entry of a given profile.
func (s *ProfileSvc) Slot(ctx context.Context, profileID, slotID string) (*domain.AvailabilitySlot, error) {
	slot, err := s.repo.SlotByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.ProfileID != profileID {
		return nil, domain.ErrSlotNotFound
	}
	return slot, nil
}

func (s *ProfileSvc) ListExcluding(ctx context.Context, excludeID string) ([]domain.Profile, error) {
	return s.repo.ListExcluding(ctx, excludeID)
}
