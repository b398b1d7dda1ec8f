package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dlawiz83/SkillSwap/internal/auth/domain"
)

type CredentialRepo struct{ db *gorm.DB }

func NewCredentialRepo(db *gorm.DB) *CredentialRepo {
	return &CredentialRepo{db: db}
}

func (r *CredentialRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Credential{})
}

func (r *CredentialRepo) CreateTx(tx *gorm.DB, c *domain.Credential) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return tx.Create(c).Error
}

func (r *CredentialRepo) ByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	var c domain.Credential
	err := r.db.WithContext(ctx).First(&c, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CredentialRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Credential{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}
