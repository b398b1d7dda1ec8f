package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dlawiz83/SkillSwap/internal/auth/domain"
	"github.com/dlawiz83/SkillSwap/internal/auth/repository"
	profiledomain "github.com/dlawiz83/SkillSwap/internal/profile/domain"
	profilesvc "github.com/dlawiz83/SkillSwap/internal/profile/service"
	"github.com/dlawiz83/SkillSwap/pkg/auth"
)

type AuthSvc struct {
	db       *gorm.DB
	repo     *repository.CredentialRepo
	profiles *profilesvc.ProfileSvc
	tokenTTL time.Duration
}

func NewAuthSvc(db *gorm.DB, repo *repository.CredentialRepo, profiles *profilesvc.ProfileSvc, tokenTTL time.Duration) *AuthSvc {
	return &AuthSvc{db: db, repo: repo, profiles: profiles, tokenTTL: tokenTTL}
}

// Register creates the credential and the profile (with its initial
// karma grant) under the same id.
func (s *AuthSvc) Register(ctx context.Context, email, password, name, handle string) (*profiledomain.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	taken, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	cred := &domain.Credential{Email: email, PasswordHash: string(hash)}
	var p *profiledomain.Profile
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, cred); err != nil {
			return err
		}
		p, err = s.profiles.RegisterTx(tx, cred.ID, email, name, handle)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *AuthSvc) Login(ctx context.Context, email, password string) (*profiledomain.Profile, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	cred, err := s.repo.ByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	p, err := s.profiles.Get(ctx, cred.ID)
	if err != nil {
		return nil, "", err
	}
	token, err := auth.CreateAccessToken(cred.ID, cred.Email, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return p, token, nil
}
