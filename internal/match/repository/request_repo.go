package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dlawiz83/SkillSwap/internal/match/domain"
)

type RequestRepo struct {
	db *gorm.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRequestRepo(db *gorm.DB) *RequestRepo {
	return &RequestRepo{db: db, locks: make(map[string]*sync.Mutex)}
}

// keyLock serializes creates per (from, to, skill). A count-then-insert
// alone is not enough: two transactions at read committed can both
// count zero pendings and both insert.
func (r *RequestRepo) keyLock(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.locks[key]
	if !ok {
		m = &sync.Mutex{}
		r.locks[key] = m
	}
	return m
}

func (r *RequestRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Request{})
}

// CreateIfNoPending runs the duplicate check and the insert in one
// transaction, holding the (from, to, skill) lock so concurrent
// creates for the same key see each other's commit.
func (r *RequestRepo) CreateIfNoPending(ctx context.Context, req *domain.Request) error {
	m := r.keyLock(strings.Join([]string{req.FromUserID, req.ToUserID, req.Skill}, "\x00"))
	m.Lock()
	defer m.Unlock()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dup int64
		err := tx.Model(&domain.Request{}).
			Where("from_user_id = ? AND to_user_id = ? AND skill = ? AND status = ?",
				req.FromUserID, req.ToUserID, req.Skill, domain.StatusPending).
			Count(&dup).Error
		if err != nil {
			return err
		}
		if dup > 0 {
			return domain.ErrDuplicatePending
		}
		if req.ID == "" {
			req.ID = uuid.NewString()
		}
		return tx.Create(req).Error
	})
}

func (r *RequestRepo) ByID(ctx context.Context, id string) (*domain.Request, error) {
	var req domain.Request
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// UpdateStatusIfPending transitions a pending request to a terminal
// status. The guarded update makes concurrent answers race safely: the
// second one sees zero rows and reports an invalid transition.
func (r *RequestRepo) UpdateStatusIfPending(ctx context.Context, id string, to domain.Status) (*domain.Request, error) {
	res := r.db.WithContext(ctx).Model(&domain.Request{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Update("status", to)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrInvalidTransition
	}
	return r.ByID(ctx, id)
}

func (r *RequestRepo) Incoming(ctx context.Context, userID string) ([]domain.Request, error) {
	var out []domain.Request
	err := r.db.WithContext(ctx).
		Where("to_user_id = ? AND status = ?", userID, domain.StatusPending).
		Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *RequestRepo) Sent(ctx context.Context, userID string) ([]domain.Request, error) {
	var out []domain.Request
	err := r.db.WithContext(ctx).
		Where("from_user_id = ? AND status IN ?", userID, []domain.Status{domain.StatusPending, domain.StatusRejected}).
		Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *RequestRepo) Accepted(ctx context.Context, userID string) ([]domain.Request, error) {
	var out []domain.Request
	err := r.db.WithContext(ctx).
		Where("(from_user_id = ? OR to_user_id = ?) AND status = ?", userID, userID, domain.StatusAccepted).
		Order("created_at DESC").Find(&out).Error
	return out, err
}

// HasAccepted reports whether an accepted request exists between the
// two users, in either direction.
func (r *RequestRepo) HasAccepted(ctx context.Context, a, b string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Request{}).
		Where("status = ?", domain.StatusAccepted).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)", a, b, b, a).
		Count(&n).Error
	return n > 0, err
}
