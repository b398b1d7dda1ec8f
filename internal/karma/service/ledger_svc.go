package service

import (
	"context"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/dlawiz83/SkillSwap/internal/karma/domain"
	"github.com/dlawiz83/SkillSwap/internal/karma/repository"
	"github.com/dlawiz83/SkillSwap/pkg/mq"
)

// Ledger owns every karma balance mutation. Callers never touch the
// balance column directly; a transfer is debit + credit + two ledger
// rows committed as one unit or not at all.
type Ledger struct {
	db   *gorm.DB
	repo *repository.LedgerRepo
	pub  *mq.Publisher

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLedger(db *gorm.DB, repo *repository.LedgerRepo, pub *mq.Publisher) *Ledger {
	return &Ledger{db: db, repo: repo, pub: pub, locks: make(map[string]*sync.Mutex)}
}

func (l *Ledger) userLock(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// PairLock serializes transfers touching either of the two users.
// Locks are taken in sorted order so two overlapping pairs cannot
// deadlock. The guarded UPDATE in the repo already keeps balances
// non-negative on its own; the lock makes the loser of a concurrent
// spend fail cleanly with ErrInsufficientKarma instead of racing the
// store.
func (l *Ledger) PairLock(a, b string) (unlock func()) {
	ids := []string{a, b}
	sort.Strings(ids)
	first, second := l.userLock(ids[0]), l.userLock(ids[1])
	first.Lock()
	if second != first {
		second.Lock()
	}
	return func() {
		if second != first {
			second.Unlock()
		}
		first.Unlock()
	}
}

// Transfer moves amount from one user to the other atomically.
func (l *Ledger) Transfer(ctx context.Context, fromID, toID string, amount int, ref string) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	if fromID == toID {
		return domain.ErrSelfTransfer
	}
	unlock := l.PairLock(fromID, toID)
	defer unlock()

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return l.TransferTx(tx, fromID, toID, amount, ref)
	})
	if err != nil {
		return err
	}
	_ = l.pub.PublishJSON(ctx, "karma.transferred", map[string]any{
		"from_user_id": fromID, "to_user_id": toID, "amount": amount, "ref": ref,
	})
	return nil
}

// TransferTx runs the transfer inside a caller-owned transaction.
// The caller must hold PairLock(fromID, toID) for the duration of the
// transaction.
func (l *Ledger) TransferTx(tx *gorm.DB, fromID, toID string, amount int, ref string) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	if fromID == toID {
		return domain.ErrSelfTransfer
	}
	if err := l.repo.DebitTx(tx, fromID, amount); err != nil {
		return err
	}
	if err := l.repo.CreditTx(tx, toID, amount); err != nil {
		return err
	}
	fromBal, err := l.repo.BalanceTx(tx, fromID)
	if err != nil {
		return err
	}
	toBal, err := l.repo.BalanceTx(tx, toID)
	if err != nil {
		return err
	}
	if err := l.repo.AddEntryTx(tx, &domain.Entry{
		UserID: fromID, Change: -amount, BalanceAfter: fromBal,
		EventType: domain.EventTransferOut, Ref: ref,
	}); err != nil {
		return err
	}
	return l.repo.AddEntryTx(tx, &domain.Entry{
		UserID: toID, Change: amount, BalanceAfter: toBal,
		EventType: domain.EventTransferIn, Ref: ref,
	})
}

// GrantTx credits a user out of thin air. The registration grant is the
// only caller; all other movements go through TransferTx.
func (l *Ledger) GrantTx(tx *gorm.DB, userID string, amount int, reason string) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	if err := l.repo.CreditTx(tx, userID, amount); err != nil {
		return err
	}
	bal, err := l.repo.BalanceTx(tx, userID)
	if err != nil {
		return err
	}
	return l.repo.AddEntryTx(tx, &domain.Entry{
		UserID: userID, Change: amount, BalanceAfter: bal,
		EventType: domain.EventGrant, Ref: reason,
	})
}

func (l *Ledger) Balance(ctx context.Context, userID string) (int, error) {
	return l.repo.Balance(ctx, userID)
}

func (l *Ledger) History(ctx context.Context, userID string, limit int) ([]domain.Entry, error) {
	return l.repo.History(ctx, userID, limit)
}
