package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	karmadomain "github.com/dlawiz83/SkillSwap/internal/karma/domain"
	karmarepo "github.com/dlawiz83/SkillSwap/internal/karma/repository"
	karmasvc "github.com/dlawiz83/SkillSwap/internal/karma/service"
	"github.com/dlawiz83/SkillSwap/internal/match/domain"
	"github.com/dlawiz83/SkillSwap/internal/match/repository"
	profiledomain "github.com/dlawiz83/SkillSwap/internal/profile/domain"
	profilerepo "github.com/dlawiz83/SkillSwap/internal/profile/repository"
	profilesvc "github.com/dlawiz83/SkillSwap/internal/profile/service"
)

func newTestStack(t *testing.T) (*profilesvc.ProfileSvc, *RequestSvc) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	// One connection keeps concurrent transactions off sqlite's
	// shared-cache table locks.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&profiledomain.Profile{}, &profiledomain.AvailabilitySlot{},
		&karmadomain.Entry{}, &domain.Request{},
	))

	ledger := karmasvc.NewLedger(db, karmarepo.NewLedgerRepo(db), nil)
	profiles := profilesvc.NewProfileSvc(db, profilerepo.NewProfileRepo(db), ledger)
	return profiles, NewRequestSvc(repository.NewRequestRepo(db), profiles, nil)
}

func register(t *testing.T, profiles *profilesvc.ProfileSvc, id, name string, teach, learn []string) {
	t.Helper()
	_, err := profiles.Register(context.Background(), id, id+"@example.com", name, id)
	require.NoError(t, err)
	if len(teach) > 0 || len(learn) > 0 {
		_, err = profiles.UpdateSkills(context.Background(), id, teach, learn)
		require.NoError(t, err)
	}
}

func TestCreateSnapshotsBothSides(t *testing.T) {
	profiles, svc := newTestStack(t)
	register(t, profiles, "alice", "Alice", []string{"Spanish"}, []string{"Guitar"})
	register(t, profiles, "bob", "Bob", []string{"Guitar"}, []string{"Spanish"})

	req, err := svc.Create(context.Background(), "alice", "bob", " Guitar ")
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, req.Status)
	require.Equal(t, "Guitar", req.Skill)
	require.Equal(t, "Alice", req.FromName)
	require.Equal(t, "Bob", req.ToName)
	require.Equal(t, []string{"Spanish"}, []string(req.FromTeach))
	require.Equal(t, []string{"Guitar"}, []string(req.ToTeach))

	// Later skill edits must not rewrite the snapshot.
	_, err = profiles.UpdateSkills(context.Background(), "bob", []string{"Chess"}, nil)
	require.NoError(t, err)
	got, err := svc.Get(context.Background(), req.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"Guitar"}, []string(got.ToTeach))
}

func TestCreateRejectsSelfRequest(t *testing.T) {
	profiles, svc := newTestStack(t)
	register(t, profiles, "alice", "Alice", nil, nil)

	_, err := svc.Create(context.Background(), "alice", "alice", "Guitar")
	require.ErrorIs(t, err, domain.ErrSelfRequest)
}

func TestCreateDuplicatePending(t *testing.T) {
	profiles, svc := newTestStack(t)
	register(t, profiles, "alice", "Alice", nil, nil)
	register(t, profiles, "bob", "Bob", nil, nil)

	_, err := svc.Create(context.Background(), "alice", "bob", "Guitar")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "alice", "bob", "Guitar")
	require.ErrorIs(t, err, domain.ErrDuplicatePending)

	// A different skill between the same pair is a different request.
	_, err = svc.Create(context.Background(), "alice", "bob", "Chess")
	require.NoError(t, err)

	// So is the opposite direction for the same skill.
	_, err = svc.Create(context.Background(), "bob", "alice", "Guitar")
	require.NoError(t, err)
}

func TestConcurrentCreatesSinglePending(t *testing.T) {
	profiles, svc := newTestStack(t)
	register(t, profiles, "alice", "Alice", nil, nil)
	register(t, profiles, "bob", "Bob", nil, nil)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), "alice", "bob", "Guitar")
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			require.ErrorIs(t, err, domain.ErrDuplicatePending)
			lost++
		}
	}
	require.Equal(t, 1, won)
	require.Equal(t, 1, lost)

	incoming, err := svc.Incoming(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, incoming, 1)
}

func TestDuplicateAllowedAfterTerminalAnswer(t *testing.T) {
	profiles, svc := newTestStack(t)
	register(t, profiles, "alice", "Alice", nil, nil)
	register(t, profiles, "bob", "Bob", nil, nil)

	req, err := svc.Create(context.Background(), "alice", "bob", "Guitar")
	require.NoError(t, err)
	_, err = svc.Reject(context.Background(), req.ID, "bob")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "alice", "bob", "Guitar")
	require.NoError(t, err)
}

func TestAcceptOnlyByReceiver(t *testing.T) {
	profiles, svc := newTestStack(t)
	register(t, profiles, "alice", "Alice", nil, nil)
	register(t, profiles, "bob", "Bob", nil, nil)

	req, err := svc.Create(context.Background(), "alice", "bob", "Guitar")
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), req.ID, "alice")
	require.ErrorIs(t, err, domain.ErrNotAuthorized)

	// The failed attempt leaves the request answerable.
	got, err := svc.Accept(context.Background(), req.ID, "bob")
	require.NoError(t, err)
	require.Equal(t, domain.StatusAccepted, got.Status)
}

func TestAnswerIsTerminal(t *testing.T) {
	profiles, svc := newTestStack(t)
	register(t, profiles, "alice", "Alice", nil, nil)
	register(t, profiles, "bob", "Bob", nil, nil)

	req, err := svc.Create(context.Background(), "alice", "bob", "Guitar")
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), req.ID, "bob")
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), req.ID, "bob")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = svc.Accept(context.Background(), req.ID, "bob")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := svc.Get(context.Background(), req.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusAccepted, got.Status)
}

func TestBoxes(t *testing.T) {
	profiles, svc := newTestStack(t)
	register(t, profiles, "alice", "Alice", nil, nil)
	register(t, profiles, "bob", "Bob", nil, nil)

	req, err := svc.Create(context.Background(), "alice", "bob", "Guitar")
	require.NoError(t, err)

	incoming, err := svc.Incoming(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, incoming, 1)

	sent, err := svc.Sent(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, sent, 1)

	_, err = svc.Accept(context.Background(), req.ID, "bob")
	require.NoError(t, err)

	incoming, err = svc.Incoming(context.Background(), "bob")
	require.NoError(t, err)
	require.Empty(t, incoming)

	for _, id := range []string{"alice", "bob"} {
		accepted, err := svc.Accepted(context.Background(), id)
		require.NoError(t, err)
		require.Len(t, accepted, 1)
	}
}

func TestHasAcceptedEitherDirection(t *testing.T) {
	profiles, svc := newTestStack(t)
	register(t, profiles, "alice", "Alice", nil, nil)
	register(t, profiles, "bob", "Bob", nil, nil)

	ok, err := svc.HasAccepted(context.Background(), "alice", "bob")
	require.NoError(t, err)
	require.False(t, ok)

	req, err := svc.Create(context.Background(), "alice", "bob", "Guitar")
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), req.ID, "bob")
	require.NoError(t, err)

	for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		ok, err := svc.HasAccepted(context.Background(), pair[0], pair[1])
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestAnswerUnknownRequest(t *testing.T) {
	profiles, svc := newTestStack(t)
	register(t, profiles, "bob", "Bob", nil, nil)

	_, err := svc.Accept(context.Background(), "nope", "bob")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
