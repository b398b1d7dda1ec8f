package service

import (
	"context"
	"strings"

	"github.com/dlawiz83/SkillSwap/internal/match/domain"
	"github.com/dlawiz83/SkillSwap/internal/match/repository"
	profilesvc "github.com/dlawiz83/SkillSwap/internal/profile/service"
	"github.com/dlawiz83/SkillSwap/pkg/mq"
)

type RequestSvc struct {
	repo     *repository.RequestRepo
	profiles *profilesvc.ProfileSvc
	pub      *mq.Publisher
}

func NewRequestSvc(repo *repository.RequestRepo, profiles *profilesvc.ProfileSvc, pub *mq.Publisher) *RequestSvc {
	return &RequestSvc{repo: repo, profiles: profiles, pub: pub}
}

// Create sends a match proposal from one user to another for one
// target skill. At most one pending request may exist per
// (from, to, skill); a second attempt fails with ErrDuplicatePending.
// Both parties' current skills are snapshotted onto the request.
func (s *RequestSvc) Create(ctx context.Context, fromID, toID, skill string) (*domain.Request, error) {
	if fromID == toID {
		return nil, domain.ErrSelfRequest
	}
	from, err := s.profiles.Get(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.profiles.Get(ctx, toID)
	if err != nil {
		return nil, err
	}

	req := &domain.Request{
		FromUserID: fromID,
		ToUserID:   toID,
		Skill:      strings.TrimSpace(skill),
		FromName:   from.Name,
		ToName:     to.Name,
		FromTeach:  from.SkillsTeaching,
		FromLearn:  from.SkillsLearning,
		ToTeach:    to.SkillsTeaching,
		ToLearn:    to.SkillsLearning,
		Status:     domain.StatusPending,
	}
	if err := s.repo.CreateIfNoPending(ctx, req); err != nil {
		return nil, err
	}

	_ = s.pub.PublishJSON(ctx, "match.requested", map[string]any{
		"request_id": req.ID, "from_user_id": fromID, "to_user_id": toID, "skill": req.Skill,
	})
	return req, nil
}

// Accept transitions pending -> accepted. Only the receiving user may
// answer; anything but a pending request is an invalid transition.
func (s *RequestSvc) Accept(ctx context.Context, requestID, actingUserID string) (*domain.Request, error) {
	return s.answer(ctx, requestID, actingUserID, domain.StatusAccepted, "match.accepted")
}

// Reject transitions pending -> rejected, terminal.
func (s *RequestSvc) Reject(ctx context.Context, requestID, actingUserID string) (*domain.Request, error) {
	return s.answer(ctx, requestID, actingUserID, domain.StatusRejected, "match.rejected")
}

func (s *RequestSvc) answer(ctx context.Context, requestID, actingUserID string, to domain.Status, routingKey string) (*domain.Request, error) {
	req, err := s.repo.ByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ToUserID != actingUserID {
		return nil, domain.ErrNotAuthorized
	}
	updated, err := s.repo.UpdateStatusIfPending(ctx, requestID, to)
	if err != nil {
		return nil, err
	}
	_ = s.pub.PublishJSON(ctx, routingKey, map[string]any{
		"request_id": updated.ID, "from_user_id": updated.FromUserID, "to_user_id": updated.ToUserID, "skill": updated.Skill,
	})
	return updated, nil
}

func (s *RequestSvc) Get(ctx context.Context, id string) (*domain.Request, error) {
	return s.repo.ByID(ctx, id)
}

func (s *RequestSvc) Incoming(ctx context.Context, userID string) ([]domain.Request, error) {
	return s.repo.Incoming(ctx, userID)
}

func (s *RequestSvc) Sent(ctx context.Context, userID string) ([]domain.Request, error) {
	return s.repo.Sent(ctx, userID)
}

func (s *RequestSvc) Accepted(ctx context.Context, userID string) ([]domain.Request, error) {
	return s.repo.Accepted(ctx, userID)
}

// HasAccepted is the booking precondition: the two users must share an
// accepted request, in either direction.
func (s *RequestSvc) HasAccepted(ctx context.Context, a, b string) (bool, error) {
	return s.repo.HasAccepted(ctx, a, b)
}
