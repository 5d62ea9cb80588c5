package services

import (
	"context"
	"strings"
	"time"

	"autumhire/internal/models/db_models"
	"autumhire/internal/models/request_models"
	"autumhire/internal/repositories"
	"autumhire/pkg/utils"
)

type SubscriberServiceInterface interface {
	Subscribe(ctx context.Context, request request_models.SubscribeRequest) (*db_models.Subscriber, error)
	Unsubscribe(ctx context.Context, email string) error
}

type SubscriberService struct {
	repo repositories.SubscriberRepository
	now  func() time.Time
}

func NewSubscriberService(repo repositories.SubscriberRepository) SubscriberServiceInterface {
	return &SubscriberService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *SubscriberService) Subscribe(ctx context.Context, request request_models.SubscribeRequest) (*db_models.Subscriber, error) {
	sub := &db_models.Subscriber{
		Email:        normalizeEmail(request.Email),
		Location:     strings.TrimSpace(request.Location),
		SubscribedAt: s.now(),
	}

	seen := map[string]bool{}
	for _, name := range request.Industries {
		name = strings.Join(strings.Fields(name), " ")
		key := repositories.IndustryKey(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		sub.Industries = append(sub.Industries, db_models.SubscriberIndustry{Industry: name})
	}
	if len(sub.Industries) == 0 {
		return nil, utils.ErrIndustryRequired
	}

	if err := s.repo.Upsert(ctx, sub); err != nil {
		return nil, utils.ErrDatabaseError
	}
	return sub, nil
}

func (s *SubscriberService) Unsubscribe(ctx context.Context, email string) error {
	removed, err := s.repo.Delete(ctx, normalizeEmail(email))
	if err != nil {
		return utils.ErrDatabaseError
	}
	if !removed {
		return utils.RecordNotFound
	}
	return nil
}
