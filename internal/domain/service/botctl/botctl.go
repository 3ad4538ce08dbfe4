package botctl

import (
	"context"

	"offer_sniper/internal/domain/entity"
)

type stateStore interface {
	GetBot(ctx context.Context, email string) (*entity.Bot, error)
	UpdateStatus(ctx context.Context, email string, status entity.BotStatus) error
	UpdateFilters(ctx context.Context, email string, filters entity.Filters) error
}

type statusPublisher interface {
	Publish(ctx context.Context, email string, status entity.BotStatus) error
}

// Service — операторские команды над ботом. Пишет статус в хранилище и
// дублирует его в push-канал, чтобы работающий цикл узнал о команде сразу,
// а не на следующем опросе.
type Service struct {
	store stateStore
	feed  statusPublisher
	email string
}

func New(store stateStore, feed statusPublisher, email string) *Service {
	return &Service{store: store, feed: feed, email: email}
}

func (s *Service) Get(ctx context.Context) (*entity.Bot, error) {
	return s.store.GetBot(ctx, s.email)
}

func (s *Service) UpdateFilters(ctx context.Context, filters entity.Filters) error {
	if err := filters.Validate(); err != nil {
		return err
	}

	return s.store.UpdateFilters(ctx, s.email, filters)
}

func (s *Service) Start(ctx context.Context) error {
	return s.setStatus(ctx, entity.StatusRunning)
}

func (s *Service) Stop(ctx context.Context) error {
	return s.setStatus(ctx, entity.StatusStopped)
}

func (s *Service) setStatus(ctx context.Context, status entity.BotStatus) error {
	if err := s.store.UpdateStatus(ctx, s.email, status); err != nil {
		return err
	}

	// Рассылка best-effort: цикл в любом случае увидит статус на опросе.
	if s.feed != nil {
		if err := s.feed.Publish(ctx, s.email, status); err != nil {
			logger(ctx).Warn("failed to publish status", "error", err)
		}
	}

	return nil
}
