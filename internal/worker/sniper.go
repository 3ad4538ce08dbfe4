package worker

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"

	"offer_sniper/internal/domain/entity"
	"offer_sniper/internal/domain/service/matcher"
	"offer_sniper/internal/infrastructure/marketplace"
	"offer_sniper/pkg/logx"
)

type offerClient interface {
	FetchOffers(ctx context.Context) ([]entity.Offer, error)
	AcceptOffer(ctx context.Context, offerID string) (marketplace.AcceptanceResult, error)
}

type stateStore interface {
	GetStatus(ctx context.Context, email string) (entity.BotStatus, error)
	UpdateStatus(ctx context.Context, email string, status entity.BotStatus) error
	GetFilters(ctx context.Context, email string) (entity.Filters, error)
	Heartbeat(ctx context.Context, email string) error
	ReportMatch(ctx context.Context, email string, match entity.Match) error
}

type sessionInvalidator interface {
	Invalidate(ctx context.Context) error
}

// errStopRequested — внутренний сигнал остановки по команде оператора.
var errStopRequested = errors.New("stop requested")

// Sniper — горячий цикл: опрос офферов, прогон через фильтры, принятие
// первого подошедшего. Фильтры перечитываются из хранилища каждый цикл,
// остановка проверяется и опросом статуса, и push-каналом.
type Sniper struct {
	email   string
	client  offerClient
	store   stateStore
	auth    sessionInvalidator
	matcher *matcher.Matcher

	matches chan<- entity.Match
	updates <-chan entity.BotStatus

	sleepMin       time.Duration
	sleepMax       time.Duration
	rateLimitPause time.Duration
	stopCheckEvery time.Duration
	heartbeatEvery int

	// rejected помнит офферы, уже отписанные в debug-лог как отбракованные,
	// чтобы не шуметь каждый цикл. На решение кеш не влияет: каждый оффер
	// заново прогоняется через свежие фильтры.
	rejected *cache.Cache

	running atomic.Bool
}

func NewSniper(email string, client offerClient, store stateStore, auth sessionInvalidator) *Sniper {
	return &Sniper{
		email:          email,
		client:         client,
		store:          store,
		auth:           auth,
		matcher:        matcher.New(),
		sleepMin:       1000 * time.Millisecond,
		sleepMax:       2000 * time.Millisecond,
		rateLimitPause: 300 * time.Second,
		stopCheckEvery: 8 * time.Second,
		heartbeatEvery: 5,
		rejected:       cache.New(10*time.Minute, 15*time.Minute),
	}
}

// WithMatcher подменяет матчер (для тестов с фиксированными часами).
func (s *Sniper) WithMatcher(m *matcher.Matcher) *Sniper {
	s.matcher = m
	return s
}

// WithIntervals задаёт границы джиттера паузы между циклами.
func (s *Sniper) WithIntervals(minSleep, maxSleep time.Duration) *Sniper {
	s.sleepMin = minSleep
	s.sleepMax = maxSleep
	return s
}

// WithRateLimitPause задаёт длительность паузы после 429 и шаг проверки
// остановки внутри неё.
func (s *Sniper) WithRateLimitPause(pause, stopCheckEvery time.Duration) *Sniper {
	s.rateLimitPause = pause
	s.stopCheckEvery = stopCheckEvery
	return s
}

// WithMatchChannel подключает канал уведомлений о сработках.
func (s *Sniper) WithMatchChannel(matches chan<- entity.Match) *Sniper {
	s.matches = matches
	return s
}

// WithStatusUpdates подключает push-канал смены статуса. Канал дополняет
// опрос хранилища, без него цикл работает только на опросе.
func (s *Sniper) WithStatusUpdates(updates <-chan entity.BotStatus) *Sniper {
	s.updates = updates
	return s
}

// Run крутит цикл до первого принятого оффера, команды остановки, отмены
// контекста или фатальной ошибки авторизации. Повторный Run при живом
// цикле — ошибка.
func (s *Sniper) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New("sniper is already running")
	}
	defer s.running.Store(false)

	logger(ctx).Info("sniper loop started")

	degraded := false

	for cycle := 1; ; cycle++ {
		if s.stopRequested(ctx) {
			logger(ctx).Info("stop requested, exiting loop", slog.Int(logx.FieldCycle, cycle))
			return nil
		}

		if cycle%s.heartbeatEvery == 0 {
			if err := s.store.Heartbeat(ctx, s.email); err != nil {
				logger(ctx).Warn("heartbeat failed", logx.Error(err))
			}
		}

		filters, err := s.store.GetFilters(ctx, s.email)
		if err != nil {
			logger(ctx).Error("failed to load filters", logx.Error(err))
			if err := s.sleep(ctx); err != nil {
				return s.finish(ctx, err)
			}
			continue
		}

		offers, err := s.client.FetchOffers(ctx)
		if err != nil {
			fatal, ferr := s.handleFetchFailure(ctx, err)
			if fatal {
				return s.finish(ctx, ferr)
			}

			degraded = true
			if err := s.sleep(ctx); err != nil {
				return s.finish(ctx, err)
			}
			continue
		}

		metricCycles.Inc()
		metricOffersSeen.Add(float64(len(offers)))

		logger(ctx).Debug(
			"cycle summary",
			slog.Int(logx.FieldCycle, cycle),
			slog.Int(logx.FieldOfferCount, len(offers)),
		)

		if degraded {
			s.setStatus(ctx, entity.StatusRunning)
			degraded = false
		}

		if cycle == 1 && len(offers) > 0 {
			logger(ctx).Debug(
				"offer payload shape",
				slog.Any("top-level-keys", offers[0].TopLevelKeys()),
				slog.Int(logx.FieldOfferCount, len(offers)),
			)
		}

		terminal, err := s.scanOffers(ctx, offers, filters)
		if terminal {
			return s.finish(ctx, err)
		}

		if err := s.sleep(ctx); err != nil {
			return s.finish(ctx, err)
		}
	}
}

// finish переводит errStopRequested в штатный выход.
func (s *Sniper) finish(ctx context.Context, err error) error {
	if errors.Is(err, errStopRequested) {
		logger(ctx).Info("stop requested, exiting loop")
		return nil
	}
	return err
}

// scanOffers прогоняет офферы через фильтры и принимает первый подошедший.
// Возвращает terminal=true, когда цикл должен завершиться. Остановка
// проверяется перед каждым оффером.
func (s *Sniper) scanOffers(ctx context.Context, offers []entity.Offer, filters entity.Filters) (bool, error) {
	for _, offer := range offers {
		if err := ctx.Err(); err != nil {
			return true, err
		}
		if s.stopSignalled() {
			return true, errStopRequested
		}

		id := offer.ID()

		verdict := s.matcher.Evaluate(offer, filters)
		if !verdict.Match {
			if id == "" {
				continue
			}
			if _, seen := s.rejected.Get(id); !seen {
				s.rejected.SetDefault(id, verdict.Reason)
				logger(ctx).Debug(
					"offer rejected",
					slog.String(logx.FieldOfferID, id),
					slog.String(logx.FieldReason, verdict.Reason),
				)
			}
			continue
		}

		price, _ := matcher.Price(offer)
		match := entity.Match{At: time.Now(), OfferID: id, Price: price}

		metricMatches.Inc()
		logger(ctx).Info(
			"offer matched",
			slog.String(logx.FieldOfferID, id),
			slog.String(logx.FieldPrice, price.String()),
			slog.String(logx.FieldReason, verdict.Reason),
		)

		// Сработку фиксируем до принятия: даже упавший accept оставляет
		// след для оператора.
		if err := s.store.ReportMatch(ctx, s.email, match); err != nil {
			logger(ctx).Warn("failed to report match", logx.Error(err))
		}

		result, err := s.client.AcceptOffer(ctx, id)
		if err != nil {
			if marketplace.Kind(err) == marketplace.FailureAuthExpired {
				return true, s.failAuth(ctx, err)
			}

			logger(ctx).Error(
				"failed to accept offer",
				slog.String(logx.FieldOfferID, id),
				logx.Error(err),
			)
			continue
		}

		metricAccepted.Inc()
		logger(ctx).Info(
			"offer accepted",
			slog.String(logx.FieldOfferID, id),
			slog.String("acceptance-status", result.Status),
		)

		if s.matches != nil {
			select {
			case s.matches <- match:
			default:
			}
		}

		s.setStatus(ctx, entity.StatusStopped)

		return true, nil
	}

	return false, nil
}

// handleFetchFailure разбирает ошибку опроса. fatal=true завершает цикл.
func (s *Sniper) handleFetchFailure(ctx context.Context, err error) (bool, error) {
	kind := marketplace.Kind(err)
	metricFetchFailures.WithLabelValues(string(kind)).Inc()

	switch kind {
	case marketplace.FailureAuthExpired:
		return true, s.failAuth(ctx, err)

	case marketplace.FailureRateLimited:
		// Подсказка Retry-After укорачивает паузу, но не удлиняет её.
		pause := s.rateLimitPause
		if rl, ok := marketplace.AsRateLimit(err); ok && rl.RetryAfter > 0 && rl.RetryAfter < pause {
			pause = rl.RetryAfter
		}

		s.setStatus(ctx, entity.StatusPausedRateLimit)
		logger(ctx).Warn("rate limited, pausing", slog.Duration("pause", pause))

		if werr := s.pauseForRateLimit(ctx, pause); werr != nil {
			return true, werr
		}

		s.setStatus(ctx, entity.StatusRunning)
		return false, nil

	default:
		logger(ctx).Warn("marketplace fetch failed, will retry", logx.Error(err))
		s.setStatus(ctx, entity.StatusErrorAuth)
		return false, nil
	}
}

// failAuth — фатальный исход 401: сессию стираем, статус ERROR_AUTH,
// ошибка уходит вызывающему коду.
func (s *Sniper) failAuth(ctx context.Context, err error) error {
	logger(ctx).Error("session expired", logx.Error(err))

	if ierr := s.auth.Invalidate(ctx); ierr != nil {
		logger(ctx).Warn("failed to invalidate session", logx.Error(ierr))
	}

	s.setStatus(ctx, entity.StatusErrorAuth)

	return err
}

// stopSignalled неблокирующе сливает push-канал. Хранилище не трогает,
// поэтому годится для проверки между офферами внутри одного цикла.
func (s *Sniper) stopSignalled() bool {
	select {
	case status, ok := <-s.updates:
		return ok && status == entity.StatusStopped
	default:
		return false
	}
}

// stopRequested сливает push-канал и опрашивает хранилище. Ошибка опроса
// не останавливает цикл: источник истины недоступен, работаем дальше.
func (s *Sniper) stopRequested(ctx context.Context) bool {
	if s.stopSignalled() {
		return true
	}

	status, err := s.store.GetStatus(ctx, s.email)
	if err != nil {
		logger(ctx).Warn("failed to poll status", logx.Error(err))
		return false
	}

	return status == entity.StatusStopped
}

// sleep ждёт случайный интервал между циклами, реагируя на отмену и
// push-команду остановки.
func (s *Sniper) sleep(ctx context.Context) error {
	jitter := s.sleepMin
	if s.sleepMax > s.sleepMin {
		jitter += rand.N(s.sleepMax - s.sleepMin)
	}

	timer := time.NewTimer(jitter)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case status, ok := <-s.updates:
			if ok && status == entity.StatusStopped {
				return errStopRequested
			}
		}
	}
}

// pauseForRateLimit выдерживает паузу, проверяя остановку на каждом шаге.
func (s *Sniper) pauseForRateLimit(ctx context.Context, pause time.Duration) error {
	deadline := time.Now().Add(pause)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil
		}

		interval := s.stopCheckEvery
		if remaining < interval {
			interval = remaining
		}

		timer := time.NewTimer(interval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case status, ok := <-s.updates:
			timer.Stop()
			if ok && status == entity.StatusStopped {
				return errStopRequested
			}
		}

		if s.stopRequested(ctx) {
			return errStopRequested
		}
	}
}

func (s *Sniper) setStatus(ctx context.Context, status entity.BotStatus) {
	if err := s.store.UpdateStatus(ctx, s.email, status); err != nil {
		logger(ctx).Warn(
			"failed to update status",
			slog.String(logx.FieldBotStatus, status.String()),
			logx.Error(err),
		)
	}
}
