package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"offer_sniper/internal/config"
	"offer_sniper/internal/domain/entity"
	"offer_sniper/internal/domain/service/botctl"
	"offer_sniper/internal/infrastructure/auth"
	"offer_sniper/internal/infrastructure/marketplace"
	"offer_sniper/internal/infrastructure/notifier"
	"offer_sniper/internal/infrastructure/notify"
	"offer_sniper/internal/infrastructure/persistence"
	"offer_sniper/internal/server"
	"offer_sniper/internal/transport/bot"
	"offer_sniper/internal/worker"
	"offer_sniper/pkg/application/connectors"
	"offer_sniper/pkg/application/modules"
	"offer_sniper/pkg/logx"
	"offer_sniper/pkg/middlewarex"
)

const (
	appName    = "offer-sniper"
	appVersion = "dev"

	httpShutdownTimeout = 10 * time.Second
	logFieldMaxLen      = 4096

	// idlePollInterval — шаг опроса статуса, пока бот остановлен.
	idlePollInterval = 10 * time.Second
)

func Run(ctx context.Context) error {
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	// 2. Database
	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db.PingContext: %w", err)
	}

	repo := persistence.NewBotStateRepository(db)

	// Строка бота должна существовать до старта цикла и API.
	if err := repo.Bootstrap(ctx, cfg.Account.Email); err != nil {
		return fmt.Errorf("repo.Bootstrap: %w", err)
	}

	// 3. Redis: push-канал смены статуса.
	rd := &connectors.Redis{
		Address:            cfg.Redis.Address,
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	feed := notify.NewStatusFeed(rd.Client(ctx))
	defer rd.Close(ctx)

	// 4. Операторский API.
	botService := botctl.New(repo, feed, cfg.Account.Email)

	router := chi.NewRouter()
	masker := logx.NewSensitiveDataMasker()

	router.Use(middlewarex.TraceID)
	router.Use(middlewarex.Logger)
	router.Use(middlewarex.Recovery)
	router.Use(middlewarex.RequestLogging(masker, logFieldMaxLen))
	router.Use(middlewarex.ResponseLogging(masker, logFieldMaxLen))

	server.NewServer(server.NewBotServer(botService)).RegisterRoutes(router)

	g, gctx := errgroup.WithContext(ctx)

	modules.HTTPServer{ShutdownTimeout: httpShutdownTimeout}.Run(gctx, g, &http.Server{ //nolint:exhaustruct
		Addr:              cfg.Observability.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	})

	modules.ProbeServer{
		Name:          appName,
		Version:       appVersion,
		ListenAddress: cfg.Observability.ProbeAddress,
	}.Run(gctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Observability.MetricsAddress,
	}.Run(gctx, g)

	// 5. Уведомления о сработках.
	matches := make(chan entity.Match, 8)

	if cfg.Alert.Token != "" {
		alertBot, err := notifier.NewTelegramBot(cfg.Alert.Token, cfg.Alert.ChatID)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		g.Go(func() error {
			if err := alertBot.Run(gctx, matches); err != nil && gctx.Err() == nil {
				logger(gctx).Error("alert bot stopped", logx.Error(err))
			}
			return nil
		})

		if cfg.Alert.AdminID != 0 {
			controlBot, err := bot.New(cfg.Alert.Token, cfg.Alert.AdminID, botService)
			if err != nil {
				return fmt.Errorf("bot.New: %w", err)
			}

			g.Go(func() error {
				if err := controlBot.Run(gctx); err != nil && gctx.Err() == nil {
					logger(gctx).Error("control bot stopped", logx.Error(err))
				}
				return nil
			})
		}
	}

	// 6. Демон снайпера.
	authProvider := auth.NewProvider(repo, auth.Account{
		Email:       cfg.Account.Email,
		AccessToken: cfg.Account.AccessToken,
		UserAgent:   cfg.Account.UserAgent,
	})

	g.Go(func() error {
		return runDaemon(gctx, cfg, repo, feed, authProvider, matches)
	})

	return g.Wait()
}

// runDaemon держит бота живым: ждёт статуса RUNNING, запускает цикл и после
// его завершения возвращается к ожиданию. Завершается только с контекстом.
func runDaemon(
	ctx context.Context,
	cfg config.Config,
	repo *persistence.BotStateRepository,
	feed *notify.StatusFeed,
	authProvider *auth.Provider,
	matches chan<- entity.Match,
) error {
	email := cfg.Account.Email

	updates, unsubscribe := feed.Subscribe(ctx, email)
	defer unsubscribe()

	for {
		if err := waitForRunning(ctx, repo, email, updates); err != nil {
			markStopped(repo, email)
			return nil //nolint:nilerr
		}

		session, err := authProvider.Acquire(ctx)
		if err != nil {
			logger(ctx).Error("failed to acquire session", logx.Error(err))

			if uerr := repo.UpdateStatus(ctx, email, entity.StatusErrorAuth); uerr != nil {
				logger(ctx).Warn("failed to update status", logx.Error(uerr))
			}

			if werr := sleepCtx(ctx, idlePollInterval); werr != nil {
				markStopped(repo, email)
				return nil
			}
			continue
		}

		client := marketplace.NewClient(cfg.Marketplace, session)
		sniper := worker.NewSniper(email, client, repo, authProvider).
			WithMatchChannel(matches).
			WithStatusUpdates(updates)

		if err := sniper.Run(ctx); err != nil {
			if ctx.Err() != nil {
				markStopped(repo, email)
				return nil
			}
			logger(ctx).Error("sniper run finished with error", logx.Error(err))
		}
	}
}

// waitForRunning опрашивает статус раз в idlePollInterval и слушает push.
func waitForRunning(
	ctx context.Context,
	repo *persistence.BotStateRepository,
	email string,
	updates <-chan entity.BotStatus,
) error {
	for {
		status, err := repo.GetStatus(ctx, email)
		if err != nil {
			logger(ctx).Warn("failed to poll status", logx.Error(err))
		} else if status == entity.StatusRunning {
			return nil
		} else {
			logger(ctx).Debug("waiting for start", slog.String(logx.FieldBotStatus, status.String()))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case pushed, ok := <-updates:
			if ok && pushed == entity.StatusRunning {
				return nil
			}
		case <-time.After(idlePollInterval):
		}
	}
}

// markStopped фиксирует штатную остановку. Контекст приложения уже отменён,
// поэтому запись идёт с собственным таймаутом.
func markStopped(repo *persistence.BotStateRepository, email string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := repo.UpdateStatus(ctx, email, entity.StatusStopped); err != nil {
		logger(ctx).Warn("failed to mark bot stopped", logx.Error(err))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
