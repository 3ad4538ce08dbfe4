package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"offer_sniper/internal/domain/entity"
	"offer_sniper/pkg/logx"
)

// StatusFeed — push-канал смены статуса поверх redis pub/sub. Дополняет,
// а не заменяет опрос таблицы: при недоступном redis воркер продолжает
// работать только на опросе.
type StatusFeed struct {
	client *redis.Client
}

func NewStatusFeed(client *redis.Client) *StatusFeed {
	return &StatusFeed{client: client}
}

func channelFor(email string) string {
	return "bots:status:" + email
}

// Publish рассылает новый статус подписчикам. Отправка best-effort:
// источник истины — таблица, подписчики её и так перечитают.
func (f *StatusFeed) Publish(ctx context.Context, email string, status entity.BotStatus) error {
	if err := f.client.Publish(ctx, channelFor(email), status.String()).Err(); err != nil {
		return fmt.Errorf("redis.Publish: %w", err)
	}

	return nil
}

// Subscribe подписывается на смену статуса бота. Возвращает канал статусов
// и функцию отписки. Сообщения с неизвестным статусом отбрасываются.
func (f *StatusFeed) Subscribe(ctx context.Context, email string) (<-chan entity.BotStatus, func()) {
	pubsub := f.client.Subscribe(ctx, channelFor(email))
	out := make(chan entity.BotStatus, 1)

	go func() {
		defer close(out)

		for msg := range pubsub.Channel() {
			status := entity.BotStatus(msg.Payload)
			if !status.Valid() {
				logger(ctx).Warn(
					"status feed: unknown status, dropping",
					slog.String("payload", msg.Payload),
				)
				continue
			}

			select {
			case out <- status:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() {
		if err := pubsub.Close(); err != nil {
			logger(ctx).Error("pubsub.Close", logx.Error(err))
		}
	}
}
