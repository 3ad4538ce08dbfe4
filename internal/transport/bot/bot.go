package bot

import (
	"context"
	"fmt"
	"log"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"offer_sniper/internal/domain/service/botctl"
	"offer_sniper/internal/transport/bot/handler"
)

// Bot — Telegram-интерфейс оператора: статус, запуск, остановка и правка
// фильтров теми же командами botctl, что и HTTP API.
type Bot struct {
	bot        *telego.Bot
	botHandler *th.BotHandler

	handler *handler.Handler
}

// New создает новый экземпляр бота
func New(token string, adminID int64, ctl *botctl.Service) (*Bot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	// Получаем обновления через long polling
	updates, err := bot.UpdatesViaLongPolling(context.Background(), &telego.GetUpdatesParams{
		Timeout: 60,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get updates: %w", err)
	}

	botHandler, err := th.NewBotHandler(bot, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot handler: %w", err)
	}

	commandHandler := handler.New(ctl)
	commandHandler.RegisterRoutes(botHandler, adminID)

	return &Bot{
		bot:        bot,
		botHandler: botHandler,
		handler:    commandHandler,
	}, nil
}

// Run запускает бота
func (b *Bot) Run(ctx context.Context) error {
	go func() {
		if err := b.botHandler.Start(); err != nil {
			log.Printf("Failed to start bot handler: %v", err)
		}
	}()

	<-ctx.Done()

	if err := b.botHandler.Stop(); err != nil {
		log.Printf("Failed to stop bot handler: %v", err)
	}

	return ctx.Err()
}
