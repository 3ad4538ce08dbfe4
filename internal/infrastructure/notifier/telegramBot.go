package notifier

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"offer_sniper/internal/domain/entity"
)

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Run запускает отправку сработок из канала. Отправка best-effort: ошибка
// алерта не влияет на принятый оффер.
func (b *TelegramBot) Run(ctx context.Context, matches <-chan entity.Match) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case match, ok := <-matches:
			if !ok {
				return nil
			}
			if err := b.SendMatch(ctx, match); err != nil {
				logger(ctx).Error("failed to send match alert", "error", err)
			}
		}
	}
}

func (b *TelegramBot) SendMatch(ctx context.Context, match entity.Match) error {
	text := fmt.Sprintf(
		"🎯 <b>OFFER ACCEPTED!</b>\n\n"+
			"🆔 <b>Offer:</b> %s\n"+
			"💰 <b>Price:</b> %s\n"+
			"🕒 <b>At:</b> %s",
		match.OfferID,
		match.Price.String(),
		match.At.Format("2006-01-02 15:04:05 MST"),
	)

	msg := tu.Message(
		tu.ID(b.chatID),
		text,
	).WithParseMode(telego.ModeHTML)

	_, err := b.bot.SendMessage(ctx, msg)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)
	return err
}
