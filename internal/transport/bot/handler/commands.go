package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	"github.com/shopspring/decimal"

	"offer_sniper/internal/domain/entity"
	"offer_sniper/internal/transport/bot/view"
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: msg.Chat.ID},
		Text:      view.StartMessage,
		ParseMode: telego.ModeHTML,
	})
	return err
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	bot, err := h.ctl.Get(ctx)
	if err != nil {
		return h.sendText(ctx, msg.Chat.ID, fmt.Sprintf(view.CommandFailed, err))
	}

	maxPrice := ""
	if bot.Filters.MaxPrice != nil {
		maxPrice = " до " + bot.Filters.MaxPrice.String()
	}

	vehicles := "любые"
	if len(bot.Filters.AllowedVehicleTypes) > 0 {
		vehicles = strings.Join(bot.Filters.AllowedVehicleTypes, ", ")
	}

	horizon := "выключен"
	if bot.Filters.MinHoursFromNow > 0 {
		horizon = fmt.Sprintf("от %gч", bot.Filters.MinHoursFromNow)
	}

	lastMatch := ""
	if bot.LastMatch != nil {
		lastMatch = fmt.Sprintf("🎯 <b>Last match:</b> %s за %s",
			bot.LastMatch.OfferID, bot.LastMatch.Price)
	}

	text := fmt.Sprintf(view.StatusTemplate,
		statusEmoji(bot.Status),
		bot.Filters.MinPrice,
		maxPrice,
		vehicles,
		horizon,
		bot.LastSeen.Format("02.01 15:04:05"),
		lastMatch,
	)

	return h.sendHTML(ctx, msg.Chat.ID, text)
}

func statusEmoji(status entity.BotStatus) string {
	switch status {
	case entity.StatusRunning:
		return "🟢 RUNNING"
	case entity.StatusStopped:
		return "🔴 STOPPED"
	case entity.StatusPausedRateLimit:
		return "🟡 PAUSED_RATE_LIMIT"
	case entity.StatusErrorAuth:
		return "⛔ ERROR_AUTH"
	}
	return status.String()
}

func (h *Handler) OnRun(ctx *th.Context, msg telego.Message) error {
	if err := h.ctl.Start(ctx); err != nil {
		return h.sendText(ctx, msg.Chat.ID, fmt.Sprintf(view.CommandFailed, err))
	}

	return h.sendText(ctx, msg.Chat.ID, view.BotStarted)
}

func (h *Handler) OnStop(ctx *th.Context, msg telego.Message) error {
	if err := h.ctl.Stop(ctx); err != nil {
		return h.sendText(ctx, msg.Chat.ID, fmt.Sprintf(view.CommandFailed, err))
	}

	return h.sendText(ctx, msg.Chat.ID, view.BotStopped)
}

func (h *Handler) OnSetMinPrice(ctx *th.Context, msg telego.Message) error {
	return h.updateFilters(ctx, msg, func(filters *entity.Filters, arg string) error {
		price, err := decimal.NewFromString(strings.ReplaceAll(arg, ",", "."))
		if err != nil {
			return err
		}
		filters.MinPrice = price
		return nil
	})
}

func (h *Handler) OnSetMaxPrice(ctx *th.Context, msg telego.Message) error {
	return h.updateFilters(ctx, msg, func(filters *entity.Filters, arg string) error {
		if arg == "off" {
			filters.MaxPrice = nil
			return nil
		}

		price, err := decimal.NewFromString(strings.ReplaceAll(arg, ",", "."))
		if err != nil {
			return err
		}
		filters.MaxPrice = &price
		return nil
	})
}

func (h *Handler) OnSetVehicles(ctx *th.Context, msg telego.Message) error {
	return h.updateFilters(ctx, msg, func(filters *entity.Filters, arg string) error {
		if arg == "off" {
			filters.AllowedVehicleTypes = nil
			return nil
		}

		types := make([]string, 0)
		for _, t := range strings.Split(arg, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
		filters.AllowedVehicleTypes = types
		return nil
	})
}

func (h *Handler) OnSetHorizon(ctx *th.Context, msg telego.Message) error {
	return h.updateFilters(ctx, msg, func(filters *entity.Filters, arg string) error {
		if arg == "off" {
			filters.MinHoursFromNow = 0
			return nil
		}

		hours, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return err
		}
		filters.MinHoursFromNow = hours
		return nil
	})
}

// updateFilters читает текущие фильтры, применяет правку одного поля и
// сохраняет результат целиком.
func (h *Handler) updateFilters(
	ctx *th.Context,
	msg telego.Message,
	apply func(filters *entity.Filters, arg string) error,
) error {
	parts := strings.Fields(msg.Text)
	if len(parts) < 2 {
		return h.sendText(ctx, msg.Chat.ID, view.MissingArgument)
	}

	bot, err := h.ctl.Get(ctx)
	if err != nil {
		return h.sendText(ctx, msg.Chat.ID, fmt.Sprintf(view.CommandFailed, err))
	}

	filters := bot.Filters
	if err := apply(&filters, parts[1]); err != nil {
		return h.sendText(ctx, msg.Chat.ID, view.InvalidFormat)
	}

	if err := h.ctl.UpdateFilters(ctx, filters); err != nil {
		return h.sendText(ctx, msg.Chat.ID, fmt.Sprintf(view.CommandFailed, err))
	}

	return h.sendText(ctx, msg.Chat.ID, view.FilterSaved)
}

func (h *Handler) sendText(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})
	return err
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: telego.ModeHTML,
	})
	return err
}
