package handler

import (
	"offer_sniper/internal/transport/bot/middleware"

	th "github.com/mymmrac/telego/telegohandler"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	// Все команды управления ботом доступны только оператору.
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminID))

	// Команда /start
	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))

	// Команда /status
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))

	// Команда /run
	adminGroup.HandleMessage(h.OnRun, th.CommandEqual("run"))

	// Команда /stop
	adminGroup.HandleMessage(h.OnStop, th.CommandEqual("stop"))

	// Команда /minprice
	adminGroup.HandleMessage(h.OnSetMinPrice, th.CommandEqual("minprice"))

	// Команда /maxprice
	adminGroup.HandleMessage(h.OnSetMaxPrice, th.CommandEqual("maxprice"))

	// Команда /vehicles
	adminGroup.HandleMessage(h.OnSetVehicles, th.CommandEqual("vehicles"))

	// Команда /horizon
	adminGroup.HandleMessage(h.OnSetHorizon, th.CommandEqual("horizon"))
}
