package handler

import (
	"offer_sniper/internal/domain/service/botctl"
)

type Handler struct {
	ctl *botctl.Service
}

func New(ctl *botctl.Service) *Handler {
	return &Handler{
		ctl: ctl,
	}
}
