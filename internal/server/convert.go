package server

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"offer_sniper/internal/domain/entity"
	"offer_sniper/pkg/rest"
)

func newRESTBot(bot entity.Bot) rest.Bot {
	out := rest.Bot{
		Email:   bot.Email,
		Status:  bot.Status.String(),
		Filters: newRESTFilters(bot.Filters),
	}

	if !bot.LastSeen.IsZero() {
		out.LastSeen = bot.LastSeen.Format(time.RFC3339)
	}

	if bot.LastMatch != nil {
		out.LastMatch = &rest.Match{
			At:      bot.LastMatch.At.Format(time.RFC3339),
			OfferID: bot.LastMatch.OfferID,
			Price:   bot.LastMatch.Price.String(),
		}
	}

	return out
}

func newRESTFilters(filters entity.Filters) rest.Filters {
	out := rest.Filters{
		MinPrice:            filters.MinPrice.String(),
		AllowedVehicleTypes: filters.AllowedVehicleTypes,
		MinHoursFromNow:     filters.MinHoursFromNow,
	}

	if filters.MaxPrice != nil {
		out.MaxPrice = filters.MaxPrice.String()
	}

	if out.AllowedVehicleTypes == nil {
		out.AllowedVehicleTypes = []string{}
	}

	return out
}

func newDomainFilters(filters rest.Filters) (entity.Filters, error) {
	minPrice, err := decimal.NewFromString(filters.MinPrice)
	if err != nil {
		return entity.Filters{}, fmt.Errorf("minPrice: %w", err)
	}

	out := entity.Filters{
		MinPrice:            minPrice,
		AllowedVehicleTypes: filters.AllowedVehicleTypes,
		MinHoursFromNow:     filters.MinHoursFromNow,
	}

	if filters.MaxPrice != "" {
		maxPrice, err := decimal.NewFromString(filters.MaxPrice)
		if err != nil {
			return entity.Filters{}, fmt.Errorf("maxPrice: %w", err)
		}
		out.MaxPrice = &maxPrice
	}

	return out, nil
}
