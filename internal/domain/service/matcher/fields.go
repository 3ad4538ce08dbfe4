package matcher

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"offer_sniper/internal/domain/entity"
)

// API маркетплейса не гарантирует раскладку оффера: цена встречается и в
// JSON:API-вложении attributes, и на корне, под разными именами. Поэтому
// каждое значение ищется по явной таблице кандидатов (контейнер + имя поля);
// новое расположение — это новая строка таблицы, а не новый if.

type container int

const (
	containerRoot container = iota
	containerAttributes
)

type fieldRef struct {
	container container
	field     string
}

//nolint:gochecknoglobals
var priceFields = []fieldRef{
	{containerAttributes, "price"},
	{containerRoot, "price"},
	{containerRoot, "price_amount"},
}

//nolint:gochecknoglobals
var vehicleTypeFields = []fieldRef{
	{containerAttributes, "service_class"},
	{containerRoot, "vehicle_type"},
}

// Корень проверяется раньше attributes, имена — в порядке встречаемости
// в ответах API.
//
//nolint:gochecknoglobals
var startTimeFields = func() []fieldRef {
	names := []string{"pickup_at", "starts_at", "scheduled_at", "start_time", "pickup_time", "datetime"}

	refs := make([]fieldRef, 0, len(names)*2)
	for _, name := range names {
		refs = append(refs, fieldRef{containerRoot, name})
	}
	for _, name := range names {
		refs = append(refs, fieldRef{containerAttributes, name})
	}
	return refs
}()

//nolint:gochecknoglobals
var startTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (r fieldRef) lookup(offer entity.Offer) (any, bool) {
	var obj map[string]any

	switch r.container {
	case containerRoot:
		obj = offer.Raw
	case containerAttributes:
		obj = offer.Attributes()
	}

	v, ok := obj[r.field]
	if !ok || v == nil {
		return nil, false
	}

	return v, true
}

// offerPrice возвращает первую распознанную цену из таблицы кандидатов.
// Число либо числовая строка; запятая как десятичный разделитель
// нормализуется в точку.
func offerPrice(offer entity.Offer) (decimal.Decimal, bool) {
	for _, ref := range priceFields {
		v, ok := ref.lookup(offer)
		if !ok {
			continue
		}

		if price, ok := parsePrice(v); ok {
			return price, true
		}
	}

	return decimal.Decimal{}, false
}

func parsePrice(v any) (decimal.Decimal, bool) {
	switch value := v.(type) {
	case float64:
		return decimal.NewFromFloat(value), true
	case string:
		normalized := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
		if normalized == "" {
			return decimal.Decimal{}, false
		}

		price, err := decimal.NewFromString(normalized)
		if err != nil {
			return decimal.Decimal{}, false
		}

		return price, true
	}

	return decimal.Decimal{}, false
}

func offerVehicleType(offer entity.Offer) (string, bool) {
	for _, ref := range vehicleTypeFields {
		v, ok := ref.lookup(offer)
		if !ok {
			continue
		}

		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s), true
		}
	}

	return "", false
}

func offerStartTime(offer entity.Offer) (time.Time, bool) {
	for _, ref := range startTimeFields {
		v, ok := ref.lookup(offer)
		if !ok {
			continue
		}

		if t, ok := parseStartTime(v); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

func parseStartTime(v any) (time.Time, bool) {
	switch value := v.(type) {
	case float64:
		if value <= 0 {
			return time.Time{}, false
		}

		// Крупные значения — миллисекундный epoch, остальные — секундный.
		if value > 1e11 {
			return time.UnixMilli(int64(value)).UTC(), true
		}
		return time.Unix(int64(value), 0).UTC(), true
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return time.Time{}, false
		}

		for _, layout := range startTimeLayouts {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return t, true
			}
		}
	}

	return time.Time{}, false
}
