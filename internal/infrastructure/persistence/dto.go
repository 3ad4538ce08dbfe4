package persistence

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"offer_sniper/internal/domain/entity"
)

// botSchema — внутренняя структура для маппинга строки таблицы bots.
type botSchema struct {
	Email     string    `db:"email"`
	Status    string    `db:"status"`
	Filters   []byte    `db:"filters"`
	Session   []byte    `db:"session"`
	LastMatch []byte    `db:"last_match"`
	LastSeen  time.Time `db:"last_seen"`
}

func (s *botSchema) toDomain() (*entity.Bot, error) {
	filters, err := parseFilters(s.Filters)
	if err != nil {
		return nil, fmt.Errorf("parseFilters: %w", err)
	}

	lastMatch, err := parseMatch(s.LastMatch)
	if err != nil {
		return nil, fmt.Errorf("parseMatch: %w", err)
	}

	return &entity.Bot{
		Email:     s.Email,
		Status:    entity.BotStatus(s.Status),
		Filters:   filters,
		LastSeen:  s.LastSeen,
		LastMatch: lastMatch,
	}, nil
}

// filtersSchema — представление фильтров в jsonb. Числовые поля держим
// как json.RawMessage: внешние клиенты таблицы пишут и числа, и строки.
type filtersSchema struct {
	MinPrice            json.RawMessage `json:"minPrice,omitempty"`
	MaxPrice            json.RawMessage `json:"maxPrice,omitempty"`
	AllowedVehicleTypes []string        `json:"allowedVehicleTypes,omitempty"`
	MinHoursFromNow     float64         `json:"minHoursFromNow,omitempty"`
}

func fromFilters(f entity.Filters) ([]byte, error) {
	schema := filtersSchema{
		MinPrice:            json.RawMessage(f.MinPrice.String()),
		AllowedVehicleTypes: f.AllowedVehicleTypes,
		MinHoursFromNow:     f.MinHoursFromNow,
	}
	if f.MaxPrice != nil {
		schema.MaxPrice = json.RawMessage(f.MaxPrice.String())
	}

	return json.Marshal(schema)
}

func parseFilters(raw []byte) (entity.Filters, error) {
	if len(raw) == 0 {
		return entity.DefaultFilters(), nil
	}

	var schema filtersSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return entity.Filters{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	filters := entity.Filters{
		AllowedVehicleTypes: schema.AllowedVehicleTypes,
		MinHoursFromNow:     schema.MinHoursFromNow,
	}

	minPrice, ok, err := decimalFromRaw(schema.MinPrice)
	if err != nil {
		return entity.Filters{}, fmt.Errorf("minPrice: %w", err)
	}
	if ok {
		filters.MinPrice = minPrice
	}

	maxPrice, ok, err := decimalFromRaw(schema.MaxPrice)
	if err != nil {
		return entity.Filters{}, fmt.Errorf("maxPrice: %w", err)
	}
	if ok {
		filters.MaxPrice = &maxPrice
	}

	return filters, nil
}

// decimalFromRaw разбирает jsonb-значение цены: число, строку с точкой или
// строку с запятой.
func decimalFromRaw(raw json.RawMessage) (decimal.Decimal, bool, error) {
	token := strings.TrimSpace(string(raw))
	if token == "" || token == "null" {
		return decimal.Decimal{}, false, nil
	}

	token = strings.Trim(token, `"`)
	token = strings.ReplaceAll(token, ",", ".")

	value, err := decimal.NewFromString(token)
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("decimal.NewFromString: %w", err)
	}

	return value, true, nil
}

// matchSchema — представление сработки в jsonb (колонка last_match).
type matchSchema struct {
	At      time.Time `json:"at"`
	OfferID string    `json:"offerId"`
	Price   string    `json:"price"`
}

func fromMatch(m entity.Match) ([]byte, error) {
	return json.Marshal(matchSchema{
		At:      m.At,
		OfferID: m.OfferID,
		Price:   m.Price.String(),
	})
}

func parseMatch(raw []byte) (*entity.Match, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var schema matchSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	price, err := decimal.NewFromString(schema.Price)
	if err != nil {
		return nil, fmt.Errorf("decimal.NewFromString: %w", err)
	}

	return &entity.Match{
		At:      schema.At,
		OfferID: schema.OfferID,
		Price:   price,
	}, nil
}

// Сессия сериализуется напрямую через json-теги entity.Session: формат в
// базе совпадает с тем, что пишет захватчик сессии.
func fromSession(s entity.Session) ([]byte, error) {
	return json.Marshal(s)
}

func parseSession(raw []byte) (entity.Session, error) {
	if len(raw) == 0 {
		return entity.Session{}, nil
	}

	var session entity.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return entity.Session{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return session, nil
}
