package entity

import (
	"github.com/shopspring/decimal"

	"offer_sniper/internal/domain"
	"offer_sniper/pkg/errcodes"
)

// Filters — критерии подбора оффера. Значение неизменно в рамках одного
// цикла: воркер перечитывает фильтры из хранилища в начале каждого цикла,
// поэтому правки оператора применяются без рестарта.
type Filters struct {
	MinPrice            decimal.Decimal
	MaxPrice            *decimal.Decimal
	AllowedVehicleTypes []string
	// MinHoursFromNow — минимальный горизонт до начала заказа в часах.
	// Ноль означает, что проверка выключена.
	MinHoursFromNow float64
}

// DefaultFilters возвращает фильтры, с которыми создаётся новая строка бота.
func DefaultFilters() Filters {
	return Filters{
		MinPrice: decimal.NewFromInt(10),
	}
}

func (f Filters) Validate() error {
	if f.MinPrice.IsNegative() {
		return domain.NewError(errcodes.InvalidFilters, "minPrice must be >= 0")
	}

	if f.MaxPrice != nil && f.MaxPrice.LessThan(f.MinPrice) {
		return domain.NewError(errcodes.InvalidFilters, "maxPrice must be >= minPrice")
	}

	if f.MinHoursFromNow < 0 {
		return domain.NewError(errcodes.InvalidFilters, "minHoursFromNow must be >= 0")
	}

	return nil
}

// AllowsVehicleType: пустой список — без ограничений.
func (f Filters) AllowsVehicleType(vehicleType string) bool {
	if len(f.AllowedVehicleTypes) == 0 {
		return true
	}

	for _, allowed := range f.AllowedVehicleTypes {
		if allowed == vehicleType {
			return true
		}
	}

	return false
}
