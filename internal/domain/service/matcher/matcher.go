package matcher

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"offer_sniper/internal/domain/entity"
)

// Price достаёт цену оффера по тем же правилам, по которым её видит
// Evaluate. Нужна вызывающему коду для записи сработки.
func Price(offer entity.Offer) (decimal.Decimal, bool) {
	return offerPrice(offer)
}

// Matcher решает, стоит ли принимать оффер. Чистая и тотальная функция:
// любое отсутствующее или кривое поле — это вердикт "не подходит", а не
// ошибка. Горячий цикл не ходит в БД.
type Matcher struct {
	now func() time.Time
}

func New() *Matcher {
	return &Matcher{now: time.Now}
}

// WithClock подменяет источник времени (для тестов проверки горизонта).
func (m *Matcher) WithClock(now func() time.Time) *Matcher {
	m.now = now
	return m
}

// Evaluate прогоняет оффер через проверки в фиксированном порядке; первая
// провалившаяся решает исход.
func (m *Matcher) Evaluate(offer entity.Offer, filters entity.Filters) entity.MatchResult {
	price, ok := offerPrice(offer)
	if !ok {
		return entity.MatchResult{Match: false, Reason: "Missing price"}
	}

	if price.LessThan(filters.MinPrice) {
		return entity.MatchResult{
			Match:  false,
			Reason: fmt.Sprintf("Price too low (%s < %s)", price, filters.MinPrice),
		}
	}

	if filters.MaxPrice != nil && price.GreaterThan(*filters.MaxPrice) {
		return entity.MatchResult{
			Match:  false,
			Reason: fmt.Sprintf("Price too high (%s > %s)", price, filters.MaxPrice),
		}
	}

	// Оффер без поля класса машины этой проверкой не отсеивается:
	// отсутствие поля — не несовпадение.
	vehicleType, hasVehicleType := offerVehicleType(offer)
	if hasVehicleType && !filters.AllowsVehicleType(vehicleType) {
		return entity.MatchResult{
			Match:  false,
			Reason: fmt.Sprintf("Wrong vehicle (%s)", vehicleType),
		}
	}

	if filters.MinHoursFromNow > 0 {
		startTime, ok := offerStartTime(offer)
		if !ok {
			return entity.MatchResult{Match: false, Reason: "Missing start time"}
		}

		hoursFromNow := startTime.Sub(m.now()).Hours()
		if hoursFromNow < filters.MinHoursFromNow {
			return entity.MatchResult{
				Match: false,
				Reason: fmt.Sprintf(
					"Too soon (starts in %.1fh, min %gh)",
					hoursFromNow, filters.MinHoursFromNow,
				),
			}
		}
	}

	if !hasVehicleType {
		vehicleType = "any"
	}

	return entity.MatchResult{
		Match:  true,
		Reason: fmt.Sprintf("Price %s & %s", price, vehicleType),
	}
}
