// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

// Bot Текущее состояние бота, как его видит оператор
type Bot struct {
	Email     string  `json:"email"`
	Status    string  `json:"status"`
	Filters   Filters `json:"filters"`
	LastSeen  string  `json:"lastSeen,omitempty"`
	LastMatch *Match  `json:"lastMatch,omitempty"`
}

// Filters Фильтры подбора офферов
type Filters struct {
	MinPrice            string   `json:"minPrice" validate:"required"`
	MaxPrice            string   `json:"maxPrice,omitempty"`
	AllowedVehicleTypes []string `json:"allowedVehicleTypes"`
	MinHoursFromNow     float64  `json:"minHoursFromNow,omitempty" validate:"gte=0"`
}

// Match Последний сработавший оффер
type Match struct {
	At      string `json:"at"`
	OfferID string `json:"offerId"`
	Price   string `json:"price"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string
