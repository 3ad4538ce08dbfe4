package marketplace

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Классификация транспортных сбоев, которую потребляет poll-цикл. Категорий
// ровно три, и только одна из них фатальна для запуска:
//
//   - AuthExpired (401) — сессия мертва, запуск завершается;
//   - RateLimited (429) — пауза с возвратом;
//   - Transient (всё остальное) — залогировать и жить дальше.

type FailureKind string

const (
	FailureAuthExpired FailureKind = "auth_expired"
	FailureRateLimited FailureKind = "rate_limited"
	FailureTransient   FailureKind = "transient"
)

// AuthExpiredError — API ответил 401: токен протух или отозван.
type AuthExpiredError struct{}

func (e *AuthExpiredError) Error() string {
	return "session expired or invalid (401)"
}

// RateLimitError — API ответил 429. RetryAfter — подсказка из заголовка
// Retry-After, ноль если её не было или она нечитаема.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (429), retry after %s", e.RetryAfter)
	}
	return "rate limited (429)"
}

// TransientError — любой прочий сбой: таймаут, 5xx, кривой ответ. Цикл
// переживает его без остановки.
type TransientError struct {
	StatusCode int
	cause      error
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("marketplace request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("marketplace request failed: %v", e.cause)
}

func (e *TransientError) Unwrap() error {
	return e.cause
}

// classifyStatus превращает не-2xx ответ в ошибку своей категории.
func classifyStatus(statusCode int, header http.Header) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return &AuthExpiredError{}
	case http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: retryAfterHint(header)}
	default:
		return &TransientError{StatusCode: statusCode}
	}
}

// retryAfterHint понимает только целые секунды; всё прочее — отсутствие
// подсказки.
func retryAfterHint(header http.Header) time.Duration {
	raw := header.Get("Retry-After")
	if raw == "" {
		return 0
	}

	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return 0
	}

	return time.Duration(seconds) * time.Second
}

// Kind определяет категорию ошибки; незнакомые ошибки считаются transient —
// это самая безопасная категория, она ничего не завершает.
func Kind(err error) FailureKind {
	var authExpired *AuthExpiredError
	if errors.As(err, &authExpired) {
		return FailureAuthExpired
	}

	var rateLimited *RateLimitError
	if errors.As(err, &rateLimited) {
		return FailureRateLimited
	}

	return FailureTransient
}

// AsRateLimit достаёт детали rate-limit ошибки, если она в цепочке.
func AsRateLimit(err error) (*RateLimitError, bool) {
	var rateLimited *RateLimitError
	if errors.As(err, &rateLimited) {
		return rateLimited, true
	}
	return nil, false
}
