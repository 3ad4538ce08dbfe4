package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchResult — вердикт матчера. Reason только для диагностики: его пишут
// в логи и никогда не разбирают программно.
type MatchResult struct {
	Match  bool
	Reason string
}

// Match — сработавший оффер, как он сохраняется в last_match и уходит
// оператору.
type Match struct {
	At      time.Time
	OfferID string
	Price   decimal.Decimal
}
