package entity

import "time"

// Bot — состояние аккаунта-снайпера, как его видит оператор.
// Сессия наружу не отдаётся: ей оперируют только воркер и auth-слой.
type Bot struct {
	Email     string
	Status    BotStatus
	Filters   Filters
	LastSeen  time.Time
	LastMatch *Match
}
