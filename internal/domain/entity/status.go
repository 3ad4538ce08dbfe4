package entity

// BotStatus хранится во внешней таблице bots; она — источник истины.
// Цикл читает и пишет статус, но оператор может менять его в любой момент.
type BotStatus string

const (
	StatusRunning         BotStatus = "RUNNING"
	StatusStopped         BotStatus = "STOPPED"
	StatusErrorAuth       BotStatus = "ERROR_AUTH"
	StatusPausedRateLimit BotStatus = "PAUSED_RATE_LIMIT"
)

func (s BotStatus) String() string {
	return string(s)
}

func (s BotStatus) Valid() bool {
	switch s {
	case StatusRunning, StatusStopped, StatusErrorAuth, StatusPausedRateLimit:
		return true
	}
	return false
}
