package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Account       Account
	Marketplace   Marketplace
	Postgres      Postgres
	Redis         Redis
	Alert         Alert
	Observability Observability
}

// Account — аккаунт партнёрского портала, от имени которого работает бот.
type Account struct {
	Email string `env:"ACCOUNT_EMAIL,required"`
	// AccessToken задаётся, когда токен снят вручную (DevTools) и сессия
	// не восстановима из хранилища. Пустое значение — полагаемся только
	// на сохранённую сессию.
	AccessToken string `env:"ACCOUNT_ACCESS_TOKEN"`
	UserAgent   string `env:"ACCOUNT_USER_AGENT" envDefault:"Mozilla/5.0 (Windows NT 10.0; Win64; x64)"`
}

// Alert — Telegram-бот оператора: уведомления о сработках и команды
// управления. Токен пустой — бот выключен целиком; AdminID нулевой —
// остаются только уведомления.
type Alert struct {
	Token   string `env:"ALERT_BOT_TOKEN"`
	ChatID  int64  `env:"ALERT_BOT_CHAT_ID"`
	AdminID int64  `env:"ALERT_BOT_ADMIN_ID"`
}

type Observability struct {
	ServerAddress  string `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080"`
	ProbeAddress   string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
	MetricsAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":9095"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
