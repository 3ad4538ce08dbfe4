package config

import "time"

type Marketplace struct {
	BaseURL        string        `env:"MARKETPLACE_API_URL,notEmpty"`
	Origin         string        `env:"MARKETPLACE_ORIGIN"`
	RequestTimeout time.Duration `env:"MARKETPLACE_REQUEST_TIMEOUT" envDefault:"5s"`
	PageSize       int           `env:"MARKETPLACE_PAGE_SIZE" envDefault:"30"`
	// SimulateAccept держит accept в холостом режиме: контракт тот же,
	// но реального POST к маркетплейсу нет. Боевой режим включается
	// явно и осознанно.
	SimulateAccept bool `env:"MARKETPLACE_SIMULATE_ACCEPT" envDefault:"true"`
	LogRequests    bool `env:"MARKETPLACE_LOG_REQUESTS" envDefault:"false"`
}
