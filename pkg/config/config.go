// Package config loads application configuration from the environment.
package config

import "time"

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"3000"`
}

// DBConfig holds the Postgres connection settings. An empty URL selects the
// in-memory account store.
type DBConfig struct {
	Url string `envconfig:"URL"`
}

// RedisConfig holds the settings for the Redis compensation stream. An empty
// URL disables forwarding; compensation is then consumed in process only.
type RedisConfig struct {
	Url    string `envconfig:"URL"`
	Stream string `envconfig:"STREAM" default:"minipay.compensation"`
}

// LedgerConfig holds the charge-limit policy settings.
type LedgerConfig struct {
	DailyChargeLimit int64  `envconfig:"DAILY_CHARGE_LIMIT" default:"3000000"`
	ChargeUnit       int64  `envconfig:"CHARGE_UNIT" default:"10000"`
	Timezone         string `envconfig:"TIMEZONE" default:"Asia/Seoul"`
}

// App is the root configuration.
type App struct {
	Env             string        `envconfig:"APP_ENV" default:"development"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	Server          ServerConfig  `envconfig:"SERVER"`
	DB              DBConfig      `envconfig:"DATABASE"`
	Redis           RedisConfig   `envconfig:"REDIS"`
	Ledger          LedgerConfig  `envconfig:"LEDGER"`
}
