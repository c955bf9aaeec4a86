package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Log           LogConfig           `yaml:"log"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
	Push          PushConfig          `yaml:"push"`
	Notifications NotificationsConfig `yaml:"notifications"`
	CORS          CORSConfig          `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// SchedulerConfig holds recurring-transaction scheduler settings.
type SchedulerConfig struct {
	// CatchUpLimit bounds how many missed occurrences a single run will
	// materialize per rule before the rule is reported as an error.
	CatchUpLimit int `yaml:"catch_up_limit" env:"SCHEDULER_CATCH_UP_LIMIT" env-default:"365"`
}

// PushConfig holds push-gateway delivery settings.
// An empty GatewayURL disables remote dispatch; notifications are then only
// written to the log store.
type PushConfig struct {
	GatewayURL string        `yaml:"gateway_url" env:"PUSH_GATEWAY_URL"`
	Topic      string        `yaml:"topic"       env:"PUSH_TOPIC"       env-default:"fiscus"`
	Token      string        `yaml:"token"       env:"PUSH_TOKEN"`
	Timeout    time.Duration `yaml:"timeout"     env:"PUSH_TIMEOUT"     env-default:"10s"`
}

// NotificationsConfig holds notifier settings.
type NotificationsConfig struct {
	// TaxYear overrides the tax year the daily checks report on.
	// 0 means "previous calendar year", the filing default.
	TaxYear int `yaml:"tax_year" env:"NOTIFICATIONS_TAX_YEAR" env-default:"0"`
}

// CORSConfig holds CORS settings for the REST surface.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
