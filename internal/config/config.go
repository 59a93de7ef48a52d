package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Visit data source kinds
const (
	SourceCsv      = "csv"
	SourcePostgres = "postgres"
	SourceMongo    = "mongo"
)

type ServerCfg struct {
	Port            int           `env:"LOYALTY_PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"LOYALTY_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ClassifierCfg fixes window length and counting policy of the tier
// classifier instance wired at startup
type ClassifierCfg struct {
	WindowMonths int  `env:"LOYALTY_WINDOW_MONTHS" envDefault:"3"`
	UniquePerDay bool `env:"LOYALTY_UNIQUE_PER_DAY" envDefault:"true"`
}

// SourceCfg selects backing visit/customer data source. The in-memory csv
// source is the default, postgres and mongo are substitutable alternatives
type SourceCfg struct {
	Kind    string `env:"LOYALTY_SOURCE" envDefault:"csv"`
	CsvFile string `env:"LOYALTY_CSV_FILE" envDefault:"sample_data/reservations.csv"`
}

type PostgresCfg struct {
	User        string `env:"POSTGRES_USER"`
	Password    string `env:"POSTGRES_PASSWORD"`
	Host        string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port        int    `env:"POSTGRES_PORT" envDefault:"5432"`
	Database    string `env:"POSTGRES_DB" envDefault:"loyalty"`
	SslMode     string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	PoolMaxConn int    `env:"POSTGRES_POOL_MAX_CONN" envDefault:"100"`
}

type MongoCfg struct {
	User        string `env:"MONGO_USER"`
	Password    string `env:"MONGO_PASSWORD"`
	Host        string `env:"MONGO_HOST" envDefault:"localhost"`
	Port        int    `env:"MONGO_PORT" envDefault:"27017"`
	MaxPoolSize int    `env:"MONGO_MAX_POOL_SIZE" envDefault:"100"`
}

// RedisCfg enables the tier cache when Addr is set, otherwise
// classifications are always computed afresh
type RedisCfg struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TierTTL  time.Duration `env:"LOYALTY_TIER_CACHE_TTL" envDefault:"10m"`
}

type Config struct {
	ServerCfg     ServerCfg
	ClassifierCfg ClassifierCfg
	SourceCfg     SourceCfg
	PostgresCfg   PostgresCfg
	MongoCfg      MongoCfg
	RedisCfg      RedisCfg
}

func Build() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment variables - %w", err)
	}

	switch cfg.SourceCfg.Kind {
	case SourceCsv, SourcePostgres, SourceMongo:
	default:
		return cfg, fmt.Errorf("unknown visit source %q", cfg.SourceCfg.Kind)
	}
	return cfg, nil
}
