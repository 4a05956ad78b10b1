package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "matwise"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv     = "MATWISE_APP_ENV"
	EnvPort       = "MATWISE_APP_PORT"
	EnvDBDSN      = "MATWISE_DB_DSN"
	EnvDBHost     = "MATWISE_DB_HOST"
	EnvDBUser     = "MATWISE_DB_USER"
	EnvDBName     = "MATWISE_DB_NAME"
	EnvRedisURL   = "MATWISE_REDIS_URL"
	EnvJWTSecret  = "MATWISE_JWT_SECRET"
	EnvJWTIssuer  = "MATWISE_JWT_ISSUER"
	EnvJWTExpMins = "MATWISE_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Tax          TaxConfig
	Quotes       QuotesConfig
	Cron         CronConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MATWISE_APP_ENV" required:"true"`
	Port         string `envconfig:"MATWISE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MATWISE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MATWISE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"MATWISE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MATWISE_DB_DSN"`
	Driver string `envconfig:"MATWISE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MATWISE_DB_HOST"`
	LegacyPort     int    `envconfig:"MATWISE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MATWISE_DB_USER"`
	LegacyPassword string `envconfig:"MATWISE_DB_PASSWORD"`
	LegacyName     string `envconfig:"MATWISE_DB_NAME"`
	LegacySSLMode  string `envconfig:"MATWISE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MATWISE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MATWISE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MATWISE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MATWISE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MATWISE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MATWISE_REDIS_ADDR"`
	Password     string        `envconfig:"MATWISE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MATWISE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MATWISE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MATWISE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MATWISE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MATWISE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MATWISE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MATWISE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MATWISE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MATWISE_JWT_EXPIRATION_MINUTES" required:"true"`
}

// TaxConfig carries the merchant-level half of the tax decision context.
// The default rate is a single home-country percentage; per-destination B2C
// rate tables are the commerce platform's concern.
type TaxConfig struct {
	HomeCountry        string  `envconfig:"MATWISE_TAX_HOME_COUNTRY" default:"NL"`
	DefaultRatePercent float64 `envconfig:"MATWISE_TAX_DEFAULT_RATE_PERCENT" default:"21"`
}

type QuotesConfig struct {
	CacheEnabled bool          `envconfig:"MATWISE_QUOTES_CACHE_ENABLED" default:"true"`
	CacheTTL     time.Duration `envconfig:"MATWISE_QUOTES_CACHE_TTL" default:"30s"`
}

type CronConfig struct {
	Interval              time.Duration `envconfig:"MATWISE_CRON_INTERVAL" default:"24h"`
	LockKey               string        `envconfig:"MATWISE_CRON_LOCK_KEY" default:"cron:leader"`
	LockTTL               time.Duration `envconfig:"MATWISE_CRON_LOCK_TTL" default:"25h"`
	ArchivedRetentionDays int           `envconfig:"MATWISE_CRON_ARCHIVED_RETENTION_DAYS" default:"90"`
}

type RateLimitConfig struct {
	QuoteWindow  time.Duration `envconfig:"MATWISE_RATE_LIMIT_QUOTE_WINDOW" default:"1m"`
	QuoteIPLimit int           `envconfig:"MATWISE_RATE_LIMIT_QUOTE_IP_LIMIT" default:"120"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"MATWISE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MATWISE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
