package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig namespace for all sparkcart settings.
const EnvPrefix = "SPARKCART"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Pricing   PricingConfig
	Orders    OrdersConfig
	Reporting ReportingConfig
	Flags     FeatureFlagsConfig
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
	Env          string `envconfig:"SPARKCART_APP_ENV" default:"development"`
	Port         string `envconfig:"SPARKCART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SPARKCART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SPARKCART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SPARKCART_DB_DSN"`
	Driver string `envconfig:"SPARKCART_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SPARKCART_DB_HOST"`
	Port     int    `envconfig:"SPARKCART_DB_PORT" default:"5432"`
	User     string `envconfig:"SPARKCART_DB_USER"`
	Password string `envconfig:"SPARKCART_DB_PASSWORD"`
	Name     string `envconfig:"SPARKCART_DB_NAME"`
	SSLMode  string `envconfig:"SPARKCART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SPARKCART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SPARKCART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SPARKCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SPARKCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("db config: either SPARKCART_DB_DSN or host/user/name parts are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"SPARKCART_REDIS_URL"`
	Address      string        `envconfig:"SPARKCART_REDIS_ADDR"`
	Password     string        `envconfig:"SPARKCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"SPARKCART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SPARKCART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SPARKCART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SPARKCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SPARKCART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SPARKCART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SPARKCART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SPARKCART_JWT_ISSUER" default:"sparkcart"`
	ExpirationMinutes int    `envconfig:"SPARKCART_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// PricingConfig carries the storefront pricing constants. They are consumed as
// named configuration by the pricing calculator, the coupon engine and the
// reporting rollups; no caller re-derives them.
type PricingConfig struct {
	FreeShippingThreshold int `envconfig:"SPARKCART_FREE_SHIPPING_THRESHOLD" default:"2000"`
	FlatShippingFee       int `envconfig:"SPARKCART_FLAT_SHIPPING_FEE" default:"150"`
	LoyaltyPointRate      int `envconfig:"SPARKCART_LOYALTY_POINT_RATE" default:"10"`
	TierSilverThreshold   int `envconfig:"SPARKCART_TIER_SILVER_THRESHOLD" default:"5000"`
	TierGoldThreshold     int `envconfig:"SPARKCART_TIER_GOLD_THRESHOLD" default:"10000"`
	TierPlatinumThreshold int `envconfig:"SPARKCART_TIER_PLATINUM_THRESHOLD" default:"15000"`
}

type OrdersConfig struct {
	EstimatedDeliveryDays int `envconfig:"SPARKCART_ESTIMATED_DELIVERY_DAYS" default:"5"`
}

// ReportingConfig controls the TTL cache in front of dashboard rollups.
// Entries expire on their own; writes never invalidate them.
type ReportingConfig struct {
	OverviewCacheTTL  time.Duration `envconfig:"SPARKCART_REPORTING_OVERVIEW_TTL" default:"60s"`
	AnalyticsCacheTTL time.Duration `envconfig:"SPARKCART_REPORTING_ANALYTICS_TTL" default:"120s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SPARKCART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SPARKCART_AUTO_MIGRATE" default:"false"`
}
