package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is empty because every variable already carries the
	// WEDDECOR_ prefix in its envconfig tag.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Midtrans     MidtransConfig
	Checkout     CheckoutConfig
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
	if err := cfg.Midtrans.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WEDDECOR_APP_ENV" required:"true"`
	Port         string `envconfig:"WEDDECOR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"WEDDECOR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WEDDECOR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"WEDDECOR_DB_DSN"`
	Driver string `envconfig:"WEDDECOR_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"WEDDECOR_DB_HOST"`
	Port     int    `envconfig:"WEDDECOR_DB_PORT" default:"5432"`
	User     string `envconfig:"WEDDECOR_DB_USER"`
	Password string `envconfig:"WEDDECOR_DB_PASSWORD"`
	Name     string `envconfig:"WEDDECOR_DB_NAME"`
	SSLMode  string `envconfig:"WEDDECOR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WEDDECOR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WEDDECOR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WEDDECOR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WEDDECOR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either WEDDECOR_DB_DSN or host/user/name settings are required")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"WEDDECOR_REDIS_URL" required:"true"`
	Address      string        `envconfig:"WEDDECOR_REDIS_ADDR"`
	Password     string        `envconfig:"WEDDECOR_REDIS_PASSWORD"`
	DB           int           `envconfig:"WEDDECOR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WEDDECOR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WEDDECOR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WEDDECOR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WEDDECOR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WEDDECOR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"WEDDECOR_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"WEDDECOR_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"WEDDECOR_JWT_EXPIRATION_MINUTES" default:"60"`
}

// MidtransConfig carries the Snap/Core API credentials for the payment gateway.
type MidtransConfig struct {
	ServerKey   string `envconfig:"WEDDECOR_MIDTRANS_SERVER_KEY" required:"true"`
	ClientKey   string `envconfig:"WEDDECOR_MIDTRANS_CLIENT_KEY" required:"true"`
	Environment string `envconfig:"WEDDECOR_MIDTRANS_ENV" default:"sandbox"`
}

func (m MidtransConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(m.Environment)) {
	case "sandbox", "production":
		return nil
	default:
		return fmt.Errorf("midtrans environment must be %q or %q", "sandbox", "production")
	}
}

// IsProduction reports whether the gateway points at the live environment.
func (m MidtransConfig) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(m.Environment), "production")
}

// CheckoutConfig tunes the order/payment core.
type CheckoutConfig struct {
	// DeliveryFeeIDR is a flat fee added to every checkout total. Zero today;
	// location-based pricing can replace it without touching the engine.
	DeliveryFeeIDR     int64         `envconfig:"WEDDECOR_CHECKOUT_DELIVERY_FEE_IDR" default:"0"`
	SettlementGuardTTL time.Duration `envconfig:"WEDDECOR_SETTLEMENT_GUARD_TTL" default:"72h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"WEDDECOR_AUTO_MIGRATE" default:"false"`
}
