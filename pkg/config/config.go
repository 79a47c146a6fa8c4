package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Cart         CartConfig
	Coupons      CouponsConfig
	RateLimit    RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RIMAE_APP_ENV" required:"true"`
	Port         string `envconfig:"RIMAE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RIMAE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RIMAE_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"RIMAE_LOG_FORMAT" default:"json"`

	CORSAllowedOrigins []string `envconfig:"RIMAE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"RIMAE_DB_DSN"`

	LegacyHost     string `envconfig:"RIMAE_DB_HOST"`
	LegacyPort     int    `envconfig:"RIMAE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RIMAE_DB_USER"`
	LegacyPassword string `envconfig:"RIMAE_DB_PASSWORD"`
	LegacyName     string `envconfig:"RIMAE_DB_NAME"`
	LegacySSLMode  string `envconfig:"RIMAE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RIMAE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RIMAE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RIMAE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RIMAE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RIMAE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RIMAE_REDIS_ADDR"`
	Password     string        `envconfig:"RIMAE_REDIS_PASSWORD"`
	DB           int           `envconfig:"RIMAE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RIMAE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RIMAE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RIMAE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RIMAE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RIMAE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	// AutoMigrate runs goose up on boot, dev only.
	AutoMigrate bool `envconfig:"RIMAE_AUTO_MIGRATE" default:"false"`
}

// CartConfig bounds session carts. Carts are snapshots in Redis and expire
// after TTL of inactivity.
type CartConfig struct {
	TTL            time.Duration `envconfig:"RIMAE_CART_TTL" default:"720h"`
	MaxLines       int           `envconfig:"RIMAE_CART_MAX_LINES" default:"50"`
	MaxQuantity    int           `envconfig:"RIMAE_CART_MAX_QUANTITY" default:"99"`
	IdempotencyTTL time.Duration `envconfig:"RIMAE_CART_IDEMPOTENCY_TTL" default:"24h"`
}

func (c CartConfig) validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvCartTTL)
	}
	if c.MaxLines <= 0 {
		return fmt.Errorf("%s must be positive", EnvCartMaxLines)
	}
	if c.MaxQuantity <= 0 {
		return fmt.Errorf("%s must be positive", EnvCartMaxQuantity)
	}
	return nil
}

type CouponsConfig struct {
	ListLimit      int           `envconfig:"RIMAE_COUPONS_LIST_LIMIT" default:"25"`
	IdempotencyTTL time.Duration `envconfig:"RIMAE_COUPONS_IDEMPOTENCY_TTL" default:"24h"`
}

type RateLimitConfig struct {
	CouponWindow time.Duration `envconfig:"RIMAE_RATE_LIMIT_COUPON_WINDOW" default:"1m"`
	CouponLimit  int           `envconfig:"RIMAE_RATE_LIMIT_COUPON_LIMIT" default:"10"`
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
