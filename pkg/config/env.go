package config

// EnvPrefix namespaces every variable read by envconfig.
const EnvPrefix = "RIMAE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "RIMAE_APP_ENV"
	EnvPort         = "RIMAE_APP_PORT"
	EnvLogLevel     = "RIMAE_LOG_LEVEL"
	EnvLogWarnStack = "RIMAE_LOG_WARN_STACK"
	EnvLogFormat    = "RIMAE_LOG_FORMAT"
	EnvCORSOrigins  = "RIMAE_CORS_ALLOWED_ORIGINS"

	EnvDBDSN      = "RIMAE_DB_DSN"
	EnvDBHost     = "RIMAE_DB_HOST"
	EnvDBPort     = "RIMAE_DB_PORT"
	EnvDBUser     = "RIMAE_DB_USER"
	EnvDBPassword = "RIMAE_DB_PASSWORD"
	EnvDBName     = "RIMAE_DB_NAME"
	EnvDBSSLMode  = "RIMAE_DB_SSLMODE"

	EnvRedisURL = "RIMAE_REDIS_URL"

	EnvAutoMigrate = "RIMAE_AUTO_MIGRATE"

	EnvCartTTL            = "RIMAE_CART_TTL"
	EnvCartMaxLines       = "RIMAE_CART_MAX_LINES"
	EnvCartMaxQuantity    = "RIMAE_CART_MAX_QUANTITY"
	EnvCartIdempotencyTTL = "RIMAE_CART_IDEMPOTENCY_TTL"

	EnvCouponsListLimit      = "RIMAE_COUPONS_LIST_LIMIT"
	EnvCouponsIdempotencyTTL = "RIMAE_COUPONS_IDEMPOTENCY_TTL"

	EnvRateLimitCouponWindow = "RIMAE_RATE_LIMIT_COUPON_WINDOW"
	EnvRateLimitCouponLimit  = "RIMAE_RATE_LIMIT_COUPON_LIMIT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
