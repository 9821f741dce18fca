package config

const EnvPrefix = "MYPROFILE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv        = "MYPROFILE_APP_ENV"
	EnvPort          = "MYPROFILE_APP_PORT"
	EnvLogLevel      = "MYPROFILE_LOG_LEVEL"
	EnvLogWarnStack  = "MYPROFILE_LOG_WARN_STACK"
	EnvServiceKind   = "MYPROFILE_SERVICE_KIND"
	EnvDBDSN         = "MYPROFILE_DB_DSN"
	EnvDBDriver      = "MYPROFILE_DB_DRIVER"
	EnvDBHost        = "MYPROFILE_DB_HOST"
	EnvDBPort        = "MYPROFILE_DB_PORT"
	EnvDBUser        = "MYPROFILE_DB_USER"
	EnvDBPassword    = "MYPROFILE_DB_PASSWORD"
	EnvDBName        = "MYPROFILE_DB_NAME"
	EnvDBSSLMode     = "MYPROFILE_DB_SSLMODE"
	EnvRedisURL      = "MYPROFILE_REDIS_URL"
	EnvRedisAddr     = "MYPROFILE_REDIS_ADDR"
	EnvJWTSecret     = "MYPROFILE_JWT_SECRET"
	EnvJWTIssuer     = "MYPROFILE_JWT_ISSUER"
	EnvJWTExpMins    = "MYPROFILE_JWT_EXPIRATION_MINUTES"
	EnvAutoMigrate   = "MYPROFILE_AUTO_MIGRATE"
	EnvGCPProjectID  = "MYPROFILE_GCP_PROJECT_ID"
	EnvModerationTop = "MYPROFILE_PUBSUB_MODERATION_TOPIC"
	EnvCooldown      = "MYPROFILE_APPLICATION_COOLDOWN"
	EnvCountsTTL     = "MYPROFILE_PENDING_COUNTS_TTL"
	EnvMaxWindow     = "MYPROFILE_PENDING_MAX_WINDOW"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
