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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Moderation   ModerationConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Moderation.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MYPROFILE_APP_ENV" required:"true"`
	Port         string `envconfig:"MYPROFILE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MYPROFILE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MYPROFILE_LOG_WARN_STACK" default:"false"`
	// CORSOrigins is a comma separated allow-list for browser clients.
	CORSOrigins []string `envconfig:"MYPROFILE_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"MYPROFILE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MYPROFILE_DB_DSN"`
	Driver string `envconfig:"MYPROFILE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MYPROFILE_DB_HOST"`
	LegacyPort     int    `envconfig:"MYPROFILE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MYPROFILE_DB_USER"`
	LegacyPassword string `envconfig:"MYPROFILE_DB_PASSWORD"`
	LegacyName     string `envconfig:"MYPROFILE_DB_NAME"`
	LegacySSLMode  string `envconfig:"MYPROFILE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MYPROFILE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MYPROFILE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MYPROFILE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MYPROFILE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver is selected. Used for local
// development and tests only.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"MYPROFILE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MYPROFILE_REDIS_ADDR"`
	Password     string        `envconfig:"MYPROFILE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MYPROFILE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MYPROFILE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MYPROFILE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MYPROFILE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MYPROFILE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MYPROFILE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MYPROFILE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MYPROFILE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MYPROFILE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MYPROFILE_AUTO_MIGRATE" default:"false"`
}

// ModerationConfig tunes the review workflow.
type ModerationConfig struct {
	ApplicationCooldown time.Duration `envconfig:"MYPROFILE_APPLICATION_COOLDOWN" default:"168h"`
	PendingCountsTTL    time.Duration `envconfig:"MYPROFILE_PENDING_COUNTS_TTL" default:"15s"`
	PendingMaxWindow    int           `envconfig:"MYPROFILE_PENDING_MAX_WINDOW" default:"1000"`
}

func (m ModerationConfig) validate() error {
	if m.ApplicationCooldown < 0 {
		return fmt.Errorf("%s must not be negative", EnvCooldown)
	}
	if m.PendingMaxWindow <= 0 {
		return fmt.Errorf("%s must be positive", EnvMaxWindow)
	}
	return nil
}

type GCPConfig struct {
	ProjectID              string `envconfig:"MYPROFILE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"MYPROFILE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"MYPROFILE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	ModerationTopic string `envconfig:"MYPROFILE_PUBSUB_MODERATION_TOPIC" default:"myprofile-moderation-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"MYPROFILE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"MYPROFILE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"MYPROFILE_OUTBOX_MAX_ATTEMPTS" default:"10"`
	RetentionDays  int `envconfig:"MYPROFILE_OUTBOX_RETENTION_DAYS" default:"30"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"MYPROFILE_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"MYPROFILE_CRON_LOCK_TTL" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:myprofile.db?cache=shared"
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
