package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "gadgetbay"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "GADGETBAY_DB_DSN"
	EnvDBHost = "GADGETBAY_DB_HOST"
	EnvDBUser = "GADGETBAY_DB_USER"
	EnvDBName = "GADGETBAY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	AdminJWT      AdminJWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Media         MediaConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"GADGETBAY_APP_ENV" required:"true"`
	Port         string `envconfig:"GADGETBAY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GADGETBAY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GADGETBAY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GADGETBAY_DB_DSN"`
	Driver string `envconfig:"GADGETBAY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GADGETBAY_DB_HOST"`
	LegacyPort     int    `envconfig:"GADGETBAY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GADGETBAY_DB_USER"`
	LegacyPassword string `envconfig:"GADGETBAY_DB_PASSWORD"`
	LegacyName     string `envconfig:"GADGETBAY_DB_NAME"`
	LegacySSLMode  string `envconfig:"GADGETBAY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GADGETBAY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GADGETBAY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GADGETBAY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GADGETBAY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GADGETBAY_REDIS_URL"`
	Address      string        `envconfig:"GADGETBAY_REDIS_ADDR"`
	Password     string        `envconfig:"GADGETBAY_REDIS_PASSWORD"`
	DB           int           `envconfig:"GADGETBAY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GADGETBAY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GADGETBAY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GADGETBAY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GADGETBAY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GADGETBAY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Configured reports whether a Redis endpoint was supplied at all. Redis is
// optional; without it the auth rate limiter is disabled.
func (r RedisConfig) Configured() bool {
	return r.URL != "" || r.Address != ""
}

// JWTConfig signs end-user tokens.
type JWTConfig struct {
	Secret            string `envconfig:"GADGETBAY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GADGETBAY_JWT_ISSUER" default:"gadgetbay"`
	ExpirationMinutes int    `envconfig:"GADGETBAY_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// AdminJWTConfig signs admin tokens with an independent secret and issuer.
type AdminJWTConfig struct {
	Secret            string `envconfig:"GADGETBAY_ADMIN_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GADGETBAY_ADMIN_JWT_ISSUER" default:"gadgetbay-admin"`
	ExpirationMinutes int    `envconfig:"GADGETBAY_ADMIN_JWT_EXPIRATION_MINUTES" default:"10080"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GADGETBAY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GADGETBAY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GADGETBAY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GADGETBAY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GADGETBAY_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"GADGETBAY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"GADGETBAY_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"GADGETBAY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"GADGETBAY_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"GADGETBAY_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"GADGETBAY_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type MediaConfig struct {
	MaxUploadMB     int `envconfig:"GADGETBAY_MAX_UPLOAD_MB" default:"1024"`
	BlobChunkSizeKB int `envconfig:"GADGETBAY_BLOB_CHUNK_SIZE_KB" default:"255"`
}

// MaxUploadBytes returns the upload cap in bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	return int64(m.MaxUploadMB) << 20
}

// ChunkSizeBytes returns the blob chunk size in bytes.
func (m MediaConfig) ChunkSizeBytes() int {
	return m.BlobChunkSizeKB << 10
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GADGETBAY_AUTO_MIGRATE" default:"false"`

	// NonTransactionalStock switches order creation to the decrement-then-insert
	// saga with best-effort compensation. Only for deployments whose store
	// cannot couple both writes in one transaction.
	NonTransactionalStock bool `envconfig:"GADGETBAY_NON_TRANSACTIONAL_STOCK" default:"false"`
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
