package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "globomantics"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "GLOBOMANTICS_DB_DSN"
	EnvDBHost = "GLOBOMANTICS_DB_HOST"
	EnvDBUser = "GLOBOMANTICS_DB_USER"
	EnvDBName = "GLOBOMANTICS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
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
	Env          string `envconfig:"GLOBOMANTICS_APP_ENV" required:"true"`
	Port         string `envconfig:"GLOBOMANTICS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"GLOBOMANTICS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GLOBOMANTICS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GLOBOMANTICS_DB_DSN"`
	Driver string `envconfig:"GLOBOMANTICS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GLOBOMANTICS_DB_HOST"`
	LegacyPort     int    `envconfig:"GLOBOMANTICS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GLOBOMANTICS_DB_USER"`
	LegacyPassword string `envconfig:"GLOBOMANTICS_DB_PASSWORD"`
	LegacyName     string `envconfig:"GLOBOMANTICS_DB_NAME"`
	LegacySSLMode  string `envconfig:"GLOBOMANTICS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GLOBOMANTICS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GLOBOMANTICS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GLOBOMANTICS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GLOBOMANTICS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver was selected (local dev and tests).
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"GLOBOMANTICS_REDIS_URL"`
	Address      string        `envconfig:"GLOBOMANTICS_REDIS_ADDR"`
	Password     string        `envconfig:"GLOBOMANTICS_REDIS_PASSWORD"`
	DB           int           `envconfig:"GLOBOMANTICS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GLOBOMANTICS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GLOBOMANTICS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GLOBOMANTICS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GLOBOMANTICS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GLOBOMANTICS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all. The API keeps
// working without one; login rate limiting is skipped in that case.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"GLOBOMANTICS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GLOBOMANTICS_JWT_ISSUER" default:"https://api.globomantics.com"`
	ExpirationMinutes int    `envconfig:"GLOBOMANTICS_JWT_EXPIRATION_MINUTES" default:"30"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GLOBOMANTICS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GLOBOMANTICS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GLOBOMANTICS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GLOBOMANTICS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GLOBOMANTICS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"GLOBOMANTICS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"GLOBOMANTICS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"GLOBOMANTICS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GLOBOMANTICS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" || db.IsSQLite() {
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
