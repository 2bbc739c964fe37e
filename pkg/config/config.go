package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/goupromo/goupromo-backend/pkg/env"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

// Load reads the process environment once. The returned Config is treated as
// immutable and handed to every component that needs it.
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
	Env          string `envconfig:"GOUPROMO_APP_ENV" required:"true"`
	Port         string `envconfig:"GOUPROMO_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"GOUPROMO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GOUPROMO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GOUPROMO_DB_DSN"`
	Driver string `envconfig:"GOUPROMO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GOUPROMO_DB_HOST"`
	LegacyPort     int    `envconfig:"GOUPROMO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GOUPROMO_DB_USER"`
	LegacyPassword string `envconfig:"GOUPROMO_DB_PASSWORD"`
	LegacyName     string `envconfig:"GOUPROMO_DB_NAME"`
	LegacySSLMode  string `envconfig:"GOUPROMO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GOUPROMO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GOUPROMO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GOUPROMO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GOUPROMO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded SQLite one.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"GOUPROMO_REDIS_URL"`
	Address      string        `envconfig:"GOUPROMO_REDIS_ADDR"`
	Password     string        `envconfig:"GOUPROMO_REDIS_PASSWORD"`
	DB           int           `envconfig:"GOUPROMO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GOUPROMO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GOUPROMO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GOUPROMO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GOUPROMO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GOUPROMO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"GOUPROMO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GOUPROMO_JWT_ISSUER" default:"goupromo"`
	ExpirationMinutes int    `envconfig:"GOUPROMO_JWT_EXPIRATION_MINUTES" default:"30"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GOUPROMO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GOUPROMO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GOUPROMO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GOUPROMO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GOUPROMO_ARGON_KEY_LEN" default:"32"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"GOUPROMO_CORS_ALLOWED_ORIGINS" default:"*"`
	MaxAgeSeconds  int      `envconfig:"GOUPROMO_CORS_MAX_AGE" default:"300"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GOUPROMO_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = defaultSQLiteDSN
		return nil
	}
	if legacy := env.First(EnvDBURL, EnvDatabaseURL); legacy != "" {
		db.DSN = legacy
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, name := range legacyDBEnvVars {
		if legacyValues[name] == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s, %s or %s are required", EnvDBDSN, EnvDBURL, strings.Join(missing, ", "))
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
