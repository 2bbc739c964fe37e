package config

// EnvPrefix is handed to envconfig; every tag spells its full name so the
// prefix only matters for fields without an explicit tag.
const EnvPrefix = "GOUPROMO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:goupromo.db?_foreign_keys=on"
)

const (
	EnvAppEnv   = "GOUPROMO_APP_ENV"
	EnvPort     = "GOUPROMO_APP_PORT"
	EnvLogLevel = "GOUPROMO_LOG_LEVEL"

	EnvDBDSN    = "GOUPROMO_DB_DSN"
	EnvDBDriver = "GOUPROMO_DB_DRIVER"
	EnvDBHost   = "GOUPROMO_DB_HOST"
	EnvDBUser   = "GOUPROMO_DB_USER"
	EnvDBName   = "GOUPROMO_DB_NAME"
	// EnvDBURL is the variable name the first backend deployment used.
	EnvDBURL       = "DB_URL"
	EnvDatabaseURL = "DATABASE_URL"

	EnvRedisURL = "GOUPROMO_REDIS_URL"

	EnvJWTSecret  = "GOUPROMO_JWT_SECRET"
	EnvJWTIssuer  = "GOUPROMO_JWT_ISSUER"
	EnvJWTExpMins = "GOUPROMO_JWT_EXPIRATION_MINUTES"

	EnvCORSOrigins = "GOUPROMO_CORS_ALLOWED_ORIGINS"
	EnvAutoMigrate = "GOUPROMO_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
