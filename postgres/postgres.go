package postgres

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/xy-planning-network/artmatch"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PG Docs: https://www.postgresql.org/docs/current/libpq-connect.html#LIBPQ-PARAMKEYWORDS
const cxnStr = "host=%s port=%s dbname=%s user=%s password=%s sslmode=%s"

const (
	dbHostEnvVar     = "DATABASE_HOST"
	defaultDBHost    = "localhost"
	dbNameEnvVar     = "DATABASE_NAME"
	dbPassEnvVar     = "DATABASE_PASSWORD"
	dbPortEnvVar     = "DATABASE_PORT"
	defaultDBPort    = "5432"
	dbSSLModeEnvVar  = "DATABASE_SSLMODE"
	defaultDBSSLMode = "prefer"
	dbURLEnvVar      = "DATABASE_URL"
	dbUserEnvVar     = "DATABASE_USER"
	dbMaxIdleEnvVar  = "DATABASE_MAX_IDLE_CXNS"
	defaultDBMaxIdle = 1
)

// CxnConfig holds connection information used to connect to a PostgreSQL database.
type CxnConfig struct {
	IsTestDB    bool
	MaxIdleCxns int
	URL         string
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	SSLMode     string
}

// NewCxnConfig constructs a *CxnConfig from the DATABASE environment variables.
// DATABASE_URL, when set, wins over the individual settings.
func NewCxnConfig(env artmatch.Environment) *CxnConfig {
	cfg := &CxnConfig{
		IsTestDB:    env.IsTesting(),
		MaxIdleCxns: artmatch.EnvVarOrInt(dbMaxIdleEnvVar, defaultDBMaxIdle),
	}

	if url := os.Getenv(dbURLEnvVar); url != "" {
		cfg.URL = url
		return cfg
	}

	cfg.Host = artmatch.EnvVarOrString(dbHostEnvVar, defaultDBHost)
	cfg.Name = os.Getenv(dbNameEnvVar)
	cfg.Password = os.Getenv(dbPassEnvVar)
	cfg.Port = artmatch.EnvVarOrString(dbPortEnvVar, defaultDBPort)
	cfg.SSLMode = artmatch.EnvVarOrString(dbSSLModeEnvVar, defaultDBSSLMode)
	cfg.User = os.Getenv(dbUserEnvVar)

	return cfg
}

// Connect opens a database connection through GORM according to the connection config.
func Connect(config *CxnConfig, env artmatch.Environment) (*gorm.DB, error) {
	// https://gorm.io/docs/logger.html
	c := logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  env.IsDevelopment(),
	}

	db, err := gorm.Open(postgres.Open(BuildCxnStr(config)), &gorm.Config{
		Logger: logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), c),
		NowFunc: func() time.Time {
			return time.Now().Truncate(time.Microsecond)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to postgres: %s", artmatch.ErrBadConfig, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", artmatch.ErrUnexpected, err)
	}

	sqlDB.SetMaxIdleConns(config.MaxIdleCxns)

	if config.IsTestDB {
		if err := db.Exec("DROP SCHEMA IF EXISTS public CASCADE; CREATE SCHEMA public;").Error; err != nil {
			return nil, err
		}
	}

	return db, nil
}

// BuildCxnStr formats config as a libpq connection string,
// or returns config.URL when set.
func BuildCxnStr(config *CxnConfig) string {
	if config.URL != "" {
		return config.URL
	}

	sslMode := config.SSLMode
	if sslMode == "" {
		// PG Docs: https://www.postgresql.org/docs/current/libpq-ssl.html#LIBPQ-SSL-SSLMODE-STATEMENTS
		sslMode = defaultDBSSLMode
	}

	return fmt.Sprintf(
		cxnStr,
		config.Host,
		config.Port,
		config.Name,
		config.User,
		config.Password,
		sslMode,
	)
}
