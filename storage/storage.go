package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xy-planning-network/artmatch"
	"gorm.io/gorm"
)

// Driver identifiers supported by New.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

var ErrNotFound = errors.New("not found")

// A Storage stores byte values under string keys.
//
// Get returns ErrNotFound when no value is stored under key.
// Delete does not return an error when no value is stored under key.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config selects and tunes a Storage driver.
type Config struct {
	Driver string

	// TTL bounds how long a value lives after it was last set.
	// The zero value keeps values until they are deleted.
	TTL time.Duration

	Redis RedisConfig
}

// RedisConfig captures connection options for the redis driver.
type RedisConfig struct {
	// URL is a redis:// URL; it takes precedence over Addr.
	URL      string
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Dependencies captures external handles required by certain drivers.
type Dependencies struct {
	DB *gorm.DB
}

// New constructs the Storage named by cfg.Driver.
// The memory driver is the default.
func New(cfg Config, deps Dependencies) (Storage, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemory(MemoryTTL(cfg.TTL)), nil

	case DriverRedis:
		return NewRedis(cfg)

	case DriverPostgres:
		if deps.DB == nil {
			return nil, fmt.Errorf("%w: postgres driver requires a database handle", artmatch.ErrBadConfig)
		}

		return NewGorm(deps.DB, cfg.TTL)

	default:
		return nil, fmt.Errorf("%w: unsupported storage driver %q", artmatch.ErrBadConfig, cfg.Driver)
	}
}
