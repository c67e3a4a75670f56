package accesskit

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/fernandezvara/dbkit"
)

// Config holds runtime configuration loaded from the environment under the
// ACCESSKIT_ prefix.
type Config struct {
	// DatabaseURL is the Postgres connection string.
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// SharedLangTable selects the shared system_langs table for localized
	// attributes instead of the per-entity tables.
	SharedLangTable bool `envconfig:"SHARED_LANG_TABLE" default:"false"`

	// Connection pool settings.
	MaxOpenConnections    int           `envconfig:"MAX_OPEN_CONNECTIONS" default:"25"`
	MaxIdleConnections    int           `envconfig:"MAX_IDLE_CONNECTIONS" default:"5"`
	ConnectionMaxLifetime time.Duration `envconfig:"CONNECTION_MAX_LIFETIME" default:"30m"`
	ConnectionMaxIdleTime time.Duration `envconfig:"CONNECTION_MAX_IDLE_TIME" default:"5m"`

	// Migrate runs pending migrations on startup.
	Migrate bool `envconfig:"MIGRATE" default:"false"`
}

// LoadConfig reads the configuration from ACCESSKIT_* environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("accesskit", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// Backend returns the localization backend the configuration selects.
func (c *Config) Backend() LocalizationBackend {
	if c.SharedLangTable {
		return SharedTable()
	}
	return SplitTables()
}

// PoolConfig returns the connection pool settings the configuration selects.
func (c *Config) PoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConnections:    c.MaxOpenConnections,
		MaxIdleConnections:    c.MaxIdleConnections,
		ConnectionMaxLifetime: c.ConnectionMaxLifetime,
		ConnectionMaxIdleTime: c.ConnectionMaxIdleTime,
	}
}

// Open connects to the database and builds a configured Service. The caller
// owns the returned DBKit and should Close it on shutdown.
func (c *Config) Open(opts ...ServiceOption) (*Service, *dbkit.DBKit, error) {
	db, err := dbkit.New(dbkit.Config{URL: c.DatabaseURL})
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	opts = append([]ServiceOption{WithLocalizationBackend(c.Backend())}, opts...)
	service := NewService(db, opts...)

	if err := service.ConfigureConnectionPool(c.PoolConfig()); err != nil {
		db.Close()
		return nil, nil, err
	}

	return service, db, nil
}
