package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
	Tasks    TasksConfig    `mapstructure:"tasks" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
	// SeedFile, when set, names a JSON file of users and their tasks that is
	// loaded at startup. Existing users are left untouched.
	SeedFile string `mapstructure:"seed_file"`

	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// CacheConfig selects and tunes the response cache.
type CacheConfig struct {
	// Backend is either "redis" or "memory".
	Backend  string `mapstructure:"backend" validate:"required,oneof=redis memory"`
	RedisURL string `mapstructure:"redis_url" validate:"required_if=Backend redis"`

	DefaultTTL        time.Duration `mapstructure:"default_ttl" validate:"gt=0"`
	ListTTL           time.Duration `mapstructure:"list_ttl" validate:"gt=0"`
	InvalidateOnWrite bool          `mapstructure:"invalidate_on_write"`

	Local LocalCacheConfig `mapstructure:"local"`
}

// LocalCacheConfig sizes the in-process cache backend.
type LocalCacheConfig struct {
	Capacity           int           `mapstructure:"capacity" validate:"gt=0"`
	NumShards          int           `mapstructure:"num_shards" validate:"gt=0"`
	MaxTTL             time.Duration `mapstructure:"max_ttl" validate:"gt=0"`
	EvictionPercentage int           `mapstructure:"eviction_percentage" validate:"gte=1,lte=100"`
}

// TasksConfig holds settings of the task query service.
type TasksConfig struct {
	// Timezone is the IANA zone in which "today" is computed for grouping.
	Timezone string `mapstructure:"timezone" validate:"required,tzname"`
}

// Location resolves Timezone. It falls back to time.Local when the zone
// cannot be loaded.
func (c TasksConfig) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
