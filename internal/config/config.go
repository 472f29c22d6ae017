package config

import "time"

// Environment names accepted in server.environment.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Database drivers accepted in database.driver.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DefaultInsecureSessionSecret is only ever used outside production, and
// its use is logged at startup.
const DefaultInsecureSessionSecret = "insecure-development-session-secret-change-me"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	Port        int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel    string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	Environment string `mapstructure:"environment" validate:"required,oneof=development production"`

	ReadTimeoutSeconds    int `mapstructure:"read_timeout_seconds" validate:"gt=0"`
	WriteTimeoutSeconds   int `mapstructure:"write_timeout_seconds" validate:"gt=0"`
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains the storage settings.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" validate:"required,oneof=postgres memory"`
	URL          string `mapstructure:"url" validate:"required_if=Driver postgres,omitempty,pgdsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

// AuthConfig contains the session and password settings.
type AuthConfig struct {
	SessionSecret          string `mapstructure:"session_secret" validate:"omitempty,min=32"`
	SessionLifetimeMinutes int    `mapstructure:"session_lifetime_minutes" validate:"required,gt=0"`
	CookieName             string `mapstructure:"cookie_name" validate:"required"`
	CookieSecure           bool   `mapstructure:"cookie_secure"`
	BcryptCost             int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`

	// UsingInsecureDefault is set by Load when the development fallback
	// secret was substituted for an empty one.
	UsingInsecureDefault bool `mapstructure:"-"`
}

// IsProduction reports whether the server runs in production mode.
func (c ServerConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// ReadTimeout returns the configured read timeout.
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the configured write timeout.
func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// RequestTimeout returns the per-request handler deadline.
func (c ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// SessionLifetime returns how long a session stays valid after login.
func (c AuthConfig) SessionLifetime() time.Duration {
	return time.Duration(c.SessionLifetimeMinutes) * time.Minute
}
