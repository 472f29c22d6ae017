package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrInsecureSessionSecret is returned when production mode starts without
// a session secret or with the development default.
var ErrInsecureSessionSecret = errors.New(
	"auth.session_secret must be set in production (TASKLIST_AUTH_SESSION_SECRET or SECRET_KEY)",
)

// Options controls where Load looks for configuration.
type Options struct {
	// EnvFile is loaded into the process environment if it exists.
	EnvFile string
	// ConfigPaths are searched for config.yaml.
	ConfigPaths []string
}

// DefaultOptions reads ./.env and ./config.yaml.
func DefaultOptions() Options {
	return Options{
		EnvFile:     ".env",
		ConfigPaths: []string{"."},
	}
}

// Load reads configuration from defaults, an optional config file and
// TASKLIST_* environment variables, then validates it.
// Environment variables take precedence over values from config files.
func Load() (*Config, error) {
	return LoadWithOptions(DefaultOptions())
}

// LoadWithOptions is Load with explicit file locations.
func LoadWithOptions(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if _, err := os.Stat(opts.EnvFile); err == nil {
			if err := godotenv.Load(opts.EnvFile); err != nil {
				return nil, fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
			}
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range opts.ConfigPaths {
		v.AddConfigPath(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("TASKLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Names used by the original deployment.
	if err := v.BindEnv("auth.session_secret", "TASKLIST_AUTH_SESSION_SECRET", "SECRET_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind session secret env: %w", err)
	}
	if err := v.BindEnv("database.url", "TASKLIST_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind database url env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// pgdsn accepts anything pgx can connect with: URLs and keyword/value strings.
	_ = v.RegisterValidation("pgdsn", func(fl validator.FieldLevel) bool {
		_, err := pgx.ParseConfig(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks struct constraints and applies the session secret policy.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	secret := cfg.Auth.SessionSecret
	if cfg.Server.IsProduction() {
		if secret == "" || secret == DefaultInsecureSessionSecret {
			return ErrInsecureSessionSecret
		}
		return nil
	}

	if secret == "" {
		cfg.Auth.SessionSecret = DefaultInsecureSessionSecret
		cfg.Auth.UsingInsecureDefault = true
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.environment", EnvDevelopment)
	v.SetDefault("server.read_timeout_seconds", 10)
	v.SetDefault("server.write_timeout_seconds", 15)
	v.SetDefault("server.request_timeout_seconds", 10)

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("auth.session_secret", "")
	v.SetDefault("auth.session_lifetime_minutes", 60*24)
	v.SetDefault("auth.cookie_name", "tasklist_session")
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("auth.bcrypt_cost", 10)
}
