package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable override, e.g. SHIPTRACK_DATABASE_DSN
const EnvPrefix = "SHIPTRACK"

// Config holds all application configuration
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Export      ExportConfig   `mapstructure:"export"`
	Logging     LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Address string        `mapstructure:"address"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig holds Postgres connection settings. Commands that read items need either
// a DSN here or a scenario directory; there is no implicit fallback store.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// ExportConfig holds report export configuration
type ExportConfig struct {
	Dir     string        `mapstructure:"dir"`
	Format  string        `mapstructure:"format"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Configured reports whether a Postgres DSN is set
func (c DatabaseConfig) Configured() bool {
	return strings.TrimSpace(c.DSN) != ""
}

// LoadConfig reads configuration from config.yaml in path (or ./config), falling back
// to app.env, then environment variables and defaults
func LoadConfig(path string) (Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AddConfigPath(path)
	v.AddConfigPath("./config")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			v.SetConfigName("app")
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				log.Debug().Err(err).Msg("No configuration file found, using environment and defaults")
			}
		} else {
			return Config{}, errors.Wrap(err, "error reading config file")
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, errors.Wrap(err, "unable to unmarshal config")
	}

	return config, nil
}

// setDefaults sets default values for configuration. Every key needs a default so
// AutomaticEnv can find it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("server.address", "0.0.0.0:8080")
	v.SetDefault("server.timeout", "30s")

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")

	v.SetDefault("export.dir", ".")
	v.SetDefault("export.format", "xlsx")
	v.SetDefault("export.timeout", "2m")

	v.SetDefault("logging.level", "info")
}
