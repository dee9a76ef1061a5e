// Package config loads application configuration from config.yaml and the
// LEADREPORT_* environment, and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Report   ReportConfig   `yaml:"report" mapstructure:"report"`
	Facebook FacebookConfig `yaml:"facebook" mapstructure:"facebook"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the read-only lead database connection.
type StoreConfig struct {
	DatabaseURL        string     `yaml:"database_url" mapstructure:"database_url"`
	ConnectTimeoutSecs int        `yaml:"connect_timeout_secs" mapstructure:"connect_timeout_secs"`
	Pool               PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// ReportConfig configures the reporting pipeline.
type ReportConfig struct {
	// RowLimit caps every lead query uniformly; 0 disables the limit.
	RowLimit int `yaml:"row_limit" mapstructure:"row_limit"`
	// CatalogTTLMins bounds how long filter option snapshots are reused.
	CatalogTTLMins int `yaml:"catalog_ttl_mins" mapstructure:"catalog_ttl_mins"`
	// Cities is the list of location tokens matched against campaign names.
	Cities []string `yaml:"cities" mapstructure:"cities"`
}

// FacebookConfig holds Facebook Marketing API credentials.
type FacebookConfig struct {
	AccessToken string `yaml:"access_token" mapstructure:"access_token"`
	AdAccountID string `yaml:"ad_account_id" mapstructure:"ad_account_id"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
}

// ServerConfig configures the JSON report server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// defaultCities matches the location tokens the dashboard has always offered.
var defaultCities = []string{
	"Abidjan", "Dakar", "Paris", "Casablanca", "Tunis",
	"Lyon", "Yaoundé", "Alger", "Bruxelles", "Marseille",
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.connect_timeout_secs", 5)
	v.SetDefault("store.pool.max_conns", 4)
	v.SetDefault("store.pool.min_conns", 1)
	v.SetDefault("report.row_limit", 1000)
	v.SetDefault("report.catalog_ttl_mins", 60)
	v.SetDefault("report.cities", defaultCities)
	v.SetDefault("facebook.base_url", "https://graph.facebook.com/v18.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the named section carries the settings it needs.
// Missing connection or API credentials are fatal before any computation.
func (c *Config) Validate(section string) error {
	switch section {
	case "store":
		if c.Store.DatabaseURL == "" {
			return eris.New("config: store.database_url is required (set LEADREPORT_STORE_DATABASE_URL or config.yaml)")
		}
	case "facebook":
		if c.Facebook.AccessToken == "" {
			return eris.New("config: facebook.access_token is required")
		}
		if c.Facebook.AdAccountID == "" {
			return eris.New("config: facebook.ad_account_id is required")
		}
	default:
		return eris.Errorf("config: unknown section %q", section)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
