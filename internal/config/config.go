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
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Aggregation AggregationConfig `yaml:"aggregation" mapstructure:"aggregation"`
	Validation  ValidationConfig  `yaml:"validation" mapstructure:"validation"`
	Scoring     ScoringConfig     `yaml:"scoring" mapstructure:"scoring"`
	Intent      IntentConfig      `yaml:"intent" mapstructure:"intent"`
	Export      ExportConfig      `yaml:"export" mapstructure:"export"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AggregationConfig configures the batch driver.
type AggregationConfig struct {
	Workers    int    `yaml:"workers" mapstructure:"workers"`
	SlugColumn string `yaml:"slug_column" mapstructure:"slug_column"`
}

// ValidationConfig configures contact validation.
type ValidationConfig struct {
	CountryCode string `yaml:"country_code" mapstructure:"country_code"`
}

// ScoringConfig configures the lead scorer.
type ScoringConfig struct {
	Steepness float64 `yaml:"steepness" mapstructure:"steepness"`
}

// IntentConfig points at the intent summary file.
type IntentConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ExportConfig configures output writing.
type ExportConfig struct {
	Dir       string `yaml:"dir" mapstructure:"dir"`
	SheetName string `yaml:"sheet_name" mapstructure:"sheet_name"`
}

// ServerConfig configures the read-only result server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SSOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "ssot.db")
	v.SetDefault("aggregation.workers", 4)
	v.SetDefault("aggregation.slug_column", "slug")
	v.SetDefault("validation.country_code", "ZA")
	v.SetDefault("scoring.steepness", 8.0)
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.sheet_name", "Canonical")
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
