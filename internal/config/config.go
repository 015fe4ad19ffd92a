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
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Dedupe  DedupeConfig  `yaml:"dedupe" mapstructure:"dedupe"`
	Scoring ScoringConfig `yaml:"scoring" mapstructure:"scoring"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Vocab   VocabConfig   `yaml:"vocab" mapstructure:"vocab"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// DedupeConfig configures the merge engine.
type DedupeConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
	Matcher             string  `yaml:"matcher" mapstructure:"matcher"`
}

// ScoringConfig holds grade thresholds and bonus values.
type ScoringConfig struct {
	GradeAMin   float64 `yaml:"grade_a_min" mapstructure:"grade_a_min"`
	GradeBMin   float64 `yaml:"grade_b_min" mapstructure:"grade_b_min"`
	GradeCMin   float64 `yaml:"grade_c_min" mapstructure:"grade_c_min"`
	BonusTier1  float64 `yaml:"bonus_oem_tier1" mapstructure:"bonus_oem_tier1"`
	BonusTier2  float64 `yaml:"bonus_oem_tier2" mapstructure:"bonus_oem_tier2"`
	BonusCert   float64 `yaml:"bonus_certification" mapstructure:"bonus_certification"`
	BonusGolden float64 `yaml:"bonus_golden" mapstructure:"bonus_golden"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentLeads int `yaml:"max_concurrent_leads" mapstructure:"max_concurrent_leads"`
}

// VocabConfig points at an optional vocabulary pack file.
type VocabConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port      int     `yaml:"port" mapstructure:"port"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
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
	v.SetEnvPrefix("LEADS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leads.db")
	v.SetDefault("dedupe.similarity_threshold", 0.92)
	v.SetDefault("dedupe.matcher", "sequence")
	v.SetDefault("scoring.grade_a_min", 85)
	v.SetDefault("scoring.grade_b_min", 70)
	v.SetDefault("scoring.grade_c_min", 50)
	v.SetDefault("scoring.bonus_oem_tier1", 5)
	v.SetDefault("scoring.bonus_oem_tier2", 3)
	v.SetDefault("scoring.bonus_certification", 3)
	v.SetDefault("scoring.bonus_golden", 5)
	v.SetDefault("batch.max_concurrent_leads", 8)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 10)
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
