package config

import (
	"math"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"jsonprof/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Analyzer    AnalyzerConfig
	Server      ServerConfig
	Batch       BatchConfig
	Spreadsheet SpreadsheetConfig
	Logging     LoggingConfig
}

// AnalyzerConfig holds the statistical profiler settings
type AnalyzerConfig struct {
	ZThreshold   float64
	MaxDepth     int
	TruncateDeep bool
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port         string
	GinMode      string
	MaxBodyBytes int64
}

// BatchConfig holds multi-file analysis settings
type BatchConfig struct {
	Concurrency int
}

// SpreadsheetConfig controls how .xlsx and .csv files become documents
type SpreadsheetConfig struct {
	Sheet string
	// LenientNumbers accepts cells such as "$1,200", "15%" and "(42)"
	LenientNumbers bool
	// BooleanWords types yes/no and on/off cells as booleans
	BooleanWords bool
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string
}

const (
	DefaultZThreshold   = 2.0
	DefaultMaxDepth     = 256
	DefaultPort         = "8080"
	DefaultMaxBodyBytes = 10 << 20
	DefaultConcurrency  = 4
	DefaultSheet        = "Sheet1"
)

// Default returns the built-in configuration without consulting the environment
func Default() *Config {
	return &Config{
		Analyzer:    AnalyzerConfig{ZThreshold: DefaultZThreshold, MaxDepth: DefaultMaxDepth},
		Server:      ServerConfig{Port: DefaultPort, GinMode: "release", MaxBodyBytes: DefaultMaxBodyBytes},
		Batch:       BatchConfig{Concurrency: DefaultConcurrency},
		Spreadsheet: SpreadsheetConfig{Sheet: DefaultSheet},
		Logging:     LoggingConfig{Level: "INFO"},
	}
}

// Load reads configuration from .env, the environment and an optional
// config file named by JSONPROF_CONFIG, then validates it
func Load() (*Config, error) {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	v := newViper()
	if path := os.Getenv("JSONPROF_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to read config file %s", path)
		}
	}

	config := &Config{
		Analyzer:    loadAnalyzerConfig(v),
		Server:      loadServerConfig(v),
		Batch:       loadBatchConfig(v),
		Spreadsheet: loadSpreadsheetConfig(v),
		Logging:     loadLoggingConfig(v),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("JSONPROF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("analyzer.z_threshold", d.Analyzer.ZThreshold)
	v.SetDefault("analyzer.max_depth", d.Analyzer.MaxDepth)
	v.SetDefault("analyzer.truncate_deep", d.Analyzer.TruncateDeep)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.gin_mode", d.Server.GinMode)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
	v.SetDefault("batch.concurrency", d.Batch.Concurrency)
	v.SetDefault("spreadsheet.sheet", d.Spreadsheet.Sheet)
	v.SetDefault("spreadsheet.lenient_numbers", d.Spreadsheet.LenientNumbers)
	v.SetDefault("spreadsheet.boolean_words", d.Spreadsheet.BooleanWords)
	v.SetDefault("logging.level", d.Logging.Level)

	// Unprefixed names kept for parity with the usual deployment variables
	_ = v.BindEnv("analyzer.z_threshold", "JSONPROF_ANALYZER_Z_THRESHOLD", "Z_THRESHOLD")
	_ = v.BindEnv("analyzer.max_depth", "JSONPROF_ANALYZER_MAX_DEPTH", "MAX_DEPTH")
	_ = v.BindEnv("server.port", "JSONPROF_SERVER_PORT", "PORT")
	_ = v.BindEnv("server.gin_mode", "JSONPROF_SERVER_GIN_MODE", "GIN_MODE")
	_ = v.BindEnv("logging.level", "JSONPROF_LOGGING_LEVEL", "LOG_LEVEL")
	return v
}

func loadAnalyzerConfig(v *viper.Viper) AnalyzerConfig {
	return AnalyzerConfig{
		ZThreshold:   v.GetFloat64("analyzer.z_threshold"),
		MaxDepth:     v.GetInt("analyzer.max_depth"),
		TruncateDeep: v.GetBool("analyzer.truncate_deep"),
	}
}

func loadServerConfig(v *viper.Viper) ServerConfig {
	return ServerConfig{
		Port:         v.GetString("server.port"),
		GinMode:      v.GetString("server.gin_mode"),
		MaxBodyBytes: v.GetInt64("server.max_body_bytes"),
	}
}

func loadBatchConfig(v *viper.Viper) BatchConfig {
	return BatchConfig{
		Concurrency: v.GetInt("batch.concurrency"),
	}
}

func loadSpreadsheetConfig(v *viper.Viper) SpreadsheetConfig {
	return SpreadsheetConfig{
		Sheet:          v.GetString("spreadsheet.sheet"),
		LenientNumbers: v.GetBool("spreadsheet.lenient_numbers"),
		BooleanWords:   v.GetBool("spreadsheet.boolean_words"),
	}
}

func loadLoggingConfig(v *viper.Viper) LoggingConfig {
	return LoggingConfig{
		Level: strings.ToUpper(v.GetString("logging.level")),
	}
}

// Validate checks value ranges; exported so flag overrides can be rechecked
func (c *Config) Validate() error {
	return validateConfig(c)
}

func validateConfig(config *Config) error {
	if z := config.Analyzer.ZThreshold; math.IsNaN(z) || math.IsInf(z, 0) {
		return errors.ConfigInvalid("z threshold must be a finite number")
	}
	if config.Analyzer.ZThreshold < 0 {
		return errors.ConfigInvalid("z threshold must not be negative")
	}
	if config.Analyzer.MaxDepth < 1 {
		return errors.ConfigInvalid("max depth must be at least 1")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("gin mode must be debug, release or test")
	}
	if config.Server.MaxBodyBytes <= 0 {
		return errors.ConfigInvalid("max body bytes must be positive")
	}
	if config.Batch.Concurrency < 1 {
		return errors.ConfigInvalid("batch concurrency must be at least 1")
	}
	if config.Spreadsheet.Sheet == "" {
		return errors.ConfigInvalid("spreadsheet sheet name is required")
	}
	return nil
}
