// Package config loads dreval CLI settings from a YAML file, .env files and
// DREVAL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. DREVAL_NEGATIVE_CLASS.
const EnvPrefix = "DREVAL"

// Formats lists the accepted report formats.
var Formats = []string{"text", "json", "proto"}

// Config holds the settings shared by all dreval commands.
type Config struct {
	// NegativeClass is the taxonomy name mapped to the binary Negative label.
	// Empty keeps the taxonomy's own negative class.
	NegativeClass string `mapstructure:"negative_class"`
	// TaxonomyFile optionally replaces the built-in taxonomy.
	TaxonomyFile string `mapstructure:"taxonomy_file"`

	Threshold   float64 `mapstructure:"threshold"`
	PoolSize    int     `mapstructure:"pool_size"`
	Concurrency int     `mapstructure:"concurrency"`

	Format   string `mapstructure:"format"`
	LogLevel string `mapstructure:"log_level"`
	LogJSON  bool   `mapstructure:"log_json"`

	InputName  string `mapstructure:"input_name"`
	OutputName string `mapstructure:"output_name"`
	ORTLibrary string `mapstructure:"ort_library"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Threshold:  0.5,
		Format:     "text",
		LogLevel:   "info",
		InputName:  "float_input",
		OutputName: "probabilities",
	}
}

// Load reads configuration from path, or from config.yaml in .dreval/, the
// working directory or ~/.dreval when path is empty. A missing search-path
// file is not an error; a missing explicit path is. Environment variables
// override file values.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".dreval")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".dreval"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv sees it during Unmarshal.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("negative_class", cfg.NegativeClass)
	v.SetDefault("taxonomy_file", cfg.TaxonomyFile)
	v.SetDefault("threshold", cfg.Threshold)
	v.SetDefault("pool_size", cfg.PoolSize)
	v.SetDefault("concurrency", cfg.Concurrency)
	v.SetDefault("format", cfg.Format)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_json", cfg.LogJSON)
	v.SetDefault("input_name", cfg.InputName)
	v.SetDefault("output_name", cfg.OutputName)
	v.SetDefault("ort_library", cfg.ORTLibrary)
}

// loadEnvFiles loads .env.local then .env from the working directory.
// Variables already set in the environment win.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}

// Validate reports settings no command can run with.
func (c *Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold %v outside [0, 1]", c.Threshold)
	}
	if c.PoolSize < 0 {
		return fmt.Errorf("pool_size %d is negative", c.PoolSize)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency %d is negative", c.Concurrency)
	}
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("unknown format %q (want one of %v)", c.Format, Formats)
	}
	return nil
}
