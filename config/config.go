// Package config loads engine configuration from file and environment. The
// precedence is environment over file over defaults; environment variables
// use the IDKIT_ prefix with underscores for nesting (IDKIT_OCR_DPI).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full engine configuration.
type Config struct {
	OCR OCRConfig `mapstructure:"ocr"`
	MRZ MRZConfig `mapstructure:"mrz"`
	Log LogConfig `mapstructure:"log"`
}

// OCRConfig tunes the observation sweep.
type OCRConfig struct {
	// ConfidenceThreshold is the 0-100 token cutoff for the synthetic
	// high-confidence pass.
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	// Languages are the per-language OCR passes, in order.
	Languages []string `mapstructure:"languages"`
	// DPI is the resolution hint forwarded to the OCR engine.
	DPI int `mapstructure:"dpi"`
}

// MRZConfig tunes MRZ resolution.
type MRZConfig struct {
	// FallbackEnabled controls the geometric band-location fallback used
	// when no specialized decoder is configured or the decoder fails.
	FallbackEnabled bool `mapstructure:"fallback_enabled"`
}

// LogConfig selects logger behavior.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OCR: OCRConfig{
			ConfidenceThreshold: 60,
			Languages:           []string{"eng", "ara"},
			DPI:                 300,
		},
		MRZ: MRZConfig{FallbackEnabled: true},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads configuration from the named file (optional, empty path skips
// it) and the environment, over the defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("ocr.confidence_threshold", 60)
	v.SetDefault("ocr.languages", []string{"eng", "ara"})
	v.SetDefault("ocr.dpi", 300)
	v.SetDefault("mrz.fallback_enabled", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetEnvPrefix("IDKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
