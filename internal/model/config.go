package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the complete phototz configuration
type Config struct {
	DataDir     string            `yaml:"data_dir" mapstructure:"data_dir"`
	Exiftool    ExiftoolConfig    `yaml:"exiftool" mapstructure:"exiftool"`
	Resolver    ResolverConfig    `yaml:"resolver" mapstructure:"resolver"`
	Checks      ChecksConfig      `yaml:"checks" mapstructure:"checks"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// ExiftoolConfig configures the external metadata reader
type ExiftoolConfig struct {
	Binary         string        `yaml:"binary" mapstructure:"binary"`                   // exiftool executable name or path
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`                 // per-invocation timeout
	NativeFallback bool          `yaml:"native_fallback" mapstructure:"native_fallback"` // decode EXIF directly when the binary is missing
}

// ResolverConfig configures timezone resolution from coordinates
type ResolverConfig struct {
	ToleranceDeg   float64 `yaml:"tolerance_deg" mapstructure:"tolerance_deg"`     // longitude constraint for the nearest-zone fallback
	CoarseFallback bool    `yaml:"coarse_fallback" mapstructure:"coarse_fallback"` // allow coarse lookup when the polygon dataset is not installed
}

// ChecksConfig configures the consistency checkers
type ChecksConfig struct {
	BorderToleranceMeters float64 `yaml:"border_tolerance_meters" mapstructure:"border_tolerance_meters"`
}

// CacheConfig configures the metadata memoization cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// HTTPConfig configures the dataset bootstrap client
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	HTTPProxy         string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
	Format  string `yaml:"format" mapstructure:"format"` // "text" or "yaml"
	Color   bool   `yaml:"color" mapstructure:"color"`
}

// LLMConfig configures the optional explain mode (never affects check results)
type LLMConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Model   string `yaml:"model" mapstructure:"model"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".phototz")

	return &Config{
		DataDir: filepath.Join(base, "data"),
		Exiftool: ExiftoolConfig{
			Binary:         "exiftool",
			Timeout:        30 * time.Second,
			NativeFallback: true,
		},
		Resolver: ResolverConfig{
			ToleranceDeg:   7.5,
			CoarseFallback: false,
		},
		Checks: ChecksConfig{
			BorderToleranceMeters: 200,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       filepath.Join(base, "cache"),
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   30 * 24 * time.Hour,
		},
		HTTP: HTTPConfig{
			Timeout:           2 * time.Minute,
			UserAgent:         "phototz/0.1 (+https://github.com/dvincze/phototz)",
			RequestsPerSecond: 2,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		LLM: LLMConfig{
			Model: "gpt-4o-mini",
		},
	}
}
