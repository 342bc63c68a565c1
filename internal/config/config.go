package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration carried in YAML as a string like "30s" or
// "24h".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	v, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %v", value.Value, err)
	}
	*d = Duration(v)
	return nil
}

// Config holds the full service configuration, loaded from a YAML file.
type Config struct {
	Server struct {
		Host      string `yaml:"host"`
		Port      string `yaml:"port"`
		Prefork   bool   `yaml:"prefork"`
		StaticDir string `yaml:"static_dir"`
	} `yaml:"server"`

	Logger struct {
		File       string `yaml:"file"`
		Level      string `yaml:"level"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logger"`

	Database struct {
		PostgresDSN string `yaml:"postgres_dsn"`
	} `yaml:"database"`

	Cache struct {
		RedisHost       string        `yaml:"redis_host"`
		PDFCacheEnabled bool          `yaml:"pdf_cache_enabled"`
		PDFCacheTTL     Duration      `yaml:"pdf_cache_ttl"`
		PDFCacheDB      int           `yaml:"pdf_cache_db"`
		SessionDB       int           `yaml:"session_db"`
		RateLimitDB     int           `yaml:"rate_limit_db"`
	} `yaml:"cache"`

	Session struct {
		TTL Duration `yaml:"ttl"`
	} `yaml:"session"`

	Render struct {
		SVG2PDFPath     string `yaml:"svg2pdf_path"`
		GhostscriptPath string `yaml:"ghostscript_path"`
		WorkDir         string `yaml:"work_dir"`
		TimeoutSecs     int    `yaml:"timeout_secs"`
	} `yaml:"render"`

	Limits struct {
		MaxSVGBytes   int `yaml:"max_svg_bytes"`
		MaxPDFBytes   int `yaml:"max_pdf_bytes"`
		MaxImageBytes int `yaml:"max_image_bytes"`
	} `yaml:"limits"`

	RateLimiter struct {
		EnableUserLimiter bool          `yaml:"enable_user_limiter"`
		UserLimit         int           `yaml:"user_limit"`
		Interval          Duration      `yaml:"rate_interval"`
	} `yaml:"rate_limiter"`
}

// Load reads the configuration from CONFIG_PATH, falling back to config.yaml
// in the working directory.
func Load() Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	return LoadFrom(path)
}

// LoadFrom reads and validates the configuration at path. Invalid
// configuration is a deployment defect, so it panics rather than limping on.
func LoadFrom(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("config: cannot read %s: %v", path, err))
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		panic(fmt.Sprintf("config: cannot parse %s: %v", path, err))
	}

	applyDefaults(&cfg)
	validate(&cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":6969"
	}
	if cfg.Server.StaticDir == "" {
		cfg.Server.StaticDir = "./static"
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = Duration(24 * time.Hour)
	}
	if cfg.Render.SVG2PDFPath == "" {
		cfg.Render.SVG2PDFPath = "svg2pdf"
	}
	if cfg.Render.GhostscriptPath == "" {
		cfg.Render.GhostscriptPath = "gs"
	}
	if cfg.Render.TimeoutSecs == 0 {
		cfg.Render.TimeoutSecs = 120
	}
	if cfg.Limits.MaxSVGBytes == 0 {
		cfg.Limits.MaxSVGBytes = 10 * 1024 * 1024
	}
	if cfg.Limits.MaxPDFBytes == 0 {
		cfg.Limits.MaxPDFBytes = 50 * 1024 * 1024
	}
	if cfg.Limits.MaxImageBytes == 0 {
		cfg.Limits.MaxImageBytes = 10 * 1024 * 1024
	}
	if cfg.Cache.PDFCacheTTL <= 0 {
		cfg.Cache.PDFCacheTTL = Duration(24 * time.Hour)
	}
	if cfg.RateLimiter.Interval <= 0 {
		cfg.RateLimiter.Interval = Duration(time.Minute)
	}
}

func validate(cfg *Config) {
	if cfg.Database.PostgresDSN == "" {
		panic("config: database.postgres_dsn is required")
	}
	if cfg.Render.TimeoutSecs < 0 {
		panic("config: render.timeout_secs must not be negative")
	}
	if cfg.RateLimiter.UserLimit < 0 {
		panic("config: rate_limiter.user_limit must not be negative")
	}
}
