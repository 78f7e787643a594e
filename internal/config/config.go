package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	} `mapstructure:"server"`

	Render struct {
		Endpoint       string `mapstructure:"endpoint"`
		APIKey         string `mapstructure:"api_key"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"render"`

	Output struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"output"`

	Archive struct {
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		AccessKeySecret string `mapstructure:"access_key_secret"`
		Bucket          string `mapstructure:"bucket"`
		Region          string `mapstructure:"region"`
		Prefix          string `mapstructure:"prefix"`
	} `mapstructure:"archive"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // "json" or "pretty"
	} `mapstructure:"log"`
}

// RenderTimeout returns the render client timeout as a duration.
func (c *Config) RenderTimeout() time.Duration {
	return time.Duration(c.Render.TimeoutSeconds) * time.Second
}

// ArchiveEnabled reports whether enough archive settings are present to
// construct an uploader.
func (c *Config) ArchiveEnabled() bool {
	return c.Archive.Endpoint != "" &&
		c.Archive.AccessKeyID != "" &&
		c.Archive.AccessKeySecret != "" &&
		c.Archive.Bucket != ""
}

// Load reads configuration from configs/config.yaml (optional) with
// environment variable overrides. A .env file is honoured when present.
func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")
	v.AutomaticEnv()

	// Sensible defaults so the binary works without a config file
	v.SetDefault("server.port", 8080)
	v.SetDefault("render.timeout_seconds", 60)
	v.SetDefault("output.dir", "output")
	v.SetDefault("archive.prefix", "invoices")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	// Environment overrides
	if port := os.Getenv("PORT"); port != "" {
		v.Set("server.port", port)
		cfg.Server.Port = v.GetInt("server.port")
	}
	if endpoint := os.Getenv("RENDER_ENDPOINT"); endpoint != "" {
		cfg.Render.Endpoint = endpoint
	}
	if key := os.Getenv("RENDER_API_KEY"); key != "" {
		cfg.Render.APIKey = key
	}
	if dir := os.Getenv("OUTPUT_DIR"); dir != "" {
		cfg.Output.Dir = dir
	}
	if endpoint := os.Getenv("ARCHIVE_ENDPOINT"); endpoint != "" {
		cfg.Archive.Endpoint = endpoint
	}
	if key := os.Getenv("ARCHIVE_ACCESS_KEY_ID"); key != "" {
		cfg.Archive.AccessKeyID = key
	}
	if secret := os.Getenv("ARCHIVE_ACCESS_KEY_SECRET"); secret != "" {
		cfg.Archive.AccessKeySecret = secret
	}
	if bucket := os.Getenv("ARCHIVE_BUCKET"); bucket != "" {
		cfg.Archive.Bucket = bucket
	}
	if region := os.Getenv("ARCHIVE_REGION"); region != "" {
		cfg.Archive.Region = region
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Log.Format = format
	}

	validate(&cfg)

	return &cfg
}

// validate logs warnings for missing settings that will make requests fail
// later; the binary still starts so totals-only usage keeps working.
func validate(cfg *Config) {
	if cfg.Render.Endpoint == "" {
		log.Printf("[Config] Warning: RENDER_ENDPOINT is not set. PDF generation will fail.")
	}
	if cfg.Render.APIKey == "" {
		log.Printf("[Config] Warning: RENDER_API_KEY is not set. The render service may reject requests.")
	}
}
