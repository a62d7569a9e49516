package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Postgres PostgresConfig `yaml:"postgres"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Storage  StorageConfig  `yaml:"storage"`
	Capture  CaptureConfig  `yaml:"capture"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Activity ActivityConfig `yaml:"activity"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// AuthConfig holds token and Google sign-in settings.
type AuthConfig struct {
	Secret          string        `yaml:"secret"`
	TokenTTL        time.Duration `yaml:"tokenTtl"`
	RefreshTokenTTL time.Duration `yaml:"refreshTokenTtl"`
	Google          GoogleConfig  `yaml:"google"`
}

// GoogleConfig holds OAuth client settings.
type GoogleConfig struct {
	ClientID             string `yaml:"clientId"`
	ClientSecret         string `yaml:"clientSecret"`
	RedirectURL          string `yaml:"redirectUrl"`
	TokenEncryptionKey   string `yaml:"tokenEncryptionKey"`
	PostLoginRedirectURL string `yaml:"postLoginRedirectUrl"`
}

// PostgresConfig contains DSN and pooling settings. An empty DSN selects memory storage.
type PostgresConfig struct {
	DSN         string `yaml:"dsn"`
	MaxConns    int32  `yaml:"maxConns"`
	MinConns    int32  `yaml:"minConns"`
	SeedCatalog bool   `yaml:"seedCatalog"`
}

// ValkeyConfig contains connection information for carts, profiles and the activity queue.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// StorageConfig locates the snapshot bucket.
type StorageConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// Camera drivers.
const (
	DriverNone   = "none"
	DriverFFmpeg = "ffmpeg"
	DriverStill  = "still"
)

// CaptureConfig selects the server-side camera and pipeline timing.
type CaptureConfig struct {
	Driver           string        `yaml:"driver"`
	Device           string        `yaml:"device"`
	InputFormat      string        `yaml:"inputFormat"`
	Width            int           `yaml:"width"`
	Height           int           `yaml:"height"`
	StillPath        string        `yaml:"stillPath"`
	ProgressInterval time.Duration `yaml:"progressInterval"`
	ProgressStep     int           `yaml:"progressStep"`
	ProgressCap      int           `yaml:"progressCap"`
	SettleDelay      time.Duration `yaml:"settleDelay"`
	FrameRetries     int           `yaml:"frameRetries"`
}

// AnalysisConfig tunes the analysis endpoints.
type AnalysisConfig struct {
	FallbackToDemo bool   `yaml:"fallbackToDemo"`
	MaxUploadBytes int64  `yaml:"maxUploadBytes"`
	MaxFramePixels int    `yaml:"maxFramePixels"`
	SnapshotPrefix string `yaml:"snapshotPrefix"`
}

// Activity queue kinds.
const (
	QueueImmediate = "immediate"
	QueueValkey    = "valkey"
)

// ActivityConfig selects how session events reach storage.
type ActivityConfig struct {
	Queue    string `yaml:"queue"`
	QueueKey string `yaml:"queueKey"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	setBool(&cfg.HTTP.RateLimit.Enabled, "HTTP_RATE_LIMIT_ENABLED")
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")
	setBool(&cfg.HTTP.Retry.Enabled, "HTTP_RETRY_ENABLED")
	setInt(&cfg.HTTP.Retry.MaxAttempts, "HTTP_RETRY_MAX_ATTEMPTS")
	setDuration(&cfg.HTTP.Retry.BaseBackoff, "HTTP_RETRY_BASE_BACKOFF")

	setString(&cfg.Auth.Secret, "AUTH_SECRET")
	setDuration(&cfg.Auth.TokenTTL, "AUTH_TOKEN_TTL")
	setDuration(&cfg.Auth.RefreshTokenTTL, "AUTH_REFRESH_TOKEN_TTL")
	setString(&cfg.Auth.Google.ClientID, "GOOGLE_CLIENT_ID")
	setString(&cfg.Auth.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	setString(&cfg.Auth.Google.RedirectURL, "GOOGLE_REDIRECT_URL")
	setString(&cfg.Auth.Google.TokenEncryptionKey, "GOOGLE_TOKEN_ENCRYPTION_KEY")
	setString(&cfg.Auth.Google.PostLoginRedirectURL, "GOOGLE_POST_LOGIN_REDIRECT_URL")

	setString(&cfg.Postgres.DSN, "POSTGRES_DSN")
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	setBool(&cfg.Postgres.SeedCatalog, "POSTGRES_SEED_CATALOG")

	setBool(&cfg.Valkey.Enabled, "VALKEY_ENABLED")
	setString(&cfg.Valkey.Addr, "VALKEY_ADDR")
	setString(&cfg.Valkey.Prefix, "VALKEY_PREFIX")

	setBool(&cfg.Storage.Enabled, "STORAGE_ENABLED")
	setString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	setString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")
	setString(&cfg.Storage.Bucket, "STORAGE_BUCKET")
	setString(&cfg.Storage.Region, "STORAGE_REGION")

	setString(&cfg.Capture.Driver, "CAPTURE_DRIVER")
	setString(&cfg.Capture.Device, "CAPTURE_DEVICE")
	setString(&cfg.Capture.InputFormat, "CAPTURE_INPUT_FORMAT")
	setInt(&cfg.Capture.Width, "CAPTURE_WIDTH")
	setInt(&cfg.Capture.Height, "CAPTURE_HEIGHT")
	setString(&cfg.Capture.StillPath, "CAPTURE_STILL_PATH")
	setDuration(&cfg.Capture.SettleDelay, "CAPTURE_SETTLE_DELAY")

	setBool(&cfg.Analysis.FallbackToDemo, "ANALYSIS_FALLBACK_TO_DEMO")
	if v := os.Getenv("ANALYSIS_MAX_UPLOAD_BYTES"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Analysis.MaxUploadBytes = parsed
		}
	}
	setInt(&cfg.Analysis.MaxFramePixels, "ANALYSIS_MAX_FRAME_PIXELS")

	setString(&cfg.Activity.Queue, "ACTIVITY_QUEUE")
	setString(&cfg.Activity.QueueKey, "ACTIVITY_QUEUE_KEY")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":8080",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/skin-tone/capture",
					"/api/v1/skin-tone/analyze",
				},
			},
		},
		Auth: AuthConfig{
			Secret:          "dev-secret-change-me",
			TokenTTL:        time.Hour,
			RefreshTokenTTL: 30 * 24 * time.Hour,
		},
		Postgres: PostgresConfig{
			MaxConns:    4,
			SeedCatalog: true,
		},
		Valkey: ValkeyConfig{
			Prefix: "arshop",
		},
		Storage: StorageConfig{
			Bucket: "ar-shop-snapshots",
			Region: "auto",
		},
		Capture: CaptureConfig{
			Driver:           DriverNone,
			InputFormat:      "v4l2",
			ProgressInterval: 200 * time.Millisecond,
			ProgressStep:     10,
			ProgressCap:      90,
			SettleDelay:      2 * time.Second,
			FrameRetries:     3,
		},
		Analysis: AnalysisConfig{
			FallbackToDemo: true,
			MaxUploadBytes: 8 << 20,
			MaxFramePixels: 4096 * 4096,
			SnapshotPrefix: "snapshots",
		},
		Activity: ActivityConfig{
			Queue: QueueImmediate,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret cannot be empty")
	}
	if c.Auth.TokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return errors.New("auth token ttls must be positive")
	}
	if key := c.Auth.Google.TokenEncryptionKey; key != "" {
		switch len(key) {
		case 16, 24, 32:
		default:
			return errors.New("auth.google.tokenEncryptionKey must be 16, 24, or 32 bytes")
		}
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when valkey is enabled")
	}
	if c.Storage.Enabled {
		if strings.TrimSpace(c.Storage.Endpoint) == "" || strings.TrimSpace(c.Storage.Bucket) == "" {
			return errors.New("storage.endpoint and storage.bucket are required when storage is enabled")
		}
	}
	switch c.Capture.Driver {
	case DriverNone:
	case DriverFFmpeg:
		if strings.TrimSpace(c.Capture.Device) == "" {
			return errors.New("capture.device is required for the ffmpeg driver")
		}
	case DriverStill:
		if strings.TrimSpace(c.Capture.StillPath) == "" {
			return errors.New("capture.stillPath is required for the still driver")
		}
	default:
		return fmt.Errorf("capture.driver %q is not supported", c.Capture.Driver)
	}
	if c.Capture.SettleDelay < 0 {
		return errors.New("capture.settleDelay cannot be negative")
	}
	if c.Analysis.MaxUploadBytes <= 0 {
		return errors.New("analysis.maxUploadBytes must be positive")
	}
	if c.Analysis.MaxFramePixels <= 0 {
		return errors.New("analysis.maxFramePixels must be positive")
	}
	switch c.Activity.Queue {
	case QueueImmediate:
	case QueueValkey:
		if !c.Valkey.Enabled {
			return errors.New("activity.queue valkey requires valkey.enabled")
		}
	default:
		return fmt.Errorf("activity.queue %q is not supported", c.Activity.Queue)
	}
	return nil
}
