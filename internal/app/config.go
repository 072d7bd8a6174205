package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (AMBU_ prefix), flags, or YAML config files.
type Config struct {
	Addr              string        `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL       string        `usage:"PostgreSQL connection URL (AMBU_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	BlobDir           string        `default:"./data/blobs" usage:"Directory for stored files (invoices, images, price list)" flag:"blob-dir"`
	FileSigningSecret string        `usage:"HMAC secret for signed file URLs" flag:"file-signing-secret"`
	AuthSecret        string        `usage:"HMAC secret for bearer tokens" flag:"auth-secret"`
	AdminEmail        string        `default:"" usage:"Address that receives order and enquiry notifications" flag:"admin-email"`
	Brand             string        `default:"AmbuCrackers" usage:"Brand name used on invoices and emails"`
	Currency          string        `default:"Rs." usage:"Currency prefix used on invoices and emails"`
	PriceListKey      string        `default:"price-list.pdf" usage:"Blob key of the downloadable price list" flag:"price-list-key"`
	NotifyTimeout     time.Duration `default:"10s" usage:"Deadline for post-checkout email delivery" flag:"notify-timeout"`
	SMTP              SMTPConfig
	RateLimit         RateLimitConfig
	CORS              CORSConfig
	Graceful          GracefulConfig
}

// SMTPConfig controls outgoing mail. An empty Host disables email delivery.
type SMTPConfig struct {
	Host     string `default:"" usage:"SMTP server host (empty disables email)"`
	Port     int    `default:"587" usage:"SMTP server port"`
	Username string `default:"" usage:"SMTP username"`
	Password string `default:"" usage:"SMTP password"`
	From     string `default:"" usage:"From address for outgoing mail"`
}

// RateLimitConfig controls the per-client rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins []string `default:"*" usage:"Allowed CORS origins"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and platform-provided defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "AMBU",
		Files:     []string{"config.yaml", "/etc/ambucrackers/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	switch {
	case cfg.DatabaseURL == "":
		return nil, errors.New("database URL is required: set AMBU_DATABASE_URL or DATABASE_URL")
	case cfg.AuthSecret == "":
		return nil, errors.New("auth secret is required: set AMBU_AUTH_SECRET")
	case cfg.FileSigningSecret == "":
		return nil, errors.New("file signing secret is required: set AMBU_FILE_SIGNING_SECRET")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL and PORT
// to the application's AMBU_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
