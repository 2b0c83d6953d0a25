package config

import (
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const devJWTSecret = "supersecretjwtkey"

type Config struct {
	Port      string `env:"PORT" envDefault:"43034"`
	Env       string `env:"ENV" envDefault:"development"`
	DataDir   string `env:"DATA_DIR" envDefault:"./data"`
	StaticDir string `env:"STATIC_DIR" envDefault:"./static"`

	JWTSecret     string        `env:"JWT_SECRET" envDefault:"supersecretjwtkey"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"72h"`
	CookieSecure  bool          `env:"COOKIE_SECURE" envDefault:"false"`
	MaxUploadSize string        `env:"MAX_UPLOAD_SIZE" envDefault:"100M"`
	RateLimit     float64       `env:"RATE_LIMIT" envDefault:"5"` // mutating requests per second per client, 0 disables

	MediaBackend   string `env:"MEDIA_BACKEND" envDefault:"local"` // local or minio
	MinioEndpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"nanotube"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	MinioPublicURL string `env:"MINIO_PUBLIC_URL"`

	GeoIPDBPath      string   `env:"GEOIP_DB_PATH" envDefault:"static/ui/GeoLite2-Country.mmdb"`
	BlockedIPs       []string `env:"BLOCKED_IPS" envSeparator:","`
	BlockedCountries []string `env:"BLOCKED_COUNTRIES" envSeparator:","`
	BlockedAccounts  []string `env:"BLOCKED_ACCOUNTS" envSeparator:","`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE" envDefault:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"7"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE" envDefault:"7"`
}

// Load reads .env (if present) and the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, assuming environment variables are set.")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UsesDefaultSecret reports whether sessions are signed with the development key
func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecret == devJWTSecret
}
