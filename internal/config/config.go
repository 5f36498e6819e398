package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DB      DBConfig      `envPrefix:"DB_"`
	Server  ServerConfig  `envPrefix:"SERVER_"`
	Log     LogConfig     `envPrefix:"LOG_"`
	Storage StorageConfig `envPrefix:"STORAGE_"`
	Draw    DrawConfig    `envPrefix:"DRAW_"`
	Reports ReportsConfig `envPrefix:"REPORTS_"`
	Auth    AuthConfig    `envPrefix:"AUTH_"`
	CORS    CORSConfig    `envPrefix:"CORS_"`
}

type DBConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"amigo"`
	Password string `env:"PASSWORD" envDefault:"amigo_password"`
	Name     string `env:"NAME" envDefault:"amigo_secreto_db"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

type ServerConfig struct {
	Port        string `env:"PORT" envDefault:"8080"`
	GinMode     string `env:"GIN_MODE" envDefault:"debug"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	// PublicURL es la base de los links personales
	PublicURL string `env:"PUBLIC_URL" envDefault:"http://localhost:3000"`
}

type LogConfig struct {
	Level string `env:"LEVEL" envDefault:"info"`
}

type StorageConfig struct {
	// Driver es postgres o memory
	Driver  string        `env:"DRIVER" envDefault:"postgres"`
	IdleTTL time.Duration `env:"IDLE_TTL" envDefault:"24h"`
}

type DrawConfig struct {
	MaxAttempts        int     `env:"MAX_ATTEMPTS" envDefault:"1000"`
	ProbeAttempts      int     `env:"PROBE_ATTEMPTS" envDefault:"100"`
	MultiCycleAttempts int     `env:"MULTI_CYCLE_ATTEMPTS" envDefault:"1000"`
	AllowRelaxed       bool    `env:"ALLOW_RELAXED" envDefault:"true"`
	AllowPartial       bool    `env:"ALLOW_PARTIAL" envDefault:"false"`
	MinCoverage        float64 `env:"MIN_COVERAGE" envDefault:"0.8"`
}

// ReportsConfig configura el bucket de MinIO donde se exportan los reportes
type ReportsConfig struct {
	Enabled    bool          `env:"ENABLED" envDefault:"false"`
	Endpoint   string        `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey  string        `env:"ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey  string        `env:"SECRET_KEY" envDefault:"minioadmin"`
	Bucket     string        `env:"BUCKET" envDefault:"amigo-secreto-reports"`
	UseSSL     bool          `env:"USE_SSL" envDefault:"false"`
	PresignTTL time.Duration `env:"PRESIGN_TTL" envDefault:"1h"`
}

type AuthConfig struct {
	Secret   string        `env:"JWT_SECRET" envDefault:"change-me"`
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"720h"`
}

type CORSConfig struct {
	AllowOrigins []string `env:"ALLOW_ORIGINS" envDefault:"*" envSeparator:","`
	AllowMethods []string `env:"ALLOW_METHODS" envDefault:"GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS" envSeparator:","`
	AllowHeaders []string `env:"ALLOW_HEADERS" envDefault:"Origin,Content-Length,Content-Type,Authorization" envSeparator:","`
}

// Load loads configuration from .env and environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the application cannot run with
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported storage driver %q (use postgres or memory)", c.Storage.Driver)
	}

	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported SERVER_GIN_MODE %q (use debug, release or test)", c.Server.GinMode)
	}

	if c.Draw.MinCoverage <= 0 || c.Draw.MinCoverage > 1 {
		return fmt.Errorf("DRAW_MIN_COVERAGE must be in (0, 1], got %v", c.Draw.MinCoverage)
	}

	if strings.TrimSpace(c.Auth.Secret) == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}

	return nil
}

// IsProduction reports whether the server runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// GetDSN returns the key/value DSN gorm's postgres driver expects
func (c *Config) GetDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DB.Host, c.DB.User, c.DB.Password, c.DB.Name, c.DB.Port, c.DB.SSLMode)
}
