// Package config loads the service configuration. Values come from an
// optional YAML file (CONFIG_FILE) overlaid by environment variables and are
// validated before use.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env      string         `yaml:"env" validate:"oneof=development staging production test"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Sheets   SheetsConfig   `yaml:"sheets"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	Notifx   NotifxConfig   `yaml:"notifx"`
	Jobx     JobxConfig     `yaml:"jobx"`
}

type ServerConfig struct {
	Port        int      `yaml:"port" validate:"min=1,max=65535"`
	CORSOrigins []string `yaml:"cors_origins"`
	// PortalURL is the public address linked from outbound messages
	PortalURL       string        `yaml:"portal_url" validate:"omitempty,url"`
	BodyLimit       int           `yaml:"body_limit" validate:"min=1"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Debug           bool          `yaml:"debug"`
	Version         string        `yaml:"version"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host" validate:"required"`
	Port            int           `yaml:"port" validate:"min=1,max=65535"`
	User            string        `yaml:"user" validate:"required"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name" validate:"required"`
	SSLMode         string        `yaml:"ssl_mode" validate:"oneof=disable require verify-ca verify-full"`
	MaxOpenConns    int           `yaml:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int           `yaml:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
}

// DSN returns the lib/pq connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"min=1,max=65535"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"min=0"`
}

func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret" validate:"required,min=16"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`
	Issuer         string        `yaml:"issuer" validate:"required"`
	BcryptCost     int           `yaml:"bcrypt_cost" validate:"min=4,max=31"`
}

// Defaults returns a configuration suitable for local development
func Defaults() *Config {
	return &Config{
		Env: "development",
		Server: ServerConfig{
			Port:            8080,
			CORSOrigins:     []string{"*"},
			PortalURL:       "http://localhost:5173",
			BodyLimit:       12 * 1024 * 1024,
			ShutdownTimeout: 30 * time.Second,
			Version:         "1.0.0",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Name:            "nccerp",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			AutoMigrate:     true,
		},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		Auth: AuthConfig{
			AccessTokenTTL: 12 * time.Hour,
			Issuer:         "nccerp",
			BcryptCost:     12,
		},
		Storage: defaultStorageConfig(),
		Sheets:  defaultSheetsConfig(),
		Notifx:  defaultNotifxConfig(),
		Jobx:    defaultJobxConfig(),
	}
}

// Load builds the configuration from defaults, CONFIG_FILE and the environment
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads a YAML file over the defaults without reading the environment
func LoadFromPath(path string) (*Config, error) {
	cfg := Defaults()
	if err := cfg.overlayFile(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Env = getEnv("APP_ENV", c.Env)

	c.Server.Port = getEnvInt("PORT", c.Server.Port)
	c.Server.CORSOrigins = getEnvStringSlice("CORS_ORIGINS", c.Server.CORSOrigins)
	c.Server.PortalURL = getEnv("PORTAL_URL", c.Server.PortalURL)
	c.Server.BodyLimit = getEnvInt("SERVER_BODY_LIMIT", c.Server.BodyLimit)
	c.Server.ShutdownTimeout = getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.Debug = getEnvBool("DEBUG", c.Server.Debug)
	c.Server.Version = getEnv("APP_VERSION", c.Server.Version)

	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvInt("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.ConnMaxLifetime = getEnvDuration("DB_CONN_MAX_LIFETIME", c.Database.ConnMaxLifetime)
	c.Database.AutoMigrate = getEnvBool("DB_AUTO_MIGRATE", c.Database.AutoMigrate)

	c.Redis.Host = getEnv("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = getEnvInt("REDIS_PORT", c.Redis.Port)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.AccessTokenTTL = getEnvDuration("JWT_ACCESS_TOKEN_TTL", c.Auth.AccessTokenTTL)
	c.Auth.Issuer = getEnv("JWT_ISSUER", c.Auth.Issuer)
	c.Auth.BcryptCost = getEnvInt("BCRYPT_COST", c.Auth.BcryptCost)

	c.Storage.applyEnv()
	c.Sheets.applyEnv()
	c.Twilio.applyEnv()
	c.Notifx.applyEnv()
	c.Jobx.applyEnv()
}

var validate = validator.New()

// Validate checks struct rules and the cross-section requirements
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if c.Notifx.WhatsAppProvider == "twilio" {
		if missing := c.Twilio.Missing(); len(missing) > 0 {
			return fmt.Errorf("config validation failed: twilio provider selected but %s not set", strings.Join(missing, ", "))
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
