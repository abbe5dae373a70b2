package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" envconfig:"SERVER_PORT"`
		Mode string `yaml:"mode" envconfig:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" envconfig:"DB_HOST"`
		Port            string `yaml:"port" envconfig:"DB_PORT"`
		User            string `yaml:"user" envconfig:"DB_USER"`
		Password        string `yaml:"password" envconfig:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" envconfig:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" envconfig:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" envconfig:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" envconfig:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" envconfig:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" envconfig:"JWT_ACCESS_TOKEN_EXPIRATION"`
		AdminTokenExpiration  string `yaml:"admin_token_expiration" envconfig:"JWT_ADMIN_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" envconfig:"JWT_ISSUER"`
	} `yaml:"jwt"`

	// Admin holds the fixed credential allow-list for the moderation console.
	// Two slots, matching the deployment this replaces.
	Admin struct {
		Admin1Username string `yaml:"admin1_username" envconfig:"ADMIN1_USERNAME"`
		Admin1Password string `yaml:"admin1_password" envconfig:"ADMIN1_PASSWORD"`
		Admin2Username string `yaml:"admin2_username" envconfig:"ADMIN2_USERNAME"`
		Admin2Password string `yaml:"admin2_password" envconfig:"ADMIN2_PASSWORD"`
	} `yaml:"admin"`

	Storage struct {
		Endpoint  string `yaml:"endpoint" envconfig:"S3_ENDPOINT"`
		Region    string `yaml:"region" envconfig:"S3_REGION"`
		AccessKey string `yaml:"access_key" envconfig:"S3_ACCESS_KEY"`
		SecretKey string `yaml:"secret_key" envconfig:"S3_SECRET_KEY"`
		Bucket    string `yaml:"bucket" envconfig:"S3_BUCKET"`
	} `yaml:"storage"`

	Jobs struct {
		OrphanSweepSchedule string `yaml:"orphan_sweep_schedule" envconfig:"ORPHAN_SWEEP_SCHEDULE"`
	} `yaml:"jobs"`

	Logging struct {
		Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
		Format string `yaml:"format" envconfig:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// AdminCredential is one entry of the admin allow-list
type AdminCredential struct {
	Username string
	Password string
}

// AdminCredentials returns the configured, non-empty allow-list entries
func (c *Config) AdminCredentials() []AdminCredential {
	var creds []AdminCredential
	if c.Admin.Admin1Username != "" && c.Admin.Admin1Password != "" {
		creds = append(creds, AdminCredential{c.Admin.Admin1Username, c.Admin.Admin1Password})
	}
	if c.Admin.Admin2Username != "" && c.Admin.Admin2Password != "" {
		creds = append(creds, AdminCredential{c.Admin.Admin2Username, c.Admin.Admin2Password})
	}
	return creds
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// .env is a development convenience, ignore when absent
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

	// Read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Environment variables override file values
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "qpshare"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "1h"
	config.JWT.AdminTokenExpiration = "8h"
	config.JWT.Issuer = "qpshare.app"

	config.Storage.Region = "us-east-1"
	config.Storage.Bucket = "question-papers"

	config.Jobs.OrphanSweepSchedule = "0 3 * * *"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if len(config.AdminCredentials()) == 0 {
		return fmt.Errorf("at least one admin credential is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.JWT.AdminTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT admin token expiration format: %w", err)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
