package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Job approval modes
const (
	JobApprovalAuto  = "auto"
	JobApprovalGated = "gated"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string        `yaml:"port" env:"SERVER_PORT"`
		Mode            string        `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
		// TrustedProxies lists the proxy addresses whose forwarded headers set the client IP
		TrustedProxies []string `yaml:"trusted_proxies" env:"SERVER_TRUSTED_PROXIES"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	Mongo struct {
		URI      string        `yaml:"uri" env:"MONGO_URI"`
		Database string        `yaml:"database" env:"MONGO_DATABASE"`
		Timeout  time.Duration `yaml:"timeout" env:"MONGO_TIMEOUT"`
	} `yaml:"mongo"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Portal struct {
		AllowedEmailDomain     string `yaml:"allowed_email_domain" env:"PORTAL_ALLOWED_EMAIL_DOMAIN"`
		MeetingURLBase         string `yaml:"meeting_url_base" env:"PORTAL_MEETING_URL_BASE"`
		DefaultMeetingDuration int    `yaml:"default_meeting_duration" env:"PORTAL_DEFAULT_MEETING_DURATION"`
		DefaultMaxParticipants int    `yaml:"default_max_participants" env:"PORTAL_DEFAULT_MAX_PARTICIPANTS"`
	} `yaml:"portal"`

	Jobs struct {
		ApprovalMode string `yaml:"approval_mode" env:"JOBS_APPROVAL_MODE"`
	} `yaml:"jobs"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		PortalURL string `yaml:"portal_url" env:"SMTP_PORTAL_URL"`
	} `yaml:"smtp"`

	Seed struct {
		Enabled       bool   `yaml:"enabled" env:"SEED_ENABLED"`
		AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
		SampleData    bool   `yaml:"sample_data" env:"SEED_SAMPLE_DATA"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// A missing file is fine, defaults and env still apply
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	normalize(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = 10 * time.Second
	config.Server.WriteTimeout = 10 * time.Second
	config.Server.ShutdownTimeout = 10 * time.Second

	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "alumniconnect"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.Mongo.URI = "mongodb://localhost:27017"
	config.Mongo.Database = "alumni_connect"
	config.Mongo.Timeout = 10 * time.Second

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "alumniconnect"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Portal.AllowedEmailDomain = "svce.ac.in"
	config.Portal.MeetingURLBase = "https://meet.google.com"
	config.Portal.DefaultMeetingDuration = 60
	config.Portal.DefaultMaxParticipants = 50

	config.Jobs.ApprovalMode = JobApprovalAuto

	config.SMTP.Port = 587
	config.SMTP.FromName = "SVCE Alumni Connect"
	config.SMTP.PortalURL = "http://localhost:3000"

	config.Seed.Enabled = true
	config.Seed.AdminEmail = "admin@svce.ac.in"
	config.Seed.AdminPassword = "Admin123!"
}

// normalize lower-cases enumerated settings and strips decorations users tend to add
func normalize(config *Config) {
	config.Database.Driver = strings.ToLower(strings.TrimSpace(config.Database.Driver))
	config.Jobs.ApprovalMode = strings.ToLower(strings.TrimSpace(config.Jobs.ApprovalMode))
	config.Portal.AllowedEmailDomain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(config.Portal.AllowedEmailDomain)), "@")
	config.Portal.MeetingURLBase = strings.TrimRight(config.Portal.MeetingURLBase, "/")
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if config.Mongo.URI == "" {
			return fmt.Errorf("mongo uri is required")
		}
		if config.Mongo.Database == "" {
			return fmt.Errorf("mongo database is required")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid database connection max lifetime: %w", err)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	switch config.Jobs.ApprovalMode {
	case JobApprovalAuto, JobApprovalGated:
	default:
		return fmt.Errorf("jobs approval mode must be %q or %q, got %q", JobApprovalAuto, JobApprovalGated, config.Jobs.ApprovalMode)
	}

	if config.Portal.DefaultMeetingDuration < 1 {
		return fmt.Errorf("default meeting duration must be at least 1 minute")
	}
	if config.Portal.DefaultMaxParticipants < 1 {
		return fmt.Errorf("default max participants must be at least 1")
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

// JobsGated reports whether new job postings wait for admin approval
func (c *Config) JobsGated() bool {
	return c.Jobs.ApprovalMode == JobApprovalGated
}
