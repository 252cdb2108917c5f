package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all athletefolio configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Media    MediaConfig    `yaml:"media"`
	Uploads  UploadsConfig  `yaml:"uploads"`
	Mail     MailConfig     `yaml:"mail"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"` // Whole multipart request
	StaticDir      string   `yaml:"static_dir"`       // Built frontend, optional
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// MediaConfig configures the disk object store.
type MediaConfig struct {
	Dir     string `yaml:"dir"`
	BaseURL string `yaml:"base_url"` // Path the server mounts Dir under, e.g. /media
}

// UploadsConfig configures the upload orchestrator.
type UploadsConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// MailConfig configures outbound email. Disabled mail is logged instead.
type MailConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			AllowedOrigins: []string{"http://localhost:*"},
			MaxUploadBytes: 32 << 20,
		},
		Database: DatabaseConfig{Path: "./athletefolio.db"},
		Media:    MediaConfig{Dir: "./media", BaseURL: "/media"},
		Uploads:  UploadsConfig{Concurrency: 4},
		Mail:     MailConfig{Port: 587},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// Load reads configuration from a YAML file, falling back to defaults when
// the file does not exist. Environment variables override both.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies ATHLETEFOLIO_* environment variables.
func (c *Config) applyEnvOverrides() error {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	str("ATHLETEFOLIO_PORT", &c.Server.Port)
	str("ATHLETEFOLIO_DB_PATH", &c.Database.Path)
	str("ATHLETEFOLIO_MEDIA_DIR", &c.Media.Dir)
	str("ATHLETEFOLIO_MEDIA_URL", &c.Media.BaseURL)
	str("ATHLETEFOLIO_LOG_LEVEL", &c.Logging.Level)
	str("ATHLETEFOLIO_SMTP_HOST", &c.Mail.Host)
	str("ATHLETEFOLIO_SMTP_USERNAME", &c.Mail.Username)
	str("ATHLETEFOLIO_SMTP_PASSWORD", &c.Mail.Password)
	str("ATHLETEFOLIO_SMTP_FROM", &c.Mail.From)

	if v := os.Getenv("ATHLETEFOLIO_SMTP_TO"); v != "" {
		c.Mail.To = splitList(v)
	}
	if v := os.Getenv("ATHLETEFOLIO_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("ATHLETEFOLIO_SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ATHLETEFOLIO_SMTP_PORT: %w", err)
		}
		c.Mail.Port = port
	}
	if v := os.Getenv("ATHLETEFOLIO_MAIL_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ATHLETEFOLIO_MAIL_ENABLED: %w", err)
		}
		c.Mail.Enabled = enabled
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Media.Dir == "" {
		return fmt.Errorf("media.dir is required")
	}
	if !strings.HasPrefix(c.Media.BaseURL, "/") || strings.ContainsAny(c.Media.BaseURL, "{}*") {
		return fmt.Errorf("media.base_url %q must be a path starting with / that the server mounts", c.Media.BaseURL)
	}
	if c.Uploads.Concurrency < 1 {
		return fmt.Errorf("uploads.concurrency must be at least 1")
	}
	if c.Mail.Enabled {
		if c.Mail.Host == "" || c.Mail.From == "" || len(c.Mail.To) == 0 {
			return fmt.Errorf("mail.host, mail.from and mail.to are required when mail is enabled")
		}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}
