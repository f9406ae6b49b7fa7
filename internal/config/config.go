package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	JWT        JWTConfig        `yaml:"jwt"`
	Admin      AdminConfig      `yaml:"admin"`
	Storage    StorageConfig    `yaml:"storage"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Slack      SlackConfig      `yaml:"slack"`
	Dock       DockConfig       `yaml:"dock"`
	Cron       CronConfig       `yaml:"cron"`
	Revalidate RevalidateConfig `yaml:"revalidate"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
	// BaseDomain is the apex the portal is served under; tenant subdomains
	// are the single label in front of it. Empty disables tenant resolution.
	BaseDomain string `yaml:"base_domain"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
}

type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Email    string `yaml:"email"`
}

type StorageConfig struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	KeyPrefix       string `yaml:"key_prefix"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type SlackConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

type DockConfig struct {
	BaseURL  string `yaml:"base_url"`
	APIToken string `yaml:"api_token"`
}

// CronConfig holds the schedules for the in-process triggers. The same
// operations are exposed as HTTP endpoints for external cron services;
// deployments pick one of the two.
type CronConfig struct {
	Enabled          bool   `yaml:"enabled"`
	ReportSchedule   string `yaml:"report_schedule"`
	ReportExecution  string `yaml:"report_execution"`
	DockMerchants    string `yaml:"dock_merchants"`
	DockTransactions string `yaml:"dock_transactions"`
	DockSettlements  string `yaml:"dock_settlements"`
}

type RevalidateConfig struct {
	Secret string `yaml:"secret"`
}

type RateLimitConfig struct {
	RPS   int `yaml:"rps"`
	Burst int `yaml:"burst"`
}

var AppConfig *Config

func Load(path string) (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: 8989,
			Host: "0.0.0.0",
		},
		Database: DatabaseConfig{
			Path: "./data/portal.db",
		},
		JWT: JWTConfig{
			Secret: "change-this-secret-in-production",
			Expiry: 24 * time.Hour,
		},
		Admin: AdminConfig{
			Username: "admin",
			Password: "admin123",
			Email:    "admin@localhost",
		},
		Storage: StorageConfig{
			Region:    "us-east-1",
			KeyPrefix: "reports/",
		},
		SMTP: SMTPConfig{
			Port: 587,
			From: "Portal <no-reply@localhost>",
		},
		Cron: CronConfig{
			Enabled:          true,
			ReportSchedule:   "0 21 * * *",
			ReportExecution:  "*/10 * * * *",
			DockMerchants:    "0 */6 * * *",
			DockTransactions: "*/30 * * * *",
			DockSettlements:  "0 5 * * *",
		},
		RateLimit: RateLimitConfig{
			RPS:   5,
			Burst: 10,
		},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(config)
			AppConfig = config
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	applyEnv(config)
	AppConfig = config
	return config, nil
}

func applyEnv(config *Config) {
	if port := os.Getenv("PORTAL_PORT"); port != "" {
		var p int
		if _, err := fmt.Sscanf(port, "%d", &p); err == nil {
			config.Server.Port = p
		}
	}
	if domain := os.Getenv("PORTAL_BASE_DOMAIN"); domain != "" {
		config.Server.BaseDomain = domain
	}
	if secret := os.Getenv("PORTAL_JWT_SECRET"); secret != "" {
		config.JWT.Secret = secret
	}
	if secret := os.Getenv("PORTAL_REVALIDATE_SECRET"); secret != "" {
		config.Revalidate.Secret = secret
	}
	if key := os.Getenv("PORTAL_S3_ACCESS_KEY_ID"); key != "" {
		config.Storage.AccessKeyID = key
	}
	if key := os.Getenv("PORTAL_S3_SECRET_ACCESS_KEY"); key != "" {
		config.Storage.SecretAccessKey = key
	}
	if pass := os.Getenv("PORTAL_SMTP_PASSWORD"); pass != "" {
		config.SMTP.Password = pass
	}
	if token := os.Getenv("PORTAL_SLACK_TOKEN"); token != "" {
		config.Slack.Token = token
	}
	if token := os.Getenv("PORTAL_DOCK_API_TOKEN"); token != "" {
		config.Dock.APIToken = token
	}
}
