package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config/config.yml"

type AppConfig struct {
	Env      string `yaml:"env"`
	Port     int    `yaml:"port"`
	GinMode  string `yaml:"gin_mode"`
	LogLevel string `yaml:"log_level"`
	BaseURL  string `yaml:"base_url"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	SessionTTL string `yaml:"session_ttl"`
}

type EnrollmentConfig struct {
	DefaultExpiryDays  int    `yaml:"default_expiry_days"`
	EligibilityTimeout string `yaml:"eligibility_timeout"`
	MinPasswordLength  int    `yaml:"min_password_length"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type ResendConfig struct {
	APIKey string `yaml:"api_key"`
	From   string `yaml:"from"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type NotifyConfig struct {
	AdminEmail string       `yaml:"admin_email"`
	AdminPhone string       `yaml:"admin_phone"`
	SMTP       SMTPConfig   `yaml:"smtp"`
	Resend     ResendConfig `yaml:"resend"`
	Twilio     TwilioConfig `yaml:"twilio"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	JWT        JWTConfig        `yaml:"jwt"`
	Enrollment EnrollmentConfig `yaml:"enrollment"`
	Notify     NotifyConfig     `yaml:"notify"`
	Casbin     CasbinConfig     `yaml:"casbin"`
}

type Config struct {
	Env      string
	Port     string
	GinMode  string
	LogLevel string
	BaseURL  string

	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	JWTIssuer  string
	SessionTTL time.Duration

	DefaultExpiryDays  int
	EligibilityTimeout time.Duration
	MinPasswordLength  int

	AdminEmail   string
	AdminPhone   string
	SMTP         SMTPConfig
	ResendAPIKey string
	ResendFrom   string
	TwilioSID    string
	TwilioToken  string
	TwilioFrom   string

	CasbinModelPath string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads the YAML config (COURSEGATE_CONFIG or config/config.yml),
// applies a .env file if present and lets environment variables override secrets.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFile(env("COURSEGATE_CONFIG", defaultConfigPath))
}

// LoadFile loads configuration from path plus environment overrides
func LoadFile(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	return build(configFile)
}

func build(f *ConfigFile) (*Config, error) {
	sessionTTL, err := parseDuration(f.JWT.SessionTTL, 7*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT session TTL: %w", err)
	}

	eligTimeout, err := parseDuration(f.Enrollment.EligibilityTimeout, 3*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid eligibility timeout: %w", err)
	}

	port := f.App.Port
	if port == 0 {
		port = 8080
	}
	if p := os.Getenv("PORT"); p != "" {
		if port, err = strconv.Atoi(p); err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
	}

	cfg := &Config{
		Env:      env("APP_ENV", orDefault(f.App.Env, "production")),
		Port:     strconv.Itoa(port),
		GinMode:  orDefault(f.App.GinMode, "release"),
		LogLevel: env("LOG_LEVEL", orDefault(f.App.LogLevel, "info")),
		BaseURL:  env("BASE_URL", f.App.BaseURL),

		DSN:           env("DATABASE_DSN", f.Database.DSN),
		RedisAddr:     env("REDIS_ADDR", f.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", f.Redis.Password),
		RedisDB:       f.Redis.DB,

		JWTSecret:  env("JWT_SECRET", f.JWT.Secret),
		JWTIssuer:  orDefault(f.JWT.Issuer, "coursegate"),
		SessionTTL: sessionTTL,

		DefaultExpiryDays:  orDefaultInt(f.Enrollment.DefaultExpiryDays, 365),
		EligibilityTimeout: eligTimeout,
		MinPasswordLength:  orDefaultInt(f.Enrollment.MinPasswordLength, 8),

		AdminEmail:   env("ADMIN_EMAIL", f.Notify.AdminEmail),
		AdminPhone:   env("ADMIN_PHONE", f.Notify.AdminPhone),
		SMTP:         f.Notify.SMTP,
		ResendAPIKey: env("RESEND_API_KEY", f.Notify.Resend.APIKey),
		ResendFrom:   f.Notify.Resend.From,
		TwilioSID:    env("TWILIO_ACCOUNT_SID", f.Notify.Twilio.AccountSID),
		TwilioToken:  env("TWILIO_AUTH_TOKEN", f.Notify.Twilio.AuthToken),
		TwilioFrom:   env("TWILIO_FROM_NUMBER", f.Notify.Twilio.FromNumber),

		CasbinModelPath: f.Casbin.ModelPath,
	}
	cfg.SMTP.Password = env("SMTP_PASSWORD", cfg.SMTP.Password)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks the settings the service cannot run without
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("jwt secret must be set")
	}
	if !c.IsDevelopment() && len(c.JWTSecret) < 32 {
		return errors.New("jwt secret must be at least 32 bytes outside development")
	}
	if c.DSN == "" {
		return errors.New("database dsn must be set")
	}
	if c.SessionTTL <= 0 {
		return errors.New("jwt session ttl must be positive")
	}
	if c.EligibilityTimeout <= 0 {
		return errors.New("eligibility timeout must be positive")
	}
	return nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
