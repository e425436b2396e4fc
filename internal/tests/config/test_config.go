package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/you/coursegate/internal/config"
)

// LoadTestConfig writes a development config file for the E2E suite and loads it
// through the regular loader, so defaults and validation are the production ones.
// mutate may adjust the file before it is written.
func LoadTestConfig(t *testing.T, mutate func(f *config.ConfigFile)) *config.Config {
	t.Helper()

	f := config.ConfigFile{
		App: config.AppConfig{
			Env:      "development",
			GinMode:  "test",
			LogLevel: "error",
			BaseURL:  "http://school.test",
		},
		Database: config.DatabaseConfig{DSN: "file::memory:"},
		JWT: config.JWTConfig{
			Secret:     "e2e-secret-that-is-at-least-32-bytes-long",
			Issuer:     "coursegate-e2e",
			SessionTTL: "1h",
		},
		Enrollment: config.EnrollmentConfig{
			DefaultExpiryDays:  30,
			EligibilityTimeout: "2s",
			MinPasswordLength:  8,
		},
		Notify: config.NotifyConfig{AdminEmail: "admin@school.test"},
	}
	if mutate != nil {
		mutate(&f)
	}

	raw, err := yaml.Marshal(&f)
	if err != nil {
		t.Fatalf("Failed to encode test config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("Failed to load test configuration: %v", err)
	}
	return cfg
}
