package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	// Set some test environment variables
	if err := os.Setenv("SERVER_PORT", "9090"); err != nil {
		t.Fatalf("Failed to set SERVER_PORT: %v", err)
	}
	if err := os.Setenv("POSTGRES_HOST", "testhost"); err != nil {
		t.Fatalf("Failed to set POSTGRES_HOST: %v", err)
	}
	if err := os.Setenv("FEEDS_SCORE_POLL_INTERVAL", "3s"); err != nil {
		t.Fatalf("Failed to set FEEDS_SCORE_POLL_INTERVAL: %v", err)
	}
	defer func() {
		_ = os.Unsetenv("SERVER_PORT")
		_ = os.Unsetenv("POSTGRES_HOST")
		_ = os.Unsetenv("FEEDS_SCORE_POLL_INTERVAL")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %v, want %v", cfg.Server.Port, "9090")
	}

	if cfg.Database.Postgres.Host != "testhost" {
		t.Errorf("Database.Postgres.Host = %v, want %v", cfg.Database.Postgres.Host, "testhost")
	}

	if cfg.Feeds.ScorePollInterval != 3*time.Second {
		t.Errorf("Feeds.ScorePollInterval = %v, want %v", cfg.Feeds.ScorePollInterval, 3*time.Second)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Feeds.OddsPollInterval != 20*time.Second {
		t.Errorf("Feeds.OddsPollInterval = %v, want %v", cfg.Feeds.OddsPollInterval, 20*time.Second)
	}
	if cfg.Engine.MaxMilestones != 5 {
		t.Errorf("Engine.MaxMilestones = %v, want 5", cfg.Engine.MaxMilestones)
	}
	if cfg.Engine.DefaultStake != 10 {
		t.Errorf("Engine.DefaultStake = %v, want 10", cfg.Engine.DefaultStake)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue int
		want         int
	}{
		{name: "valid integer", envValue: "42", defaultValue: 7, want: 42},
		{name: "invalid integer falls back to default", envValue: "abc", defaultValue: 7, want: 7},
		{name: "unset falls back to default", envValue: "", defaultValue: 7, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_INT_KEY"
			if tt.envValue != "" {
				if err := os.Setenv(key, tt.envValue); err != nil {
					t.Fatalf("Failed to set env: %v", err)
				}
				defer func() { _ = os.Unsetenv(key) }()
			}

			if got := getEnvAsInt(key, tt.defaultValue); got != tt.want {
				t.Errorf("getEnvAsInt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	key := "TEST_DURATION_KEY"
	if err := os.Setenv(key, "90s"); err != nil {
		t.Fatalf("Failed to set env: %v", err)
	}
	defer func() { _ = os.Unsetenv(key) }()

	if got := getEnvAsDuration(key, time.Second); got != 90*time.Second {
		t.Errorf("getEnvAsDuration() = %v, want %v", got, 90*time.Second)
	}

	if got := getEnvAsDuration("TEST_DURATION_UNSET", time.Second); got != time.Second {
		t.Errorf("getEnvAsDuration() default = %v, want %v", got, time.Second)
	}
}
