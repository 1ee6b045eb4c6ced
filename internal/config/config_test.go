package config

import (
	"os"
	"reflect"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfig_DefaultsApplied(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "DATABASE_URL", "postgres://localhost:5432/dpa")
	setEnvWithCleanup(t, "JWT_SECRET", "test-secret")
	unsetEnvWithCleanup(t, "SERVER_PORT")
	unsetEnvWithCleanup(t, "PORT")
	unsetEnvWithCleanup(t, "JWT_EXPIRY_MINUTES")
	unsetEnvWithCleanup(t, "EVENT_EXCHANGE")
	unsetEnvWithCleanup(t, "LOGIN_RATE_LIMIT_PER_MINUTE")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "8000" {
		t.Fatalf("expected default server port 8000, got %q", cfg.ServerPort)
	}
	if cfg.JWTExpiryMinutes != 1440 {
		t.Fatalf("expected default JWT expiry 1440, got %d", cfg.JWTExpiryMinutes)
	}
	if cfg.EventExchange != "dpa_events" {
		t.Fatalf("expected default exchange dpa_events, got %q", cfg.EventExchange)
	}
	if cfg.LoginRateLimitPerMinute != 10 {
		t.Fatalf("expected default login rate limit 10, got %d", cfg.LoginRateLimitPerMinute)
	}
}

func TestLoadConfig_RequiresDatabaseURL(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	unsetEnvWithCleanup(t, "DATABASE_URL")
	setEnvWithCleanup(t, "JWT_SECRET", "test-secret")

	if _, err := LoadConfig(t.TempDir()); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "DATABASE_URL", "postgres://localhost:5432/dpa")
	unsetEnvWithCleanup(t, "JWT_SECRET")

	if _, err := LoadConfig(t.TempDir()); err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}
}

func TestLoadConfig_PortEnvOverridesServerPort(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "DATABASE_URL", "postgres://localhost:5432/dpa")
	setEnvWithCleanup(t, "JWT_SECRET", "test-secret")
	setEnvWithCleanup(t, "SERVER_PORT", "8000")
	setEnvWithCleanup(t, "PORT", "9090")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "9090" {
		t.Fatalf("expected PORT to win, got %q", cfg.ServerPort)
	}
}

func TestCORSOriginList(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"", []string{"*"}},
		{"  ", []string{"*"}},
		{"http://localhost:3000", []string{"http://localhost:3000"}},
		{"http://localhost:3000, https://app.example.com ,", []string{"http://localhost:3000", "https://app.example.com"}},
	}
	for _, tc := range cases {
		cfg := Config{CORSOrigins: tc.raw}
		if got := cfg.CORSOriginList(); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%q: expected %v, got %v", tc.raw, tc.want, got)
		}
	}
}

func setEnvWithCleanup(t *testing.T, key string, value string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}

func unsetEnvWithCleanup(t *testing.T, key string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}
