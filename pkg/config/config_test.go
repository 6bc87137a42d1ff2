package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

// isolate runs the test in an empty directory so no stray .env or
// engines.yaml is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.CORSOrigin != "*" || cfg.ServiceName != "engines-api" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.RateLimitRPS != 50 || cfg.RateLimitBurst != 100 {
		t.Fatalf("unexpected rate limit %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.ContentDir != "" || cfg.NATSURL != "" {
		t.Fatalf("optional settings should be empty: %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("log level = %v", cfg.LogLevel)
	}
}

func TestEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("ENGINES_PORT", ":9090")
	t.Setenv("ENGINES_RATE_LIMIT_RPS", "2.5")
	t.Setenv("ENGINES_LOG_LEVEL", "debug")
	t.Setenv("ENGINES_NATS_URL", "nats://localhost:4222")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("rps = %v", cfg.RateLimitRPS)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("log level = %v", cfg.LogLevel)
	}
	if cfg.NATSURL != "nats://localhost:4222" || cfg.NATSSubject != "engines.lint.report" {
		t.Fatalf("nats = %q %q", cfg.NATSURL, cfg.NATSSubject)
	}
}

func TestDotEnvFile(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("ENGINES_SERVICE_NAME=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("ENGINES_SERVICE_NAME") })

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServiceName != "from-dotenv" {
		t.Fatalf("service name = %q", cfg.ServiceName)
	}
}

func TestConfigFile(t *testing.T) {
	dir := isolate(t)
	body := "cors_origin: https://engines.example.com\nrate_limit_burst: 7\n"
	if err := os.WriteFile(filepath.Join(dir, "engines.yaml"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENGINES_RATE_LIMIT_BURST", "9")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CORSOrigin != "https://engines.example.com" {
		t.Fatalf("cors origin = %q", cfg.CORSOrigin)
	}
	if cfg.RateLimitBurst != 9 {
		t.Fatalf("environment should win over file, burst = %d", cfg.RateLimitBurst)
	}
}

func TestExplicitConfigMissing(t *testing.T) {
	dir := isolate(t)
	t.Setenv("ENGINES_CONFIG", filepath.Join(dir, "nope.yaml"))
	if _, err := Load(nil); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestFlagsOverride(t *testing.T) {
	isolate(t)
	t.Setenv("ENGINES_CONTENT_DIR", "/from/env")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("content-dir", "", "")
	fs.String("nats-url", "", "")
	fs.Bool("verbose", false, "")
	if err := fs.Parse([]string{"--content-dir", "/from/flag"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ContentDir != "/from/flag" {
		t.Fatalf("content dir = %q", cfg.ContentDir)
	}
	if cfg.NATSURL != "" {
		t.Fatalf("unset flag should not override, got %q", cfg.NATSURL)
	}
}

func TestInvalid(t *testing.T) {
	tests := map[string]string{
		"ENGINES_PORT":             "http",
		"ENGINES_RATE_LIMIT_BURST": "-5",
		"ENGINES_LOG_LEVEL":        "loud",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			isolate(t)
			t.Setenv(key, val)
			_, err := Load(nil)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestNonPositiveRateDisablesLimiting(t *testing.T) {
	for _, val := range []string{"0", "-1"} {
		t.Run(val, func(t *testing.T) {
			isolate(t)
			t.Setenv("ENGINES_RATE_LIMIT_RPS", val)
			cfg, err := Load(nil)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.RateLimitRPS != 0 {
				t.Fatalf("rps = %v, want 0", cfg.RateLimitRPS)
			}
		})
	}
}

func TestEmptyEnvFallsBack(t *testing.T) {
	isolate(t)
	t.Setenv("ENGINES_NATS_URL", "nats://localhost:4222")
	t.Setenv("ENGINES_NATS_SUBJECT", "")
	// An empty environment value falls back to the default subject.
	if _, err := Load(nil); err != nil {
		t.Fatalf("Load: %v", err)
	}
}
