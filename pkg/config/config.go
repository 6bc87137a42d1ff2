// Package config loads service and tool settings from flags, ENGINES_*
// environment variables, an optional .env file and an optional engines.yaml.
// Flags win over the environment, which wins over the file, which wins over
// the defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable.
const EnvPrefix = "ENGINES"

// Keys.
const (
	KeyPort           = "port"
	KeyCORSOrigin     = "cors_origin"
	KeyContentDir     = "content_dir"
	KeyNATSURL        = "nats_url"
	KeyNATSSubject    = "nats_subject"
	KeyRateLimitRPS   = "rate_limit_rps"
	KeyRateLimitBurst = "rate_limit_burst"
	KeyServiceName    = "service_name"
	KeyLogLevel       = "log_level"
)

var defaults = map[string]any{
	KeyPort:           "8080",
	KeyCORSOrigin:     "*",
	KeyContentDir:     "",
	KeyNATSURL:        "",
	KeyNATSSubject:    "engines.lint.report",
	KeyRateLimitRPS:   50.0,
	KeyRateLimitBurst: 100,
	KeyServiceName:    "engines-api",
	KeyLogLevel:       "info",
}

// ErrInvalid marks a setting that failed validation.
var ErrInvalid = errors.New("invalid setting")

// Config is the resolved configuration.
type Config struct {
	Port           string
	CORSOrigin     string
	ContentDir     string // empty means the embedded catalog
	NATSURL        string // empty disables publishing
	NATSSubject    string
	RateLimitRPS   float64 // 0 disables limiting; negative values load as 0
	RateLimitBurst int
	ServiceName    string
	LogLevel       slog.Level
}

// Load resolves the configuration. flags may be nil; flags named like a key
// (with dashes for underscores) override it when set.
func Load(flags *pflag.FlagSet) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("engines")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read engines.yaml: %w", err)
			}
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if _, ok := defaults[key]; ok && bindErr == nil {
				bindErr = v.BindPFlag(key, f)
			}
		})
		if bindErr != nil {
			return Config{}, fmt.Errorf("config: bind flags: %w", bindErr)
		}
	}

	return resolve(v)
}

func resolve(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:           strings.TrimPrefix(v.GetString(KeyPort), ":"),
		CORSOrigin:     v.GetString(KeyCORSOrigin),
		ContentDir:     v.GetString(KeyContentDir),
		NATSURL:        v.GetString(KeyNATSURL),
		NATSSubject:    v.GetString(KeyNATSSubject),
		RateLimitRPS:   v.GetFloat64(KeyRateLimitRPS),
		RateLimitBurst: v.GetInt(KeyRateLimitBurst),
		ServiceName:    v.GetString(KeyServiceName),
	}

	if p, err := strconv.Atoi(cfg.Port); err != nil || p <= 0 || p > 65535 {
		return Config{}, fmt.Errorf("config: %s %q: %w", KeyPort, cfg.Port, ErrInvalid)
	}
	cfg.RateLimitRPS = max(cfg.RateLimitRPS, 0)
	if cfg.RateLimitBurst < 0 {
		return Config{}, fmt.Errorf("config: %s %d: %w", KeyRateLimitBurst, cfg.RateLimitBurst, ErrInvalid)
	}
	if cfg.NATSURL != "" && cfg.NATSSubject == "" {
		return Config{}, fmt.Errorf("config: %s is required with %s: %w", KeyNATSSubject, KeyNATSURL, ErrInvalid)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", KeyLogLevel, errors.Join(ErrInvalid, err))
	}
	return cfg, nil
}

// Logger returns a JSON logger at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}
