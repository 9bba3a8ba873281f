// Package config holds the demo server configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Viper keys. Environment variables use the JWTFILTER_ prefix with dashes
// replaced by underscores, e.g. JWTFILTER_LOG_LEVEL.
const (
	AddrKey      = "addr"
	SecretKey    = "secret"
	AlgorithmKey = "algorithm"
	BackendKey   = "backend"
	IssuerKey    = "issuer"
	AudienceKey  = "audience"
	ClockSkewKey = "clock-skew"
	LogLevelKey  = "log-level"
	ExcludeKey   = "exclude"

	EnvPrefix = "JWTFILTER"
)

// Token validation backends.
const (
	BackendJWX   = "jwx"
	BackendJWTGo = "jwt-go"
)

// minSecretLength is the shortest HMAC secret accepted, 256 bits.
const minSecretLength = 32

// Config is the demo server configuration.
type Config struct {
	Addr      string        `mapstructure:"addr"`
	Secret    string        `mapstructure:"secret"`
	Algorithm string        `mapstructure:"algorithm"`
	Backend   string        `mapstructure:"backend"`
	Issuer    string        `mapstructure:"issuer"`
	Audience  string        `mapstructure:"audience"`
	ClockSkew time.Duration `mapstructure:"clock-skew"`
	LogLevel  string        `mapstructure:"log-level"`
	Exclude   []string      `mapstructure:"exclude"`
}

// SetDefaults registers every key with its default so that environment
// variables are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(AddrKey, ":8080")
	v.SetDefault(SecretKey, "")
	v.SetDefault(AlgorithmKey, "HS256")
	v.SetDefault(BackendKey, BackendJWX)
	v.SetDefault(IssuerKey, "")
	v.SetDefault(AudienceKey, "")
	v.SetDefault(ClockSkewKey, time.Duration(0))
	v.SetDefault(LogLevelKey, "info")
	v.SetDefault(ExcludeKey, []string{"/healthz", "/metrics"})
}

// BindEnv makes v read JWTFILTER_* environment variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()
}

// LoadDotEnv loads the given .env files into the process environment.
// Missing files are skipped; variables already set are not overridden.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("could not load %s: %w", path, err)
		}
	}
	return nil
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}

	cfg.Exclude = splitList(cfg.Exclude)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for values the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if len(c.Secret) < minSecretLength {
		errs = append(errs, fmt.Errorf("secret must be at least %d bytes", minSecretLength))
	}
	switch c.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("algorithm %q is not an HMAC algorithm", c.Algorithm))
	}
	switch c.Backend {
	case BackendJWX, BackendJWTGo:
	default:
		errs = append(errs, fmt.Errorf("backend must be %q or %q, got %q", BackendJWX, BackendJWTGo, c.Backend))
	}
	if c.ClockSkew < 0 {
		errs = append(errs, errors.New("clock-skew cannot be negative"))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Level returns the zap level for LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log-level: %w", err)
	}
	return level, nil
}

// splitList flattens comma separated entries, which is how lists arrive from
// environment variables.
func splitList(in []string) []string {
	var out []string
	for _, entry := range in {
		for _, part := range strings.Split(entry, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
