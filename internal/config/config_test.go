package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

const testSecret = "abcdefghijklmnopqrstuvwxyz012345"

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	v := newViper()
	v.Set(SecretKey, testSecret)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Addr:      ":8080",
		Secret:    testSecret,
		Algorithm: "HS256",
		Backend:   BackendJWX,
		LogLevel:  "info",
		Exclude:   []string{"/healthz", "/metrics"},
	}, cfg)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("JWTFILTER_ADDR", ":9090")
	t.Setenv("JWTFILTER_SECRET", testSecret)
	t.Setenv("JWTFILTER_ALGORITHM", "HS512")
	t.Setenv("JWTFILTER_BACKEND", BackendJWTGo)
	t.Setenv("JWTFILTER_CLOCK_SKEW", "5s")
	t.Setenv("JWTFILTER_LOG_LEVEL", "debug")
	t.Setenv("JWTFILTER_EXCLUDE", "/healthz, /public")

	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "HS512", cfg.Algorithm)
	assert.Equal(t, BackendJWTGo, cfg.Backend)
	assert.Equal(t, 5*time.Second, cfg.ClockSkew)
	assert.Equal(t, []string{"/healthz", "/public"}, cfg.Exclude)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Addr:      ":8080",
			Secret:    testSecret,
			Algorithm: "HS256",
			Backend:   BackendJWX,
			LogLevel:  "info",
		}
	}

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing addr",
			mutate:  func(c *Config) { c.Addr = "" },
			wantErr: "addr is required",
		},
		{
			name:    "short secret",
			mutate:  func(c *Config) { c.Secret = "short" },
			wantErr: "secret must be at least 32 bytes",
		},
		{
			name:    "asymmetric algorithm",
			mutate:  func(c *Config) { c.Algorithm = "RS256" },
			wantErr: `algorithm "RS256" is not an HMAC algorithm`,
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Backend = "other" },
			wantErr: `backend must be "jwx" or "jwt-go", got "other"`,
		},
		{
			name:    "negative skew",
			mutate:  func(c *Config) { c.ClockSkew = -time.Second },
			wantErr: "clock-skew cannot be negative",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: "invalid log-level",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			cfg := valid()
			testCase.mutate(&cfg)

			err := cfg.Validate()
			if testCase.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.wantErr)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWTFILTER_TEST_DOTENV=from-file\n"), 0o600))

	t.Setenv("JWTFILTER_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("JWTFILTER_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "from-file", os.Getenv("JWTFILTER_TEST_DOTENV"))
}

func Test_splitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a,b", " c ", ""}))
	assert.Nil(t, splitList(nil))
}
