// Command jwtfilter-demo serves a small API behind the bearer token filter.
//
//	JWTFILTER_SECRET=... jwtfilter-demo --addr :8080
//	curl -H "Authorization: Bearer $TOKEN" localhost:8080/me
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/codesoom/go-jwt-filter/internal/config"
	"github.com/codesoom/go-jwt-filter/internal/server"
)

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var (
		configFile string
		envFiles   []string
	)

	cmd := &cobra.Command{
		Use:   "jwtfilter-demo",
		Short: "Serve a demo API behind the bearer token filter",
		Long: `jwtfilter-demo serves /healthz, /metrics and /me. Every request passes
through the bearer token filter; /me answers 401 when no valid token was
presented. Configuration comes from flags, JWTFILTER_* environment variables,
.env files and an optional config file.`,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(envFiles...); err != nil {
				return err
			}
			if configFile != "" {
				v.SetConfigFile(configFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("could not read config file: %w", err)
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	config.SetDefaults(v)
	config.BindEnv(v)

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "Config file (yaml, json or toml)")
	flags.StringSliceVar(&envFiles, "env-file", []string{".env"}, ".env files to load before reading the environment")
	flags.String(config.AddrKey, ":8080", "Listen address")
	flags.String(config.SecretKey, "", "HMAC secret used to verify tokens (at least 32 bytes)")
	flags.String(config.AlgorithmKey, "HS256", "Signature algorithm (HS256, HS384, HS512)")
	flags.String(config.BackendKey, config.BackendJWX, "Validation backend (jwx, jwt-go)")
	flags.String(config.IssuerKey, "", "Expected iss claim")
	flags.String(config.AudienceKey, "", "Expected aud claim")
	flags.Duration(config.ClockSkewKey, 0, "Allowed clock skew for exp and nbf")
	flags.String(config.LogLevelKey, "info", "Log level (debug, info, warn, error)")
	flags.StringSlice(config.ExcludeKey, []string{"/healthz", "/metrics"}, "Paths that skip identity resolution")

	for _, key := range []string{
		config.AddrKey, config.SecretKey, config.AlgorithmKey, config.BackendKey,
		config.IssuerKey, config.AudienceKey, config.ClockSkewKey, config.LogLevelKey,
		config.ExcludeKey,
	} {
		_ = v.BindPFlag(key, flags.Lookup(key))
	}

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	logger, err := zapConfig.Build()
	if err != nil {
		return fmt.Errorf("could not build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	srv, err := server.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
