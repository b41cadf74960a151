package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/audit"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/config"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/diag"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/krb5"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/server"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/server/endpoints"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/unseal"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/verifier"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the WebAuth token verification server",
	Long: `Run the WebAuth token verification server.

Configuration is read from $WEBAUTH_CONFIG_PATH/webauth.yml and WEBAUTH_*
environment variables. The config file is watched and the log level is
reloaded when it changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		if addr, _ := cmd.Flags().GetString("listen-address"); addr != "" {
			cfg.ListenAddress = addr
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		logger := diag.NewLogger(cfg.LoggerOptions())
		if err := runServer(cfg, logger); err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().StringP("listen-address", "l", "", "server listen address (overrides listen_address)")
}

// selectUnsealer builds the unsealer registry, narrows it to
// enabled_unsealers and looks up the configured unsealer.
func selectUnsealer(cfg *config.WebAuthConfig) (*unseal.Registry, unseal.Unsealer, error) {
	key, err := cfg.JWTKey()
	if err != nil {
		return nil, nil, err
	}
	registry := unseal.Builtin(key)
	if err := registry.EnableOnly(cfg.EnabledUnsealers); err != nil {
		return nil, nil, fmt.Errorf("enabled_unsealers: %w", err)
	}
	unsealer, err := registry.Lookup(cfg.Unsealer)
	if err != nil {
		return nil, nil, err
	}
	return registry, unsealer, nil
}

func runServer(cfg *config.WebAuthConfig, logger hclog.Logger) error {
	kind, err := cfg.Kind()
	if err != nil {
		return err
	}
	fresh, err := cfg.FreshKinds()
	if err != nil {
		return err
	}
	registry, unsealer, err := selectUnsealer(cfg)
	if err != nil {
		return err
	}
	logger.Debug("unsealer selected", "unsealer", unsealer.Name(), "enabled", registry.Enabled())

	m := metrics.New(prometheus.DefaultRegisterer)
	if cfg.Keytab != "" {
		lib := krb5.Gokrb{ConfPath: cfg.Krb5Conf, KeytabPath: cfg.Keytab, Principal: cfg.Krb5Principal}
		sess, err := krb5.Open(lib, diag.FromLogger(logger), "server")
		m.SessionOpened(err)
		if err != nil {
			logger.Warn("kerberos keytab unusable", "keytab", cfg.Keytab, "error", err)
		} else {
			_ = sess.Close()
		}
	}

	v := verifier.New(unsealer,
		verifier.WithFreshIssue(fresh...),
		verifier.WithMetrics(m),
	)

	auditLog, closer, err := audit.Open(cfg.AuditLog)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	s := server.NewServer(cfg, kind, v, registry, prometheus.DefaultGatherer, logger)
	s.Audit = auditLog
	endpoints.RegisterAll(s)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		err := watchConfig(ctx, cfg.ConfigFilePath(), logger, func(next *config.WebAuthConfig) {
			logger.SetLevel(diag.ParseLevel(next.LogLevel))
			logger.Info("configuration reloaded", "log_level", next.LogLevel)
		})
		if err != nil {
			logger.Warn("config watch disabled", "error", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("running server", "address", cfg.ListenAddress, "token_type", kind.String(), "unsealer", unsealer.Name())
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}
