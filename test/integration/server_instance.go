package integration

import (
	"bytes"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/audit"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/config"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/server"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/server/endpoints"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/token"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/unseal"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/verifier"
)

// ServerConfig holds configuration for a test WebAuth server instance
type ServerConfig struct {
	TokenKind        token.Kind
	FreshIssueKinds  []token.Kind
	Unsealer         string
	JWTKey           []byte
	EnabledUnsealers []string
}

// DefaultServerConfig returns the default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		TokenKind: token.KindApp,
		Unsealer:  unseal.NameWire,
	}
}

// Clock is a settable time source shared by a server and its steps.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ServerInstance represents a running WebAuth server for a single scenario
type ServerInstance struct {
	Server    *server.Server
	ServerURL string
	Config    ServerConfig
	Clock     *Clock
	Registry  *prometheus.Registry
	Audit     *bytes.Buffer

	httpServer *httptest.Server
	configDir  string
}

// StartServer creates and starts an in-process server. Each instance has its
// own metrics registry, audit buffer and config directory.
func StartServer(cfg ServerConfig) (*ServerInstance, error) {
	dir, err := os.MkdirTemp("", "webauth-integration-")
	if err != nil {
		return nil, err
	}
	body := fmt.Sprintf("token_kind: %s\nunsealer: %s\n", cfg.TokenKind, cfg.Unsealer)
	if len(cfg.JWTKey) > 0 {
		keyFile := filepath.Join(dir, "jwt.key")
		if err := os.WriteFile(keyFile, cfg.JWTKey, 0o600); err != nil {
			return nil, err
		}
		body += "jwt_key_file: " + keyFile + "\n"
	}
	if len(cfg.EnabledUnsealers) > 0 {
		body += "enabled_unsealers: [" + strings.Join(cfg.EnabledUnsealers, ", ") + "]\n"
	}
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(body), 0o600); err != nil {
		return nil, err
	}
	_ = os.Setenv("WEBAUTH_CONFIG_PATH", dir)

	webauthConfig, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := webauthConfig.Validate(); err != nil {
		return nil, err
	}
	key, err := webauthConfig.JWTKey()
	if err != nil {
		return nil, err
	}

	registry := unseal.Builtin(key)
	if err := registry.EnableOnly(webauthConfig.EnabledUnsealers); err != nil {
		return nil, err
	}
	unsealer, err := registry.Lookup(webauthConfig.Unsealer)
	if err != nil {
		return nil, err
	}

	clock := &Clock{now: time.Unix(1700000000, 0)}
	reg := prometheus.NewRegistry()
	v := verifier.New(unsealer,
		verifier.WithFreshIssue(cfg.FreshIssueKinds...),
		verifier.WithClock(clock.Now),
		verifier.WithMetrics(metrics.New(reg)),
	)

	var auditBuf bytes.Buffer
	s := server.NewServer(webauthConfig, cfg.TokenKind, v, registry, reg, nil)
	s.Audit = audit.NewLogger(&auditBuf)
	endpoints.RegisterAll(s)

	hs := httptest.NewServer(s.Handler())
	return &ServerInstance{
		Server:     s,
		ServerURL:  hs.URL,
		Config:     cfg,
		Clock:      clock,
		Registry:   reg,
		Audit:      &auditBuf,
		httpServer: hs,
		configDir:  dir,
	}, nil
}

// Stop shuts down the server instance and removes its config directory
func (si *ServerInstance) Stop() {
	if si.httpServer != nil {
		si.httpServer.Close()
	}
	_ = os.Unsetenv("WEBAUTH_CONFIG_PATH")
	_ = os.RemoveAll(si.configDir)
}
