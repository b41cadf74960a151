package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/diag"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/token"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/unseal"
)

const (
	DefaultConfigPath = "/etc/webauth"
	ConfigFileName    = "webauth.yml"
)

// ValidUnsealers is the list of valid unsealer names
var ValidUnsealers = []string{unseal.NameWire, unseal.NameJWT}

// WebAuthConfig holds all WebAuth configuration settings
type WebAuthConfig struct {
	// ListenAddress is the host:port the server binds to
	ListenAddress string `yaml:"listen_address" json:"listen_address"`

	// CookieName is the cookie carrying the token when no Authorization header is sent
	CookieName string `yaml:"cookie_name" json:"cookie_name"`

	// TokenKind is the kind of token requests authenticate with
	TokenKind string `yaml:"token_kind" json:"token_kind"`

	// FreshIssueKinds are the kinds whose creation time must be recent
	FreshIssueKinds []string `yaml:"fresh_issue_kinds" json:"fresh_issue_kinds"`

	// Unsealer names the unsealer that opens raw tokens
	Unsealer string `yaml:"unsealer" json:"unsealer"`

	// EnabledUnsealers restricts which installed unsealers may be looked up; empty enables all
	EnabledUnsealers []string `yaml:"enabled_unsealers" json:"enabled_unsealers"`

	// JWTKeyFile holds the HMAC key for the jwt unsealer
	JWTKeyFile string `yaml:"jwt_key_file" json:"jwt_key_file"`

	// Krb5Conf is the path to krb5.conf
	Krb5Conf string `yaml:"krb5_conf" json:"krb5_conf"`

	// Keytab is the path to the service keytab
	Keytab string `yaml:"keytab" json:"keytab"`

	// Krb5Principal is the service principal in Keytab
	Krb5Principal string `yaml:"krb5_principal" json:"krb5_principal"`

	// LogLevel is one of trace, debug, info, warn, error
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogFormat is text or json
	LogFormat string `yaml:"log_format" json:"log_format"`

	// AuditLog is the audit record destination: a file, "-" for stdout, or empty to disable
	AuditLog string `yaml:"audit_log" json:"audit_log"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *WebAuthConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *WebAuthConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() (*WebAuthConfig, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return cfg, nil
}

// newDefault returns a config with default values
func newDefault() *WebAuthConfig {
	return &WebAuthConfig{
		ListenAddress:   "0.0.0.0:8000",
		CookieName:      "webauth_at",
		TokenKind:       token.KindApp.String(),
		FreshIssueKinds: []string{token.KindID.String()},
		Unsealer:        unseal.NameWire,
		Krb5Conf:        "/etc/krb5.conf",
		LogLevel:        "info",
		LogFormat:       "text",
		sources:         make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*WebAuthConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("WEBAUTH_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig WebAuthConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"listen_address", "cookie_name", "token_kind", "fresh_issue_kinds",
		"unsealer", "enabled_unsealers", "jwt_key_file", "krb5_conf", "keytab", "krb5_principal",
		"log_level", "log_format", "audit_log",
	}
}

func (c *WebAuthConfig) applyFileConfig(file *WebAuthConfig) {
	setString := func(name string, dst *string, val string) {
		if val != "" {
			*dst = val
			c.sources[name] = "file"
		}
	}
	setString("listen_address", &c.ListenAddress, file.ListenAddress)
	setString("cookie_name", &c.CookieName, file.CookieName)
	setString("token_kind", &c.TokenKind, file.TokenKind)
	setString("unsealer", &c.Unsealer, file.Unsealer)
	setString("jwt_key_file", &c.JWTKeyFile, file.JWTKeyFile)
	setString("krb5_conf", &c.Krb5Conf, file.Krb5Conf)
	setString("keytab", &c.Keytab, file.Keytab)
	setString("krb5_principal", &c.Krb5Principal, file.Krb5Principal)
	setString("log_level", &c.LogLevel, file.LogLevel)
	setString("log_format", &c.LogFormat, file.LogFormat)
	setString("audit_log", &c.AuditLog, file.AuditLog)
	if file.FreshIssueKinds != nil {
		c.FreshIssueKinds = file.FreshIssueKinds
		c.sources["fresh_issue_kinds"] = "file"
	}
	if file.EnabledUnsealers != nil {
		c.EnabledUnsealers = file.EnabledUnsealers
		c.sources["enabled_unsealers"] = "file"
	}
}

func (c *WebAuthConfig) applyEnvConfig() {
	setString := func(name string, dst *string) {
		if val := os.Getenv("WEBAUTH_" + strings.ToUpper(name)); val != "" {
			*dst = val
			c.sources[name] = "environment"
		}
	}
	setString("listen_address", &c.ListenAddress)
	setString("cookie_name", &c.CookieName)
	setString("token_kind", &c.TokenKind)
	setString("unsealer", &c.Unsealer)
	setString("jwt_key_file", &c.JWTKeyFile)
	setString("krb5_conf", &c.Krb5Conf)
	setString("keytab", &c.Keytab)
	setString("krb5_principal", &c.Krb5Principal)
	setString("log_level", &c.LogLevel)
	setString("log_format", &c.LogFormat)
	setString("audit_log", &c.AuditLog)
	if val, ok := os.LookupEnv("WEBAUTH_FRESH_ISSUE_KINDS"); ok {
		c.FreshIssueKinds = splitAndTrim(val)
		c.sources["fresh_issue_kinds"] = "environment"
	}
	if val, ok := os.LookupEnv("WEBAUTH_ENABLED_UNSEALERS"); ok {
		c.EnabledUnsealers = splitAndTrim(val)
		c.sources["enabled_unsealers"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *WebAuthConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *WebAuthConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// Kind returns the configured token kind.
func (c *WebAuthConfig) Kind() (token.Kind, error) {
	return token.KindString(c.TokenKind)
}

// FreshKinds returns the kinds that require a recent creation time.
func (c *WebAuthConfig) FreshKinds() ([]token.Kind, error) {
	kinds := make([]token.Kind, 0, len(c.FreshIssueKinds))
	for _, name := range c.FreshIssueKinds {
		k, err := token.KindString(name)
		if err != nil {
			return nil, fmt.Errorf("invalid fresh_issue_kinds value: %s", name)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// JWTKey reads the jwt unsealer key. An unset jwt_key_file yields no key.
func (c *WebAuthConfig) JWTKey() ([]byte, error) {
	if c.JWTKeyFile == "" {
		return nil, nil
	}
	key, err := os.ReadFile(c.JWTKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read jwt key: %w", err)
	}
	return []byte(strings.TrimSpace(string(key))), nil
}

// LoggerOptions returns the diag logger settings for this configuration.
func (c *WebAuthConfig) LoggerOptions() diag.Options {
	return diag.Options{Level: c.LogLevel, Format: c.LogFormat}
}

// Validate validates the configuration
func (c *WebAuthConfig) Validate() error {
	if _, err := c.Kind(); err != nil {
		return fmt.Errorf("invalid token_kind value: %s", c.TokenKind)
	}
	if _, err := c.FreshKinds(); err != nil {
		return err
	}

	if !validUnsealer(c.Unsealer) {
		return fmt.Errorf("invalid unsealer: %s", c.Unsealer)
	}
	if len(c.EnabledUnsealers) > 0 {
		selected := false
		for _, name := range c.EnabledUnsealers {
			if !validUnsealer(name) {
				return fmt.Errorf("invalid enabled_unsealers value: %s", name)
			}
			if name == c.Unsealer {
				selected = true
			}
		}
		if !selected {
			return fmt.Errorf("unsealer %s is not in enabled_unsealers", c.Unsealer)
		}
	}
	if c.Unsealer == unseal.NameJWT && c.JWTKeyFile == "" {
		return fmt.Errorf("unsealer %s requires jwt_key_file", unseal.NameJWT)
	}

	if !diag.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level value: %s", c.LogLevel)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log_format value: %s", c.LogFormat)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *WebAuthConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "listen_address", Value: c.ListenAddress, Source: c.Source("listen_address")},
		{Name: "cookie_name", Value: c.CookieName, Source: c.Source("cookie_name")},
		{Name: "token_kind", Value: c.TokenKind, Source: c.Source("token_kind")},
		{Name: "fresh_issue_kinds", Value: strings.Join(c.FreshIssueKinds, ","), Source: c.Source("fresh_issue_kinds")},
		{Name: "unsealer", Value: c.Unsealer, Source: c.Source("unsealer")},
		{Name: "enabled_unsealers", Value: strings.Join(c.EnabledUnsealers, ","), Source: c.Source("enabled_unsealers")},
		{Name: "jwt_key_file", Value: c.JWTKeyFile, Source: c.Source("jwt_key_file")},
		{Name: "krb5_conf", Value: c.Krb5Conf, Source: c.Source("krb5_conf")},
		{Name: "keytab", Value: c.Keytab, Source: c.Source("keytab")},
		{Name: "krb5_principal", Value: c.Krb5Principal, Source: c.Source("krb5_principal")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "log_format", Value: c.LogFormat, Source: c.Source("log_format")},
		{Name: "audit_log", Value: c.AuditLog, Source: c.Source("audit_log")},
	}
}

// FormatText returns a text representation of the configuration
func (c *WebAuthConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-20s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-20s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-20s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *WebAuthConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func validUnsealer(name string) bool {
	for _, u := range ValidUnsealers {
		if u == name {
			return true
		}
	}
	return false
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
