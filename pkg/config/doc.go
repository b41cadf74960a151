// Package config provides configuration management for the WebAuth server.
//
// # Configuration Sources
//
// Configuration is loaded from, in increasing precedence:
//
//   - Built-in defaults
//   - $WEBAUTH_CONFIG_PATH/webauth.yml (default /etc/webauth/webauth.yml)
//   - WEBAUTH_* environment variables
//
// Every attribute records which source supplied it; see FormatText.
//
// # Key Configuration Options
//
//   - WEBAUTH_TOKEN_KIND: token kind requests authenticate with (default app)
//   - WEBAUTH_UNSEALER: wire or jwt
//   - WEBAUTH_JWT_KEY_FILE: HMAC key for the jwt unsealer
//   - WEBAUTH_FRESH_ISSUE_KINDS: comma-separated kinds that must be newly issued
//   - WEBAUTH_LOG_LEVEL: trace, debug, info, warn or error
package config
