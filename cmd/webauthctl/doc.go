// Command webauthctl runs the WebAuth token verification server and provides
// tools for working with WebAuth tokens.
//
// # Quick Start
//
//	# Show the effective configuration
//	webauthctl configuration show
//
//	# Build a test token and verify it
//	webauthctl token encode --kind app --subject alice > alice.tok
//	webauthctl token decode --base64 alice.tok
//
//	# Check the Kerberos configuration and keytab
//	webauthctl krb5 check --login
//
//	# Start the server
//	webauthctl server
//
// # Environment Variables
//
//   - WEBAUTH_CONFIG_PATH: directory holding webauth.yml (default /etc/webauth)
//   - WEBAUTH_LISTEN_ADDRESS: server listen address
//   - WEBAUTH_UNSEALER: wire or jwt
//   - WEBAUTH_LOG_LEVEL: trace, debug, info, warn or error
//   - WEBAUTH_AUDIT_LOG: audit record file, or "-" for stdout
package main
