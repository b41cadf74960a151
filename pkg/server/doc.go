// Package server provides the HTTP host for WebAuth token verification.
//
// It uses gorilla/mux for routing and gorilla/handlers for access logging.
// Every routed request runs inside a request.Transaction, so tokens verified
// by one handler are reused by any sub-operation of the same request.
//
// # Server Setup
//
//	v := verifier.New(unsealer, verifier.WithFreshIssue(token.KindID))
//	srv := server.NewServer(cfg, token.KindApp, v, registry, prometheus.DefaultGatherer, logger)
//	srv.Audit = audit.NewLogger(os.Stdout)
//	endpoints.RegisterAll(srv)
//	log.Fatal(srv.Start())
//
// Audit must be set before RegisterAll, which builds the token middleware.
//
// # Endpoints
//
// Endpoints are registered via the endpoints subpackage:
//
//   - / and /status - server status
//   - /unsealers - installed and enabled unsealers
//   - /whoami - identity of the presented token
//   - /metrics - Prometheus metrics
package server
