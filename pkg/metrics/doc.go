// Package metrics exposes Prometheus counters for token verification.
//
// Counters are created against a caller-supplied prometheus.Registerer so
// tests can use a private registry:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	m.Decoded(token.KindApp, metrics.ResultOK)
package metrics
