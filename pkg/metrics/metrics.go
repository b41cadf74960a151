package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/token"
)

const namespace = "webauth"

// Decode and freshness outcomes.
const (
	ResultOK       = "ok"
	ResultInvalid  = "invalid"
	ResultNotFound = "not_found"
	ResultExpired  = "expired"
	ResultStale    = "stale"
	ResultMismatch = "mismatch"
)

// Metrics holds the verification counters.
type Metrics struct {
	Decodes     *prometheus.CounterVec
	Freshness   *prometheus.CounterVec
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
	Sessions    *prometheus.CounterVec
}

// New creates the counters and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Decodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_decodes_total",
			Help:      "Token decode attempts by kind and result.",
		}, []string{"kind", "result"}),
		Freshness: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_freshness_checks_total",
			Help:      "Token freshness checks by kind and result.",
		}, []string{"kind", "result"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_cache_hits_total",
			Help:      "Tokens served from the request note store.",
		}, []string{"kind"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_cache_misses_total",
			Help:      "Tokens that had to be unsealed and decoded.",
		}, []string{"kind"}),
		Sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "krb5_sessions_total",
			Help:      "Kerberos session opens by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.Decodes, m.Freshness, m.CacheHits, m.CacheMisses, m.Sessions)
	}
	return m
}

// Decoded counts a decode attempt.
func (m *Metrics) Decoded(kind token.Kind, result string) {
	if m == nil {
		return
	}
	m.Decodes.WithLabelValues(kind.String(), result).Inc()
}

// Checked counts a freshness check.
func (m *Metrics) Checked(kind token.Kind, result string) {
	if m == nil {
		return
	}
	m.Freshness.WithLabelValues(kind.String(), result).Inc()
}

// Cache counts a note store lookup.
func (m *Metrics) Cache(kind token.Kind, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.WithLabelValues(kind.String()).Inc()
		return
	}
	m.CacheMisses.WithLabelValues(kind.String()).Inc()
}

// SessionOpened counts a Kerberos session open.
func (m *Metrics) SessionOpened(err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = "error"
	}
	m.Sessions.WithLabelValues(result).Inc()
}
