package metrics

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/token"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(nil)

	m.Decoded(token.KindApp, ResultOK)
	m.Decoded(token.KindApp, ResultOK)
	m.Decoded(token.KindID, ResultNotFound)
	m.Checked(token.KindApp, ResultExpired)
	m.Cache(token.KindApp, true)
	m.Cache(token.KindApp, false)
	m.SessionOpened(nil)
	m.SessionOpened(errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Decodes.WithLabelValues("app", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decodes.WithLabelValues("id", ResultNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Freshness.WithLabelValues("app", ResultExpired)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits.WithLabelValues("app")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses.WithLabelValues("app")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Sessions.WithLabelValues("error")))
}

func TestMetrics_Registered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Decoded(token.KindWebkdcFactor, ResultInvalid)

	expected := `
# HELP webauth_token_decodes_total Token decode attempts by kind and result.
# TYPE webauth_token_decodes_total counter
webauth_token_decodes_total{kind="webkdc-factor",result="invalid"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "webauth_token_decodes_total"))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Decoded(token.KindApp, ResultOK)
		m.Checked(token.KindApp, ResultOK)
		m.Cache(token.KindApp, true)
		m.SessionOpened(nil)
	})
}
