package endpoints

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/attr"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/config"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/server"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/token"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/unseal"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/verifier"
)

var testNow = time.Unix(1700000000, 0)

type testServer struct {
	*server.Server
	Registry *prometheus.Registry
}

// newTestServer builds a server using the wire unsealer and a fixed clock.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	t.Setenv("WEBAUTH_CONFIG_PATH", t.TempDir())
	cfg, err := config.Load()
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	v := verifier.New(unseal.Wire{},
		verifier.WithClock(func() time.Time { return testNow }),
		verifier.WithMetrics(metrics.New(reg)),
	)

	srv := server.NewServer(cfg, token.KindApp, v, unseal.Builtin(nil), reg, nil)
	RegisterAll(srv)
	return &testServer{Server: srv, Registry: reg}
}

func appToken(t *testing.T, subject string, created, expires time.Time) string {
	t.Helper()
	list, err := token.Encode(&token.App{
		Subject:        subject,
		InitialFactors: "p",
		SessionFactors: "c",
		LOA:            1,
		Creation:       created,
		Expiration:     expires,
	})
	require.NoError(t, err)
	raw, err := attr.Encode(list)
	require.NoError(t, err)
	return base64.URLEncoding.EncodeToString(raw)
}
