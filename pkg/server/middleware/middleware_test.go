package middleware

import (
	"bytes"
	"encoding/base64"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/attr"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/audit"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/diag"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/identity"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/request"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/token"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/unseal"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/verifier"
)

var now = time.Unix(1700000000, 0)

// Helper to create an encoded app token for testing
func createTestToken(t *testing.T, subject string, created, expires time.Time) string {
	t.Helper()
	list, err := token.Encode(&token.App{
		Subject:        subject,
		InitialFactors: "p,o",
		LOA:            2,
		Creation:       created,
		Expiration:     expires,
	})
	require.NoError(t, err)
	raw, err := attr.Encode(list)
	require.NoError(t, err)
	return base64.URLEncoding.EncodeToString(raw)
}

func newAuthenticator() *TokenAuthenticator {
	v := verifier.New(unseal.Wire{}, verifier.WithClock(func() time.Time { return now }))
	return NewTokenAuthenticator(v, token.KindApp, "webauth_at")
}

func okHandler(t *testing.T, seen **identity.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		require.True(t, ok)
		*seen = id
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{name: "missing authorization", header: "", expected: "Authorization missing"},
		{name: "wrong scheme", header: "Bearer abc", expected: "Malformed authorization header"},
		{name: "bad base64", header: `WebAuth token="!!!"`, expected: "Malformed authorization token"},
		{name: "not a token", header: `WebAuth token="` + base64.URLEncoding.EncodeToString([]byte("junk")) + `"`, expected: "Invalid token"},
		{name: "expired", header: "expired", expected: "Token expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := tt.header
			if header == "expired" {
				header = `WebAuth token="` + createTestToken(t, "alice", now.Add(-time.Hour), now) + `"`
			}

			called := false
			handler := newAuthenticator().Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest("GET", "/whoami", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.expected, w.Body.String())
		})
	}
}

func TestMiddleware_ValidHeader(t *testing.T) {
	var seen *identity.Identity
	handler := Transaction(diag.Discard)(newAuthenticator().Middleware(okHandler(t, &seen)))

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.RemoteAddr = "10.1.2.3:4567"
	req.Header.Set("Authorization", `WebAuth token="`+createTestToken(t, "alice", now, now.Add(time.Hour))+`"`)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "alice", seen.Subject)
	assert.Equal(t, token.KindApp, seen.Kind)
	assert.True(t, seen.HasFactor("o"))
	assert.Equal(t, net.ParseIP("10.1.2.3"), seen.RemoteIP)
	assert.NotEmpty(t, seen.TransactionID)
}

func TestMiddleware_Cookie(t *testing.T) {
	var seen *identity.Identity
	handler := newAuthenticator().Middleware(okHandler(t, &seen))

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "webauth_at", Value: createTestToken(t, "bob", now, now.Add(time.Hour))})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bob", seen.Subject)
}

func TestTransaction_RootPerRequest(t *testing.T) {
	var ids []string
	handler := Transaction(diag.Discard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tx, ok := request.FromContext(r.Context())
		require.True(t, ok)
		assert.True(t, tx.IsMain())
		ids = append(ids, tx.ID())
	}))

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	}
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
}

func TestTransaction_SubDispatchSharesNotes(t *testing.T) {
	mw := Transaction(diag.Discard)

	inner := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tx, _ := request.FromContext(r.Context())
		assert.False(t, tx.IsMain())
		v, ok := tx.Get("webauth_token_app")
		assert.True(t, ok)
		assert.Equal(t, "decoded once", v)
		w.WriteHeader(http.StatusNoContent)
	}))

	outer := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tx, _ := request.FromContext(r.Context())
		tx.Set("webauth_token_app", "decoded once")
		inner.ServeHTTP(w, r)
	}))

	w := httptest.NewRecorder()
	outer.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMiddleware_ReusesNotedToken(t *testing.T) {
	auth := newAuthenticator()
	raw := createTestToken(t, "alice", now, now.Add(time.Hour))

	var first, second *identity.Identity
	inner := Transaction(diag.Discard)(auth.Middleware(okHandler(t, &second)))
	outer := Transaction(diag.Discard)(auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		first, _ = identity.Get(r.Context())
		inner.ServeHTTP(w, r)
	})))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", `WebAuth token="`+raw+`"`)
	w := httptest.NewRecorder()
	outer.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Same(t, first.Token, second.Token, "sub-dispatch reuses the noted token")
}

func TestMiddleware_Audit(t *testing.T) {
	var buf bytes.Buffer
	a := newAuthenticator()
	a.Audit = audit.NewLogger(&buf)

	var seen *identity.Identity
	handler := a.Middleware(okHandler(t, &seen))

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	req.Header.Set("Authorization", `WebAuth token="`+createTestToken(t, "alice", now, now.Add(time.Hour))+`"`)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", `WebAuth token="`+createTestToken(t, "bob", now.Add(-time.Hour), now)+`"`)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `[auth@32473 kind="app" user="alice"][client@32473 ip="10.1.2.3"]`)
	assert.Contains(t, lines[0], "alice presented a valid app token")
	assert.Contains(t, lines[1], "app token refused: verify app token: token expired")
}

func TestMiddleware_SubDispatchWithOtherToken(t *testing.T) {
	auth := newAuthenticator()
	alice := createTestToken(t, "alice", now, now.Add(time.Hour))
	bob := createTestToken(t, "bob", now, now.Add(time.Hour))

	var second *identity.Identity
	inner := Transaction(diag.Discard)(auth.Middleware(okHandler(t, &second)))
	outer := Transaction(diag.Discard)(auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub := r.Clone(r.Context())
		sub.Header.Set("Authorization", `WebAuth token="`+bob+`"`)
		inner.ServeHTTP(w, sub)
	})))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", `WebAuth token="`+alice+`"`)
	w := httptest.NewRecorder()
	outer.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, second)
	assert.Equal(t, "bob", second.Subject)
}
