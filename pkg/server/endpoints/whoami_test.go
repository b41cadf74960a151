package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhoamiEndpoint(t *testing.T) {
	ts := newTestServer(t)

	t.Run("whoami with valid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.RemoteAddr = "192.0.2.10:50000"
		req.Header.Set("Authorization", `WebAuth token="`+appToken(t, "alice", testNow, testNow.Add(time.Hour))+`"`)
		w := httptest.NewRecorder()

		ts.Handler().ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

		var resp WhoamiResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "alice", resp.Subject)
		assert.Equal(t, "app", resp.Kind)
		assert.Equal(t, "p", resp.InitialFactors)
		assert.Equal(t, "c", resp.SessionFactors)
		assert.Equal(t, uint32(1), resp.LOA)
		assert.Equal(t, testNow.Unix(), resp.Created)
		assert.Equal(t, testNow.Add(time.Hour).Unix(), resp.Expires)
		assert.Equal(t, "192.0.2.10", resp.ClientIP)
		assert.NotEmpty(t, resp.Transaction)
	})

	t.Run("whoami with cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: "webauth_at", Value: appToken(t, "bob", testNow, testNow.Add(time.Hour))})
		w := httptest.NewRecorder()

		ts.Router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"subject":"bob"`)
	})

	t.Run("whoami without token", func(t *testing.T) {
		w := httptest.NewRecorder()
		ts.Router.ServeHTTP(w, httptest.NewRequest("GET", "/whoami", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Authorization missing", w.Body.String())
	})

	t.Run("whoami with expired token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", `WebAuth token="`+appToken(t, "alice", testNow.Add(-time.Hour), testNow)+`"`)
		w := httptest.NewRecorder()

		ts.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Token expired", w.Body.String())
	})
}

func TestHandleWhoami_NoIdentity(t *testing.T) {
	w := httptest.NewRecorder()
	handleWhoami()(w, httptest.NewRequest("GET", "/whoami", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
