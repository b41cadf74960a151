package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/config"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/diag"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/krb5"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/token"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/unseal"
)

var testNow = time.Unix(1700000000, 0)

func kindPtr(k token.Kind) *token.Kind { return &k }

func TestEncodeDecode_Wire(t *testing.T) {
	var encoded bytes.Buffer
	err := encodeToken(&encoded, encodeSpec{
		Kind:     token.KindApp,
		Subject:  "alice",
		Factors:  "p,o",
		LOA:      2,
		Lifetime: time.Hour,
		Unsealer: unseal.NameWire,
		Now:      testNow,
	})
	require.NoError(t, err)

	var out bytes.Buffer
	rec := &diag.Recorder{}
	err = decodeToken(&out, encoded.Bytes(), decodeOptions{
		Kind:     kindPtr(token.KindApp),
		Unsealer: unseal.Wire{},
		Base64:   true,
		Now:      testNow.Add(3 * time.Second),
	}, rec)
	require.NoError(t, err)
	assert.Zero(t, rec.Len())

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "app", result["token_type"])
	assert.Equal(t, true, result["live"])
	assert.Equal(t, true, result["fresh_issue"])

	tok := result["token"].(map[string]interface{})
	assert.Equal(t, "alice", tok["subject"])
	assert.Equal(t, "p,o", tok["initial_factors"])
	assert.Equal(t, float64(2), tok["loa"])
}

func TestEncodeDecode_JWT(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")

	var encoded bytes.Buffer
	err := encodeToken(&encoded, encodeSpec{
		Kind:         token.KindWebkdcProxy,
		Subject:      "krb5:service/webkdc@EXAMPLE.ORG",
		ProxySubject: "alice",
		ProxyType:    "krb5",
		Lifetime:     time.Minute,
		Unsealer:     unseal.NameJWT,
		JWTKey:       key,
		Now:          testNow,
	})
	require.NoError(t, err)

	var out bytes.Buffer
	err = decodeToken(&out, encoded.Bytes(), decodeOptions{
		Unsealer: &unseal.JWT{Key: key},
		Base64:   true,
		Now:      testNow.Add(time.Hour),
	}, diag.Discard)
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "webkdc-proxy", result["token_type"])
	assert.Equal(t, false, result["live"])
	assert.Equal(t, false, result["fresh_issue"])
	assert.Equal(t, "alice", result["token"].(map[string]interface{})["proxy_subject"])
}

func TestDecode_MissingAttributeIsReported(t *testing.T) {
	rec := &diag.Recorder{}
	err := decodeToken(&bytes.Buffer{}, []byte("t=webkdc-factor;s=alice;"), decodeOptions{
		Kind:     kindPtr(token.KindWebkdcFactor),
		Unsealer: unseal.Wire{},
		Now:      testNow,
	}, rec)

	assert.ErrorContains(t, err, "attribute f")
	require.Equal(t, 1, rec.Len())
	assert.Equal(t, "mod_webauth: decodeWebkdcFactor: can't find attr(f) in attr list", rec.Entries()[0].Message)
}

func TestEncodeSpec_Build(t *testing.T) {
	tests := []struct {
		name   string
		spec   encodeSpec
		errMsg string
	}{
		{name: "app", spec: encodeSpec{Kind: token.KindApp, Subject: "alice"}},
		{name: "id", spec: encodeSpec{Kind: token.KindID, Subject: "alice", AuthType: "webkdc"}},
		{name: "factor", spec: encodeSpec{Kind: token.KindWebkdcFactor, Subject: "alice", Factors: "d"}},
		{name: "error", spec: encodeSpec{Kind: token.KindError, Code: 16, Message: "canceled"}},
		{name: "missing subject", spec: encodeSpec{Kind: token.KindApp}, errMsg: "--subject is required"},
		{name: "proxy without proxy subject", spec: encodeSpec{Kind: token.KindWebkdcProxy, Subject: "svc"}, errMsg: "--proxy-subject"},
		{name: "error without message", spec: encodeSpec{Kind: token.KindError}, errMsg: "--message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.spec.Now = testNow
			tt.spec.Lifetime = time.Hour
			tok, err := tt.spec.build()
			if tt.errMsg != "" {
				assert.ErrorContains(t, err, tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.spec.Kind, tok.Kind())
			assert.Equal(t, testNow, tok.Created())
		})
	}
}

func TestShowConfiguration(t *testing.T) {
	t.Setenv("WEBAUTH_CONFIG_PATH", t.TempDir())
	t.Setenv("WEBAUTH_UNSEALER", "jwt")

	var text bytes.Buffer
	require.NoError(t, showConfiguration(&text, "text"))
	assert.Regexp(t, `unsealer\s+jwt\s+environment`, text.String())

	var js bytes.Buffer
	require.NoError(t, showConfiguration(&js, "json"))
	assert.True(t, json.Valid(js.Bytes()))
}

func TestWatchConfig_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WEBAUTH_CONFIG_PATH", dir)
	path := filepath.Join(dir, config.ConfigFileName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var levels []string
	done := make(chan error, 1)
	go func() {
		done <- watchConfig(ctx, path, hclog.NewNullLogger(), func(cfg *config.WebAuthConfig) {
			mu.Lock()
			defer mu.Unlock()
			levels = append(levels, cfg.LogLevel)
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o600))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(levels) > 0 && levels[len(levels)-1] == "debug"
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestCheckKrb5(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "krb5.conf")
	require.NoError(t, os.WriteFile(conf, []byte(strings.TrimSpace(`
[libdefaults]
  default_realm = EXAMPLE.COM

[realms]
  EXAMPLE.COM = {
    kdc = kdc.example.com:88
  }
`)+"\n"), 0o600))

	var out bytes.Buffer
	require.NoError(t, checkKrb5(&out, krb5.Gokrb{ConfPath: conf}, diag.Discard, false))
	assert.Contains(t, out.String(), "default realm:  EXAMPLE.COM")

	rec := &diag.Recorder{}
	err := checkKrb5(&out, krb5.Gokrb{ConfPath: filepath.Join(t.TempDir(), "missing.conf")}, rec, false)
	var krbErr *krb5.KrbError
	assert.ErrorAs(t, err, &krbErr)
	require.Equal(t, 1, rec.Len())
	assert.Contains(t, rec.Entries()[0].Message, "mod_webauth: krb5 check: webauth_krb5_new failed: Kerberos error (13): ")
}

func TestSelectUnsealer(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "jwt.key")
	require.NoError(t, os.WriteFile(keyFile, []byte("0123456789abcdef0123456789abcdef"), 0o600))

	tests := []struct {
		name     string
		unsealer string
		enabled  []string
		keyFile  string
		want     string
		listed   []string
		errMsg   string
	}{
		{name: "all enabled", unsealer: unseal.NameWire, want: unseal.NameWire, listed: []string{unseal.NameWire}},
		{name: "jwt with key", unsealer: unseal.NameJWT, keyFile: keyFile, want: unseal.NameJWT, listed: []string{unseal.NameJWT, unseal.NameWire}},
		{name: "jwt without key", unsealer: unseal.NameJWT, errMsg: "not found"},
		{name: "narrowed to selection", unsealer: unseal.NameJWT, enabled: []string{unseal.NameJWT}, keyFile: keyFile, want: unseal.NameJWT, listed: []string{unseal.NameJWT}},
		{name: "selection disabled", unsealer: unseal.NameWire, enabled: []string{unseal.NameJWT}, keyFile: keyFile, errMsg: "disabled"},
		{name: "enabled but not installed", unsealer: unseal.NameWire, enabled: []string{unseal.NameJWT}, errMsg: "enabled_unsealers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.WebAuthConfig{
				Unsealer:         tt.unsealer,
				EnabledUnsealers: tt.enabled,
				JWTKeyFile:       tt.keyFile,
			}

			registry, u, err := selectUnsealer(cfg)
			if tt.errMsg != "" {
				assert.ErrorContains(t, err, tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.Name())
			assert.Equal(t, tt.listed, registry.Enabled())
		})
	}
}
