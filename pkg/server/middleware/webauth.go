package middleware

import (
	"encoding/base64"
	"errors"
	"net"
	"net/http"
	"regexp"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/audit"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/diag"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/identity"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/request"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/token"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/verifier"
)

var tokenRegex = regexp.MustCompile(`^WebAuth token="(.*)"`)

// TokenAuthenticator is middleware that verifies WebAuth tokens
type TokenAuthenticator struct {
	Verifier   *verifier.Verifier
	Kind       token.Kind
	CookieName string
	// Audit receives one record per presented token. May be nil.
	Audit *audit.Logger
}

// NewTokenAuthenticator creates a new token authenticator middleware
func NewTokenAuthenticator(v *verifier.Verifier, kind token.Kind, cookieName string) *TokenAuthenticator {
	return &TokenAuthenticator{Verifier: v, Kind: kind, CookieName: cookieName}
}

// Middleware returns an HTTP middleware that verifies the request token and
// places its identity on the request context.
func (a *TokenAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		encoded, msg := a.extract(r)
		if msg != "" {
			unauthorized(w, msg)
			return
		}

		raw, err := base64.URLEncoding.DecodeString(encoded)
		if err != nil {
			unauthorized(w, "Malformed authorization token")
			return
		}

		ctx := r.Context()
		tx, ok := request.FromContext(ctx)
		if !ok {
			tx = request.New(diag.Discard)
			ctx = request.NewContext(ctx, tx)
		}

		ip := remoteIP(r)
		event := audit.VerifyEvent{Kind: a.Kind.String(), TransactionID: tx.ID()}
		if ip != nil {
			event.ClientIP = ip.String()
		}

		tok, err := a.Verifier.Verify(tx, a.Kind, raw)
		if err != nil {
			event.ErrorMessage = err.Error()
			a.Audit.Log(event)
		}
		switch {
		case errors.Is(err, verifier.ErrExpired):
			unauthorized(w, "Token expired")
			return
		case errors.Is(err, verifier.ErrStale):
			unauthorized(w, "Token stale")
			return
		case err != nil:
			unauthorized(w, "Invalid token")
			return
		}

		id := identity.FromToken(tok).
			WithRemoteIP(ip).
			WithTransaction(tx.ID())
		event.Subject = id.Subject
		event.Success = true
		a.Audit.Log(event)
		next.ServeHTTP(w, r.WithContext(identity.Set(ctx, id)))
	})
}

// extract returns the encoded token from the Authorization header, falling
// back to the cookie. A non-empty message explains why none was found.
func (a *TokenAuthenticator) extract(r *http.Request) (string, string) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		tokenMatches := tokenRegex.FindStringSubmatch(authHeader)
		if len(tokenMatches) != 2 {
			return "", "Malformed authorization header"
		}
		return tokenMatches[1], ""
	}

	if a.CookieName != "" {
		if c, err := r.Cookie(a.CookieName); err == nil && c.Value != "" {
			return c.Value, ""
		}
	}
	return "", "Authorization missing"
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(msg))
}

func remoteIP(r *http.Request) net.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return net.ParseIP(host)
}
