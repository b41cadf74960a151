package identity

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/token"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity represents the authenticated user of a request.
type Identity struct {
	// Token fields
	Subject        string
	Kind           token.Kind
	InitialFactors string
	SessionFactors string
	LOA            uint32
	IssuedAt       time.Time
	ExpiresAt      time.Time

	// Request context
	RemoteIP      net.IP
	TransactionID string

	// The underlying decoded token
	Token token.Token
}

// FromToken creates an Identity from a decoded token. Error tokens carry no
// subject and yield an Identity with only Kind and IssuedAt set.
func FromToken(tok token.Token) *Identity {
	id := &Identity{
		Kind:     tok.Kind(),
		IssuedAt: tok.Created(),
		Token:    tok,
	}
	if e, ok := tok.(token.Expiring); ok {
		id.ExpiresAt = e.Expires()
	}

	switch t := tok.(type) {
	case *token.App:
		id.Subject = t.Subject
		id.InitialFactors = t.InitialFactors
		id.SessionFactors = t.SessionFactors
		id.LOA = t.LOA
	case *token.ID:
		id.Subject = t.Subject
		id.InitialFactors = t.InitialFactors
		id.SessionFactors = t.SessionFactors
		id.LOA = t.LOA
	case *token.WebkdcProxy:
		id.Subject = t.Subject
		id.InitialFactors = t.InitialFactors
		id.LOA = t.LOA
	case *token.WebkdcFactor:
		id.Subject = t.Subject
		id.InitialFactors = t.Factors
	}
	return id
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// WithTransaction sets the request transaction id.
func (i *Identity) WithTransaction(id string) *Identity {
	i.TransactionID = id
	return i
}

// Factors returns the initial authentication factors as a list.
func (i *Identity) Factors() []string {
	return SplitFactors(i.InitialFactors)
}

// HasFactor reports whether factor is among the initial or session factors.
func (i *Identity) HasFactor(factor string) bool {
	for _, list := range []string{i.InitialFactors, i.SessionFactors} {
		for _, f := range SplitFactors(list) {
			if f == factor {
				return true
			}
		}
	}
	return false
}

// SplitFactors splits a comma-separated factor list, dropping empty entries.
func SplitFactors(factors string) []string {
	if factors == "" {
		return nil
	}
	parts := strings.Split(factors, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
