package verifier

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/attr"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/diag"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/request"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/token"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/unseal"
)

var (
	// ErrExpired indicates a token at or past its expiration time.
	ErrExpired = errors.New("token expired")

	// ErrStale indicates a token whose creation time is outside the
	// accepted window for a newly issued token.
	ErrStale = errors.New("token stale")
)

// Verifier checks tokens for one unsealer.
type Verifier struct {
	unsealer unseal.Unsealer
	fresh    map[token.Kind]bool
	now      func() time.Time
	metrics  *metrics.Metrics
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithFreshIssue requires tokens of the given kinds to have been created
// within the creation skew window of the verification time.
func WithFreshIssue(kinds ...token.Kind) Option {
	return func(v *Verifier) {
		for _, k := range kinds {
			v.fresh[k] = true
		}
	}
}

// WithClock overrides the verification clock.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		v.now = now
	}
}

// WithMetrics records verification outcomes in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(v *Verifier) {
		v.metrics = m
	}
}

// New creates a Verifier that unseals raw tokens with u.
func New(u unseal.Unsealer, opts ...Option) *Verifier {
	v := &Verifier{
		unsealer: u,
		fresh:    make(map[token.Kind]bool),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// note is what Verify keeps in the transaction: the accepted record and the
// sealed bytes it came from.
type note struct {
	raw []byte
	tok token.Token
}

// Verify returns the token of the given kind for tx. A live token noted in tx
// from the same raw bytes is returned as is; otherwise raw is unsealed,
// decoded, checked and noted in place of any earlier token.
func (v *Verifier) Verify(tx *request.Transaction, kind token.Kind, raw []byte) (token.Token, error) {
	now := v.now()
	key := kind.NoteKey()

	if n, ok := v.note(tx, kind); ok {
		switch {
		case !token.Live(n.tok, now):
			tx.Remove(key)
		case bytes.Equal(n.raw, raw):
			v.metrics.Cache(kind, true)
			return n.tok, nil
		}
	}
	v.metrics.Cache(kind, false)

	list, err := v.unsealer.Unseal(raw)
	if err != nil {
		v.metrics.Decoded(kind, metrics.ResultInvalid)
		diag.Errorf(tx.Sink(), "verifier: cannot unseal %s token: %v", kind, err)
		return nil, fmt.Errorf("verify %s token: %w", kind, err)
	}

	tok, err := token.Decode(list, kind, tx.Sink())
	if err != nil {
		result := metrics.ResultInvalid
		if errors.Is(err, attr.ErrNotFound) {
			result = metrics.ResultNotFound
		}
		v.metrics.Decoded(kind, result)
		return nil, fmt.Errorf("verify %s token: %w", kind, err)
	}
	v.metrics.Decoded(kind, metrics.ResultOK)

	if !token.Live(tok, now) {
		v.metrics.Checked(kind, metrics.ResultExpired)
		return nil, fmt.Errorf("verify %s token: %w", kind, ErrExpired)
	}
	if v.fresh[kind] && !token.CheckCreation(time.Time{}, tok.Created(), now) {
		v.metrics.Checked(kind, metrics.ResultStale)
		return nil, fmt.Errorf("verify %s token: %w", kind, ErrStale)
	}
	v.metrics.Checked(kind, metrics.ResultOK)

	tx.Set(key, &note{raw: bytes.Clone(raw), tok: tok})
	return tok, nil
}

// Reverify reports whether observed matches the token of the same kind noted
// in tx. The creation time must be identical; no skew window applies.
func (v *Verifier) Reverify(tx *request.Transaction, kind token.Kind, observed token.Token) bool {
	cached, ok := v.cached(tx, kind)
	if !ok || observed == nil || observed.Kind() != kind {
		v.metrics.Checked(kind, metrics.ResultMismatch)
		return false
	}
	if !token.CheckCreation(cached.Created(), observed.Created(), v.now()) {
		v.metrics.Checked(kind, metrics.ResultMismatch)
		return false
	}
	v.metrics.Checked(kind, metrics.ResultOK)
	return true
}

// Cached returns the token of the given kind noted in tx, if any.
func (v *Verifier) Cached(tx *request.Transaction, kind token.Kind) (token.Token, bool) {
	return v.cached(tx, kind)
}

func (v *Verifier) cached(tx *request.Transaction, kind token.Kind) (token.Token, bool) {
	n, ok := v.note(tx, kind)
	if !ok {
		return nil, false
	}
	return n.tok, true
}

func (v *Verifier) note(tx *request.Transaction, kind token.Kind) (*note, bool) {
	value, ok := tx.Get(kind.NoteKey())
	if !ok {
		return nil, false
	}
	n, ok := value.(*note)
	if !ok || n.tok == nil || n.tok.Kind() != kind {
		return nil, false
	}
	return n, true
}
