// Package token decodes WebAuth tokens from attribute lists and checks their
// freshness.
//
// Each token kind has a fixed set of required attributes. Decode either
// resolves all of them or fails with a *DecodeError naming the first
// attribute that was missing or malformed; missing attributes are also
// reported to the supplied diag.Sink.
//
// # Basic Usage
//
//	list, err := attr.Decode(raw)
//	if err != nil {
//	    return err
//	}
//
//	tok, err := token.Decode(list, token.KindWebkdcFactor, sink)
//	if err != nil {
//	    return err
//	}
//
//	if !token.Live(tok, time.Now()) {
//	    return errors.New("token expired")
//	}
//
// # Freshness
//
// CheckCreation has two modes. With no claimed creation time the observed
// time must sit within a small skew window around now. With a claimed time
// the observed time must match it exactly, which is how a cached record is
// re-verified.
package token
