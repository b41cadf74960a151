// Package identity provides the authenticated identity of a WebAuth request.
//
// An Identity combines the fields of a verified token (subject, factors,
// level of assurance, timestamps) with request-specific context.
//
// # Basic Usage
//
//	id := identity.FromToken(tok).
//	    WithRemoteIP(clientIP).
//	    WithTransaction(tx.ID())
//
//	ctx = identity.Set(ctx, id)
//
//	id, ok := identity.Get(ctx)
//	if ok && id.HasFactor("o") {
//	    // second factor present
//	}
package identity
