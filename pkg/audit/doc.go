// Package audit writes RFC5424 audit records for token verification.
//
// Every request that presents a token produces one VerifyEvent: the subject
// on success, or the reason the token was refused. Records go to the
// configured writer, one line each:
//
//	<86>1 2026-10-19T12:00:00.000Z host webauth 4242 verify [auth@32473 kind="app" user="alice"][client@32473 ip="10.0.0.1"] alice presented a valid app token
//
// A nil *Logger drops every event.
package audit
