package token

import "time"

const (
	// CreationSkewPast is how far in the past a newly issued token's
	// creation time may lie.
	CreationSkewPast = 5 * time.Second

	// CreationSkewFuture is how far in the future a newly issued token's
	// creation time may lie.
	CreationSkewFuture = time.Second
)

// CheckCreation reports whether observed is an acceptable creation time.
//
// With a zero claimed time, observed must fall within
// [now-CreationSkewPast, now+CreationSkewFuture], both ends inclusive.
// Otherwise observed must equal claimed and no window applies.
// Comparisons are made in whole seconds, the resolution tokens carry.
func CheckCreation(claimed, observed, now time.Time) bool {
	if !claimed.IsZero() {
		return claimed.Unix() == observed.Unix()
	}
	ts := observed.Unix()
	lo := now.Add(-CreationSkewPast).Unix()
	hi := now.Add(CreationSkewFuture).Unix()
	return ts >= lo && ts <= hi
}

// CheckExpiration reports whether a token expiring at expiration may still
// be honored at now. A token is expired from its expiration second onward.
func CheckExpiration(expiration, now time.Time) bool {
	return now.Unix() < expiration.Unix()
}

// Live reports whether tok has not expired at now. Tokens without an
// expiration are always live.
func Live(tok Token, now time.Time) bool {
	e, ok := tok.(Expiring)
	if !ok {
		return true
	}
	return CheckExpiration(e.Expires(), now)
}
