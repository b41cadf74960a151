// Package attr implements attribute lists, the binary-safe wire form of
// WebAuth token fields.
//
// An attribute list is an ordered sequence of name/value pairs. Names may
// repeat; lookups return the first match. Values are raw bytes and may hold
// embedded zero bytes, so the length of a value is always len(value).
//
// # Wire Format
//
// Lists are encoded as name=value; pairs. A ';' inside a value is doubled:
//
//	t=app;s=alice;loa=;;x;;;
//
// Times and unsigned integers are stored as 4-byte big-endian values.
//
// # Required Attributes
//
// GetRequired reports a missing attribute to a diag.Sink before returning
// ErrNotFound, so a token decoder never has to remember to log:
//
//	value, err := list.GetRequired("s", sink, "parseAppToken")
//	if err != nil {
//	    return err // already logged
//	}
package attr
