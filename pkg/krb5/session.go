package krb5

import (
	"github.com/doodlesbykumbi/webauth-in-go/pkg/diag"
)

// OpNewContext names session creation in diagnostic lines.
const OpNewContext = "webauth_krb5_new"

// Session is a credential library context. It is owned by one caller until
// Close.
type Session interface {
	// ErrorMessage returns the native message of the last failure.
	ErrorMessage() string
	// ErrorCode returns the native code of the last failure.
	ErrorCode() int
	// Close releases the session.
	Close() error
}

// Library creates sessions. On StatusKrb5 the returned session, if non-nil,
// describes the failure and must be closed. Any other non-zero status
// returns no session.
type Library interface {
	NewContext() (Session, Status)
}

// Open creates a session from lib. Failures are reported to sink once under
// caller, and a session returned with StatusKrb5 is closed before Open
// returns.
func Open(lib Library, sink diag.Sink, caller string) (Session, error) {
	sess, status := lib.NewContext()
	if status == StatusNone {
		if sess == nil {
			err := NewError(StatusInvalidContext, nil)
			Report(sink, err, OpNewContext, caller)
			return nil, err
		}
		return sess, nil
	}

	err := NewError(status, sess)
	Report(sink, err, OpNewContext, caller)
	if status == StatusKrb5 && sess != nil {
		_ = sess.Close()
	}
	return nil, err
}
