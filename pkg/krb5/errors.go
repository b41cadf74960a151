package krb5

import (
	"fmt"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/diag"
)

// Error is a credential library failure. It is implemented only by
// *StatusError and *KrbError.
type Error interface {
	error
	Status() Status
	detail() string
}

// StatusError is a failure with a generic status and no session detail.
type StatusError struct {
	Code Status
}

func (e *StatusError) Error() string  { return e.detail() }
func (e *StatusError) Status() Status { return e.Code }

func (e *StatusError) detail() string {
	return fmt.Sprintf("%s (%d)", e.Code.Message(), int(e.Code))
}

// KrbError is a library-internal failure. The native message and code are
// copied out of the session before it is released.
type KrbError struct {
	Code          Status
	NativeMessage string
	NativeCode    int
}

func (e *KrbError) Error() string  { return e.detail() }
func (e *KrbError) Status() Status { return e.Code }

func (e *KrbError) detail() string {
	return fmt.Sprintf("%s (%d): %s %d", e.Code.Message(), int(e.Code), e.NativeMessage, e.NativeCode)
}

// NewError builds the error variant for status. Only StatusKrb5 with a
// session yields a *KrbError.
func NewError(status Status, sess Session) Error {
	if status == StatusKrb5 && sess != nil {
		return &KrbError{
			Code:          status,
			NativeMessage: sess.ErrorMessage(),
			NativeCode:    sess.ErrorCode(),
		}
	}
	return &StatusError{Code: status}
}

// Report sends one line describing err to sink.
func Report(sink diag.Sink, err Error, op, caller string) {
	diag.Errorf(sink, "%s: %s failed: %s", caller, op, err.detail())
}

