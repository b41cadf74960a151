package krb5

import "fmt"

// Status is a credential library status code.
type Status int

const (
	StatusNone Status = iota
	StatusNoRoom
	StatusCorrupt
	StatusNoMem
	StatusBadHMAC
	StatusRandFailure
	StatusBadKey
	StatusKeyringOpenWrite
	StatusKeyringWrite
	StatusKeyringOpenRead
	StatusKeyringRead
	StatusKeyringVersion
	StatusNotFound
	StatusKrb5
	StatusInvalidContext
	StatusLoginFailed
	StatusTokenExpired
	StatusTokenStale
)

var statusMessages = map[Status]string{
	StatusNone:             "no error occurred",
	StatusNoRoom:           "supplied buffer too small",
	StatusCorrupt:          "data is incorrectly formatted",
	StatusNoMem:            "no memory",
	StatusBadHMAC:          "HMAC check failed",
	StatusRandFailure:      "unable to get random data",
	StatusBadKey:           "unable to use key",
	StatusKeyringOpenWrite: "unable to open keyring for writing",
	StatusKeyringWrite:     "error writing to keyring file",
	StatusKeyringOpenRead:  "unable to open keyring for reading",
	StatusKeyringRead:      "error reading from keyring file",
	StatusKeyringVersion:   "bad keyring version",
	StatusNotFound:         "item not found while searching",
	StatusKrb5:             "Kerberos error",
	StatusInvalidContext:   "invalid context passed to function",
	StatusLoginFailed:      "login failed",
	StatusTokenExpired:     "token has expired",
	StatusTokenStale:       "token is stale",
}

// Message returns the generic message for s.
func (s Status) Message() string {
	if msg, ok := statusMessages[s]; ok {
		return msg
	}
	return fmt.Sprintf("unknown error code %d", int(s))
}
