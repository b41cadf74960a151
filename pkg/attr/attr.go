package attr

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/diag"
)

var (
	// ErrNotFound indicates a required attribute is absent.
	ErrNotFound = errors.New("attribute not found")

	// ErrMalformed indicates an attribute value has the wrong encoding.
	ErrMalformed = errors.New("attribute value malformed")

	// ErrCorrupt indicates an attribute list encoding cannot be parsed.
	ErrCorrupt = errors.New("attribute list corrupt")
)

// Attr is a single attribute. The value length is len(Value).
type Attr struct {
	Name  string
	Value []byte
}

// List is an ordered attribute list.
type List struct {
	attrs []Attr
	err   error
}

// New returns an empty list with room for n attributes.
func New(n int) *List {
	return &List{attrs: make([]Attr, 0, n)}
}

// Len returns the number of attributes.
func (l *List) Len() int {
	return len(l.attrs)
}

// At returns the attribute at index i.
func (l *List) At(i int) Attr {
	return l.attrs[i]
}

// Attrs returns the attributes in order. The slice must not be modified.
func (l *List) Attrs() []Attr {
	return l.attrs
}

// Add appends an attribute. The value is not copied.
func (l *List) Add(name string, value []byte) *List {
	l.attrs = append(l.attrs, Attr{Name: name, Value: value})
	return l
}

// AddString appends a string attribute.
func (l *List) AddString(name, value string) *List {
	return l.Add(name, []byte(value))
}

// AddUint32 appends a 4-byte big-endian attribute.
func (l *List) AddUint32(name string, value uint32) *List {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, value)
	return l.Add(name, buf)
}

// AddTime appends a time as 4-byte big-endian seconds since the Unix epoch.
// A time the encoding cannot hold (before 1970 or after 2106) is not
// appended and is reported by Err.
func (l *List) AddTime(name string, t time.Time) *List {
	secs := t.Unix()
	if secs < 0 || secs > math.MaxUint32 {
		if l.err == nil {
			l.err = fmt.Errorf("%w: %s: time %s out of range", ErrMalformed, name, t.UTC().Format(time.RFC3339))
		}
		return l
	}
	return l.AddUint32(name, uint32(secs))
}

// Err returns the first error recorded while building the list.
func (l *List) Err() error {
	return l.err
}

// Find returns the index of the first attribute called name.
func (l *List) Find(name string) (int, bool) {
	for i := range l.attrs {
		if l.attrs[i].Name == name {
			return i, true
		}
	}
	return -1, false
}

// Get returns the value of the first attribute called name. The returned
// slice aliases the list.
func (l *List) Get(name string) ([]byte, bool) {
	i, ok := l.Find(name)
	if !ok {
		return nil, false
	}
	return l.attrs[i].Value, true
}

// GetString is Get converted to a string.
func (l *List) GetString(name string) (string, bool) {
	v, ok := l.Get(name)
	return string(v), ok
}

// GetRequired returns the value of a required attribute. When the attribute
// is missing, one line naming caller and name is sent to sink and the
// returned error wraps ErrNotFound.
func (l *List) GetRequired(name string, sink diag.Sink, caller string) ([]byte, error) {
	v, ok := l.Get(name)
	if !ok {
		diag.Errorf(sink, "%s: can't find attr(%s) in attr list", caller, name)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return v, nil
}

// GetRequiredString is GetRequired converted to a string. Embedded zero
// bytes are preserved.
func (l *List) GetRequiredString(name string, sink diag.Sink, caller string) (string, error) {
	v, err := l.GetRequired(name, sink, caller)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// GetUint32 decodes a 4-byte big-endian attribute.
func (l *List) GetUint32(name string) (uint32, error) {
	v, ok := l.Get(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return parseUint32(name, v)
}

// GetTime decodes a time attribute.
func (l *List) GetTime(name string) (time.Time, error) {
	n, err := l.GetUint32(name)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(n), 0), nil
}

// RequiredUint32 is GetUint32 with the logging behavior of GetRequired.
func (l *List) RequiredUint32(name string, sink diag.Sink, caller string) (uint32, error) {
	v, err := l.GetRequired(name, sink, caller)
	if err != nil {
		return 0, err
	}
	return parseUint32(name, v)
}

// RequiredTime is GetTime with the logging behavior of GetRequired.
func (l *List) RequiredTime(name string, sink diag.Sink, caller string) (time.Time, error) {
	n, err := l.RequiredUint32(name, sink, caller)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(n), 0), nil
}

func parseUint32(name string, v []byte) (uint32, error) {
	if len(v) != 4 {
		return 0, fmt.Errorf("%w: %s has length %d, want 4", ErrMalformed, name, len(v))
	}
	return binary.BigEndian.Uint32(v), nil
}
