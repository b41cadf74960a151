package attr

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrInvalidName indicates an attribute name that cannot be encoded.
var ErrInvalidName = errors.New("invalid attribute name")

// EncodedLen returns the length of the wire encoding of l.
func (l *List) EncodedLen() int {
	n := 0
	for _, a := range l.attrs {
		n += len(a.Name) + 2 + len(a.Value) + bytes.Count(a.Value, []byte{';'})
	}
	return n
}

// Encode returns the wire encoding of l.
func Encode(l *List) ([]byte, error) {
	if l.err != nil {
		return nil, l.err
	}
	buf := make([]byte, 0, l.EncodedLen())
	for _, a := range l.attrs {
		if a.Name == "" || bytes.ContainsAny([]byte(a.Name), "=;") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidName, a.Name)
		}
		buf = append(buf, a.Name...)
		buf = append(buf, '=')
		for _, b := range a.Value {
			if b == ';' {
				buf = append(buf, ';')
			}
			buf = append(buf, b)
		}
		buf = append(buf, ';')
	}
	return buf, nil
}

// Decode parses the wire encoding produced by Encode. Values are copied out
// of buf.
func Decode(buf []byte) (*List, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrCorrupt)
	}

	l := New(bytes.Count(buf, []byte{'='}))
	pos := 0
	for pos < len(buf) {
		eq := bytes.IndexByte(buf[pos:], '=')
		if eq <= 0 {
			return nil, fmt.Errorf("%w: missing name at offset %d", ErrCorrupt, pos)
		}
		name := buf[pos : pos+eq]
		if bytes.IndexByte(name, ';') >= 0 {
			return nil, fmt.Errorf("%w: invalid name at offset %d", ErrCorrupt, pos)
		}

		value := make([]byte, 0)
		i := pos + eq + 1
		terminated := false
		for i < len(buf) {
			if buf[i] != ';' {
				value = append(value, buf[i])
				i++
				continue
			}
			if i+1 < len(buf) && buf[i+1] == ';' {
				value = append(value, ';')
				i += 2
				continue
			}
			terminated = true
			i++
			break
		}
		if !terminated {
			return nil, fmt.Errorf("%w: unterminated value for %s", ErrCorrupt, name)
		}

		l.Add(string(name), value)
		pos = i
	}
	return l, nil
}
