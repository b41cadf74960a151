package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/attr"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/diag"
)

// Attribute names.
const (
	AttrType            = "t"
	AttrSubject         = "s"
	AttrFactors         = "f"
	AttrCreation        = "ct"
	AttrExpiration      = "et"
	AttrInitialFactors  = "ia"
	AttrSessionFactors  = "san"
	AttrLOA             = "loa"
	AttrSubjectAuth     = "sa"
	AttrSubjectAuthData = "sad"
	AttrProxySubject    = "ps"
	AttrProxyType       = "pt"
	AttrProxyData       = "pd"
	AttrErrorCode       = "ec"
	AttrErrorMessage    = "em"
)

// Decode extracts a token of the given kind from list. Missing required
// attributes are reported to sink. Either every required attribute resolves
// or a *DecodeError is returned; a partial record is never returned.
func Decode(list *attr.List, kind Kind, sink diag.Sink) (Token, error) {
	switch kind {
	case KindApp:
		return decodeApp(newDecoder(list, kind, sink, "decodeApp"))
	case KindID:
		return decodeID(newDecoder(list, kind, sink, "decodeID"))
	case KindError:
		return decodeError(newDecoder(list, kind, sink, "decodeError"))
	case KindWebkdcFactor:
		return decodeWebkdcFactor(newDecoder(list, kind, sink, "decodeWebkdcFactor"))
	case KindWebkdcProxy:
		return decodeWebkdcProxy(newDecoder(list, kind, sink, "decodeWebkdcProxy"))
	default:
		return nil, &DecodeError{Kind: kind, Field: AttrType, Err: ErrUnknownKind}
	}
}

// DecodeAny reads the "t" attribute and decodes the token it names.
func DecodeAny(list *attr.List, sink diag.Sink) (Token, error) {
	t, err := list.GetRequiredString(AttrType, sink, "DecodeAny")
	if err != nil {
		return nil, &DecodeError{Kind: Kind(-1), Field: AttrType, Err: err}
	}
	kind, err := KindString(t)
	if err != nil {
		return nil, &DecodeError{Kind: Kind(-1), Field: AttrType, Err: fmt.Errorf("%w: %q", ErrUnknownKind, t)}
	}
	return Decode(list, kind, sink)
}

// decoder keeps the first failure; later reads become no-ops.
type decoder struct {
	list   *attr.List
	kind   Kind
	sink   diag.Sink
	caller string
	err    error
}

func newDecoder(list *attr.List, kind Kind, sink diag.Sink, caller string) *decoder {
	d := &decoder{list: list, kind: kind, sink: sink, caller: caller}
	if t := d.str(AttrType); d.err == nil && t != kind.String() {
		d.fail(AttrType, fmt.Errorf("%w: %q", ErrWrongKind, t))
	}
	return d
}

func (d *decoder) fail(field string, err error) {
	if d.err == nil {
		d.err = &DecodeError{Kind: d.kind, Field: field, Err: err}
	}
}

func (d *decoder) str(name string) string {
	if d.err != nil {
		return ""
	}
	v, err := d.list.GetRequiredString(name, d.sink, d.caller)
	if err != nil {
		d.fail(name, err)
	}
	return v
}

func (d *decoder) timestamp(name string) time.Time {
	if d.err != nil {
		return time.Time{}
	}
	v, err := d.list.RequiredTime(name, d.sink, d.caller)
	if err != nil {
		d.fail(name, err)
	}
	return v
}

func (d *decoder) number(name string) uint32 {
	if d.err != nil {
		return 0
	}
	v, err := d.list.RequiredUint32(name, d.sink, d.caller)
	if err != nil {
		d.fail(name, err)
	}
	return v
}

func (d *decoder) optStr(name string) string {
	v, _ := d.list.GetString(name)
	return v
}

func (d *decoder) optBytes(name string) []byte {
	v, ok := d.list.Get(name)
	if !ok {
		return nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out
}

func (d *decoder) optUint32(name string) uint32 {
	if d.err != nil {
		return 0
	}
	v, err := d.list.GetUint32(name)
	if err != nil && !errors.Is(err, attr.ErrNotFound) {
		d.fail(name, err)
	}
	return v
}

func decodeWebkdcFactor(d *decoder) (Token, error) {
	tok := &WebkdcFactor{
		Subject:    d.str(AttrSubject),
		Factors:    d.str(AttrFactors),
		Creation:   d.timestamp(AttrCreation),
		Expiration: d.timestamp(AttrExpiration),
	}
	if d.err != nil {
		return nil, d.err
	}
	return tok, nil
}

func decodeApp(d *decoder) (Token, error) {
	tok := &App{
		Subject:        d.str(AttrSubject),
		Creation:       d.timestamp(AttrCreation),
		Expiration:     d.timestamp(AttrExpiration),
		InitialFactors: d.optStr(AttrInitialFactors),
		SessionFactors: d.optStr(AttrSessionFactors),
		LOA:            d.optUint32(AttrLOA),
	}
	if d.err != nil {
		return nil, d.err
	}
	return tok, nil
}

func decodeID(d *decoder) (Token, error) {
	tok := &ID{
		AuthType:       d.str(AttrSubjectAuth),
		Subject:        d.str(AttrSubject),
		Creation:       d.timestamp(AttrCreation),
		Expiration:     d.timestamp(AttrExpiration),
		AuthData:       d.optBytes(AttrSubjectAuthData),
		InitialFactors: d.optStr(AttrInitialFactors),
		SessionFactors: d.optStr(AttrSessionFactors),
		LOA:            d.optUint32(AttrLOA),
	}
	if d.err != nil {
		return nil, d.err
	}
	return tok, nil
}

func decodeWebkdcProxy(d *decoder) (Token, error) {
	tok := &WebkdcProxy{
		Subject:        d.str(AttrSubject),
		ProxySubject:   d.str(AttrProxySubject),
		ProxyType:      d.str(AttrProxyType),
		Creation:       d.timestamp(AttrCreation),
		Expiration:     d.timestamp(AttrExpiration),
		ProxyData:      d.optBytes(AttrProxyData),
		InitialFactors: d.optStr(AttrInitialFactors),
		LOA:            d.optUint32(AttrLOA),
	}
	if d.err != nil {
		return nil, d.err
	}
	return tok, nil
}

func decodeError(d *decoder) (Token, error) {
	tok := &Error{
		Code:     d.number(AttrErrorCode),
		Message:  d.str(AttrErrorMessage),
		Creation: d.timestamp(AttrCreation),
	}
	if d.err != nil {
		return nil, d.err
	}
	return tok, nil
}
