package token

import (
	"fmt"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/attr"
)

// Encode builds the attribute list for tok. Optional fields are written only
// when set, so Decode(Encode(tok)) yields an equal record.
func Encode(tok Token) (*attr.List, error) {
	list := attr.New(8).AddString(AttrType, tok.Kind().String())

	switch t := tok.(type) {
	case *WebkdcFactor:
		list.AddString(AttrSubject, t.Subject).
			AddString(AttrFactors, t.Factors).
			AddTime(AttrCreation, t.Creation).
			AddTime(AttrExpiration, t.Expiration)
	case *App:
		list.AddString(AttrSubject, t.Subject).
			AddTime(AttrCreation, t.Creation).
			AddTime(AttrExpiration, t.Expiration)
		addOptional(list, AttrInitialFactors, t.InitialFactors)
		addOptional(list, AttrSessionFactors, t.SessionFactors)
		addLOA(list, t.LOA)
	case *ID:
		list.AddString(AttrSubjectAuth, t.AuthType).
			AddString(AttrSubject, t.Subject).
			AddTime(AttrCreation, t.Creation).
			AddTime(AttrExpiration, t.Expiration)
		if len(t.AuthData) > 0 {
			list.Add(AttrSubjectAuthData, t.AuthData)
		}
		addOptional(list, AttrInitialFactors, t.InitialFactors)
		addOptional(list, AttrSessionFactors, t.SessionFactors)
		addLOA(list, t.LOA)
	case *WebkdcProxy:
		list.AddString(AttrSubject, t.Subject).
			AddString(AttrProxySubject, t.ProxySubject).
			AddString(AttrProxyType, t.ProxyType).
			AddTime(AttrCreation, t.Creation).
			AddTime(AttrExpiration, t.Expiration)
		if len(t.ProxyData) > 0 {
			list.Add(AttrProxyData, t.ProxyData)
		}
		addOptional(list, AttrInitialFactors, t.InitialFactors)
		addLOA(list, t.LOA)
	case *Error:
		list.AddUint32(AttrErrorCode, t.Code).
			AddString(AttrErrorMessage, t.Message).
			AddTime(AttrCreation, t.Creation)
	default:
		return nil, fmt.Errorf("encode token: unsupported type %T", tok)
	}
	if err := list.Err(); err != nil {
		return nil, fmt.Errorf("encode %s token: %w", tok.Kind(), err)
	}
	return list, nil
}

func addOptional(list *attr.List, name, value string) {
	if value != "" {
		list.AddString(name, value)
	}
}

func addLOA(list *attr.List, loa uint32) {
	if loa != 0 {
		list.AddUint32(AttrLOA, loa)
	}
}
