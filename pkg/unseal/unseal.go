package unseal

import (
	"errors"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/attr"
)

// ErrInvalid is returned for raw input that cannot be unsealed.
var ErrInvalid = errors.New("invalid sealed token")

// Unsealer recovers an attribute list from sealed token bytes.
type Unsealer interface {
	// Name returns the registry name (e.g., "wire", "jwt")
	Name() string

	// Unseal verifies raw and returns its attributes
	Unseal(raw []byte) (*attr.List, error)
}

const (
	NameWire = "wire"
	NameJWT  = "jwt"
)

// Wire treats raw input as the attribute wire encoding.
type Wire struct{}

func (Wire) Name() string { return NameWire }

func (Wire) Unseal(raw []byte) (*attr.List, error) {
	list, err := attr.Decode(raw)
	if err != nil {
		return nil, errors.Join(ErrInvalid, err)
	}
	return list, nil
}
