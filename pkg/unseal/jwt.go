package unseal

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/attr"
)

// ClaimAttrs is the JWT claim holding the base64 attribute wire encoding.
const ClaimAttrs = "attrs"

// JWT unseals compact HS256 tokens signed with Key.
//
// Registered JWT time claims are not checked. Token freshness is decided from
// the ct and et attributes by the verifier.
type JWT struct {
	Key []byte
}

func (j *JWT) Name() string { return NameJWT }

func (j *JWT) Unseal(raw []byte) (*attr.List, error) {
	if len(j.Key) == 0 {
		return nil, fmt.Errorf("%w: no jwt key configured", ErrInvalid)
	}

	tok, err := jwt.Parse(string(raw), func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Key, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: invalid claims format", ErrInvalid)
	}
	encoded, ok := claims[ClaimAttrs].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s claim", ErrInvalid, ClaimAttrs)
	}
	wire, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %s claim: %w", ErrInvalid, ClaimAttrs, err)
	}

	list, err := attr.Decode(wire)
	if err != nil {
		return nil, errors.Join(ErrInvalid, err)
	}
	return list, nil
}

// SealJWT signs list as a compact HS256 token.
func SealJWT(key []byte, list *attr.List) ([]byte, error) {
	if len(key) == 0 {
		return nil, errors.New("seal jwt: empty key")
	}
	wire, err := attr.Encode(list)
	if err != nil {
		return nil, fmt.Errorf("seal jwt: %w", err)
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		ClaimAttrs: base64.StdEncoding.EncodeToString(wire),
		"iat":      jwt.NewNumericDate(time.Now()),
	})
	signed, err := tok.SignedString(key)
	if err != nil {
		return nil, fmt.Errorf("seal jwt: %w", err)
	}
	return []byte(signed), nil
}
