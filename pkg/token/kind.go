package token

//go:generate go run github.com/dmarkham/enumer -type Kind -trimprefix Kind -transform kebab -yaml -output kind.gen.go

// Kind identifies a token type. Its string form is the value of the "t"
// attribute.
type Kind int

const (
	KindApp Kind = iota
	KindID
	KindError
	KindWebkdcFactor
	KindWebkdcProxy
)

// NoteKey is the request store key under which a decoded token of this kind
// is cached.
func (k Kind) NoteKey() string {
	return "webauth_token_" + k.String()
}
