// Package unseal turns the raw bytes carried by a request into an attribute
// list.
//
// Sealing (encryption and signing) of tokens belongs to the keyring library
// of a WebAuth deployment. This package defines the boundary the rest of the
// module depends on and ships two implementations:
//
//   - wire: the raw bytes are already the attribute wire encoding. Useful
//     behind a trusted proxy and in tests.
//   - jwt: the raw bytes are a compact HS256 JWS whose "attrs" claim holds the
//     base64 attribute wire encoding.
//
// # Registry
//
// Unsealers are looked up by name in a Registry. An unsealer must be both
// registered and enabled before Lookup returns it:
//
//	reg := unseal.NewRegistry()
//	reg.Register(unseal.Wire{})
//	_ = reg.Enable(unseal.NameWire)
//
//	u, err := reg.Lookup(cfg.Unsealer)
package unseal
