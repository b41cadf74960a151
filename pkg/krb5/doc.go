// Package krb5 wraps the Kerberos credential library behind a small session
// contract and maps its failures to uniform diagnostic lines.
//
// A Library creates Sessions. Creation may fail in two ways:
//
//   - a generic status (StatusError): no session exists and nothing must be
//     released;
//   - a library-internal failure (StatusKrb5, KrbError): the half-built
//     session still carries the native error message and code, and must be
//     closed.
//
// Open handles both cases, reports exactly one line, and releases the
// session when required:
//
//	sess, err := krb5.Open(lib, sink, "getKrb5Context")
//	if err != nil {
//	    return err
//	}
//	defer sess.Close()
//
// Report formats the two variants differently. A library-internal failure
// includes the native message and code after the generic status:
//
//	mod_webauth: getKrb5Context: webauth_krb5_new failed: Kerberos error (13): cannot read krb5.conf -1
package krb5
