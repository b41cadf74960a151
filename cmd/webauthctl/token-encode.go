package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/attr"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/config"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/token"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/unseal"
)

// tokenEncodeCmd represents the token encode command
var tokenEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Build a token for testing",
	Long: `Build a token created now and print it base64url encoded, ready for an
"Authorization: WebAuth token=..." header or the WebAuth cookie.

Example:
  webauthctl token encode --kind app --subject alice --factors p,o --loa 2
  webauthctl token encode --kind id --subject alice --unsealer jwt --jwt-key-file jwt.key
  webauthctl token encode --kind error --code 16 --message "user canceled"`,
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := encodeSpecFromFlags(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid arguments: %v\n", err)
			os.Exit(1)
		}
		if err := encodeToken(os.Stdout, spec); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode token: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	tokenCmd.AddCommand(tokenEncodeCmd)
	tokenEncodeCmd.Flags().String("kind", "app", "token type")
	tokenEncodeCmd.Flags().String("subject", "", "authenticated subject")
	tokenEncodeCmd.Flags().String("factors", "p", "initial authentication factors")
	tokenEncodeCmd.Flags().String("session-factors", "", "session authentication factors")
	tokenEncodeCmd.Flags().Uint32("loa", 0, "level of assurance")
	tokenEncodeCmd.Flags().Duration("lifetime", time.Hour, "time until the token expires")
	tokenEncodeCmd.Flags().String("proxy-subject", "", "proxy subject (webkdc-proxy)")
	tokenEncodeCmd.Flags().String("proxy-type", "krb5", "proxy type (webkdc-proxy)")
	tokenEncodeCmd.Flags().String("auth-type", "webkdc", "subject authenticator type (id)")
	tokenEncodeCmd.Flags().Uint32("code", 0, "error code (error)")
	tokenEncodeCmd.Flags().String("message", "", "error message (error)")
	tokenEncodeCmd.Flags().String("unsealer", "", "seal for this unsealer (default from configuration)")
	tokenEncodeCmd.Flags().String("jwt-key-file", "", "HMAC key for the jwt unsealer (default from configuration)")
}

type encodeSpec struct {
	Kind           token.Kind
	Subject        string
	Factors        string
	SessionFactors string
	LOA            uint32
	Lifetime       time.Duration
	ProxySubject   string
	ProxyType      string
	AuthType       string
	Code           uint32
	Message        string
	Unsealer       string
	JWTKey         []byte
	Now            time.Time
}

func encodeSpecFromFlags(cmd *cobra.Command) (encodeSpec, error) {
	var spec encodeSpec
	flags := cmd.Flags()

	kindName, _ := flags.GetString("kind")
	kind, err := token.KindString(kindName)
	if err != nil {
		return spec, err
	}
	spec.Kind = kind
	spec.Subject, _ = flags.GetString("subject")
	spec.Factors, _ = flags.GetString("factors")
	spec.SessionFactors, _ = flags.GetString("session-factors")
	spec.LOA, _ = flags.GetUint32("loa")
	spec.Lifetime, _ = flags.GetDuration("lifetime")
	spec.ProxySubject, _ = flags.GetString("proxy-subject")
	spec.ProxyType, _ = flags.GetString("proxy-type")
	spec.AuthType, _ = flags.GetString("auth-type")
	spec.Code, _ = flags.GetUint32("code")
	spec.Message, _ = flags.GetString("message")
	spec.Now = time.Now()

	cfg, err := config.Load()
	if err != nil {
		return spec, err
	}
	spec.Unsealer = cfg.Unsealer
	if name, _ := flags.GetString("unsealer"); name != "" {
		spec.Unsealer = name
	}
	if path, _ := flags.GetString("jwt-key-file"); path != "" {
		cfg.JWTKeyFile = path
	}
	if spec.Unsealer == unseal.NameJWT {
		spec.JWTKey, err = cfg.JWTKey()
		if err != nil {
			return spec, err
		}
	}
	return spec, nil
}

// build returns the token described by spec.
func (spec encodeSpec) build() (token.Token, error) {
	created := spec.Now
	expires := created.Add(spec.Lifetime)

	if spec.Kind != token.KindError && spec.Subject == "" {
		return nil, fmt.Errorf("--subject is required for %s tokens", spec.Kind)
	}

	switch spec.Kind {
	case token.KindApp:
		return &token.App{
			Subject:        spec.Subject,
			InitialFactors: spec.Factors,
			SessionFactors: spec.SessionFactors,
			LOA:            spec.LOA,
			Creation:       created,
			Expiration:     expires,
		}, nil
	case token.KindID:
		return &token.ID{
			Subject:        spec.Subject,
			AuthType:       spec.AuthType,
			InitialFactors: spec.Factors,
			SessionFactors: spec.SessionFactors,
			LOA:            spec.LOA,
			Creation:       created,
			Expiration:     expires,
		}, nil
	case token.KindWebkdcFactor:
		return &token.WebkdcFactor{
			Subject:    spec.Subject,
			Factors:    spec.Factors,
			Creation:   created,
			Expiration: expires,
		}, nil
	case token.KindWebkdcProxy:
		if spec.ProxySubject == "" {
			return nil, fmt.Errorf("--proxy-subject is required for %s tokens", spec.Kind)
		}
		return &token.WebkdcProxy{
			Subject:        spec.Subject,
			ProxySubject:   spec.ProxySubject,
			ProxyType:      spec.ProxyType,
			InitialFactors: spec.Factors,
			LOA:            spec.LOA,
			Creation:       created,
			Expiration:     expires,
		}, nil
	case token.KindError:
		if spec.Message == "" {
			return nil, fmt.Errorf("--message is required for %s tokens", spec.Kind)
		}
		return &token.Error{Code: spec.Code, Message: spec.Message, Creation: created}, nil
	default:
		return nil, fmt.Errorf("unsupported token type %s", spec.Kind)
	}
}

func encodeToken(w io.Writer, spec encodeSpec) error {
	tok, err := spec.build()
	if err != nil {
		return err
	}
	list, err := token.Encode(tok)
	if err != nil {
		return err
	}

	var sealed []byte
	switch spec.Unsealer {
	case unseal.NameJWT:
		sealed, err = unseal.SealJWT(spec.JWTKey, list)
	case unseal.NameWire, "":
		sealed, err = attr.Encode(list)
	default:
		err = fmt.Errorf("unsealer %q not found", spec.Unsealer)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, base64.URLEncoding.EncodeToString(sealed))
	return err
}
