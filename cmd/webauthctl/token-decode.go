package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/config"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/diag"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/token"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/unseal"
)

// DecodeResult is the JSON output of token decode.
type DecodeResult struct {
	Kind      string      `json:"token_type"`
	Token     token.Token `json:"token"`
	Live      bool        `json:"live"`
	FreshNow  bool        `json:"fresh_issue"`
	CheckedAt int64       `json:"checked_at"`
}

// tokenDecodeCmd represents the token decode command
var tokenDecodeCmd = &cobra.Command{
	Use:   "decode <file>",
	Short: "Decode a token and report its freshness",
	Long: `Decode a sealed token read from a file ("-" for stdin) and print the
decoded record as JSON together with its expiration and creation checks.

Missing attributes are reported on stderr.

Example:
  webauthctl token decode --kind app --base64 app.tok
  webauthctl token decode --unsealer jwt --jwt-key-file /etc/webauth/jwt.key id.jwt`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := decodeOptionsFromFlags(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid arguments: %v\n", err)
			os.Exit(1)
		}

		raw, err := readInput(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read token: %v\n", err)
			os.Exit(1)
		}

		sink := diag.FromLogger(diag.NewLogger(diag.Options{Name: "webauthctl", Level: "error", Output: os.Stderr}))
		if err := decodeToken(os.Stdout, raw, opts, sink); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to decode token: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	tokenCmd.AddCommand(tokenDecodeCmd)
	tokenDecodeCmd.Flags().String("kind", "", "token type (default: any, from the t attribute)")
	tokenDecodeCmd.Flags().String("unsealer", "", "unsealer name (default from configuration)")
	tokenDecodeCmd.Flags().String("jwt-key-file", "", "HMAC key for the jwt unsealer (default from configuration)")
	tokenDecodeCmd.Flags().Bool("base64", false, "input is base64url, as sent in the Authorization header")
	tokenDecodeCmd.Flags().Int64("now", 0, "evaluate freshness at this Unix time instead of the current time")
}

type decodeOptions struct {
	Kind     *token.Kind
	Unsealer unseal.Unsealer
	Base64   bool
	Now      time.Time
}

func decodeOptionsFromFlags(cmd *cobra.Command) (decodeOptions, error) {
	var opts decodeOptions

	cfg, err := config.Load()
	if err != nil {
		return opts, err
	}
	if name, _ := cmd.Flags().GetString("unsealer"); name != "" {
		cfg.Unsealer = name
	}
	if path, _ := cmd.Flags().GetString("jwt-key-file"); path != "" {
		cfg.JWTKeyFile = path
	}
	key, err := cfg.JWTKey()
	if err != nil {
		return opts, err
	}
	opts.Unsealer, err = unseal.Builtin(key).Lookup(cfg.Unsealer)
	if err != nil {
		return opts, err
	}

	if name, _ := cmd.Flags().GetString("kind"); name != "" {
		k, err := token.KindString(name)
		if err != nil {
			return opts, err
		}
		opts.Kind = &k
	}

	opts.Base64, _ = cmd.Flags().GetBool("base64")
	opts.Now = time.Now()
	if now, _ := cmd.Flags().GetInt64("now"); now != 0 {
		opts.Now = time.Unix(now, 0)
	}
	return opts, nil
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

func decodeToken(w io.Writer, raw []byte, opts decodeOptions, sink diag.Sink) error {
	if opts.Base64 {
		decoded, err := base64.URLEncoding.DecodeString(string(bytes.TrimSpace(raw)))
		if err != nil {
			return fmt.Errorf("invalid base64: %w", err)
		}
		raw = decoded
	}

	list, err := opts.Unsealer.Unseal(raw)
	if err != nil {
		return err
	}

	var tok token.Token
	if opts.Kind != nil {
		tok, err = token.Decode(list, *opts.Kind, sink)
	} else {
		tok, err = token.DecodeAny(list, sink)
	}
	if err != nil {
		return err
	}

	result := DecodeResult{
		Kind:      tok.Kind().String(),
		Token:     tok,
		Live:      token.Live(tok, opts.Now),
		FreshNow:  token.CheckCreation(time.Time{}, tok.Created(), opts.Now),
		CheckedAt: opts.Now.Unix(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
