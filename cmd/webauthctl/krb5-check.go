package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/config"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/diag"
	"github.com/doodlesbykumbi/webauth-in-go/pkg/krb5"
)

// krb5CheckCmd represents the krb5 check command
var krb5CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that krb5.conf and the keytab can be loaded",
	Long: `Open a Kerberos session from the configured krb5_conf, keytab and
krb5_principal, print what was loaded and release the session.

With --login, also obtain initial credentials for the principal from the KDC.

Example:
  webauthctl krb5 check
  webauthctl krb5 check --login`,
	Run: func(cmd *cobra.Command, args []string) {
		login, _ := cmd.Flags().GetBool("login")

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		logger := diag.NewLogger(diag.Options{Name: "webauthctl", Level: cfg.LogLevel, Output: os.Stderr})
		lib := krb5.Gokrb{ConfPath: cfg.Krb5Conf, KeytabPath: cfg.Keytab, Principal: cfg.Krb5Principal}
		if err := checkKrb5(os.Stdout, lib, diag.FromLogger(logger), login); err != nil {
			fmt.Fprintf(os.Stderr, "Kerberos check failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	krb5Cmd.AddCommand(krb5CheckCmd)
	krb5CheckCmd.Flags().Bool("login", false, "obtain initial credentials from the KDC")
}

func checkKrb5(w io.Writer, lib krb5.Gokrb, sink diag.Sink, login bool) error {
	sess, err := krb5.Open(lib, sink, "krb5 check")
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	gs, ok := sess.(*krb5.GokrbSession)
	if !ok {
		return fmt.Errorf("unexpected session type %T", sess)
	}

	fmt.Fprintf(w, "krb5.conf:      %s\n", lib.ConfPath)
	fmt.Fprintf(w, "default realm:  %s\n", gs.Realm())
	if gs.Keytab != nil {
		fmt.Fprintf(w, "keytab:         %s (%d entries)\n", lib.KeytabPath, len(gs.Keytab.Entries))
	}
	if lib.Principal != "" {
		fmt.Fprintf(w, "principal:      %s\n", lib.Principal)
	}

	if login {
		if err := gs.Login(sink, "krb5 check"); err != nil {
			return err
		}
		fmt.Fprintln(w, "login:          ok")
	}
	return nil
}
