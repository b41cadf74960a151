package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// krb5Cmd represents the krb5 command
var krb5Cmd = &cobra.Command{
	Use:   "krb5",
	Short: "Kerberos setup tools",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'krb5' requires a subcommand (check)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(krb5Cmd)
}
