package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "webauthctl",
	Short: "WebAuth token verification server and tools",
	Long: `Run the WebAuth token verification server and inspect tokens,
configuration and Kerberos setup.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
