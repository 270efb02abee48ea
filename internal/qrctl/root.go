// Package qrctl implements the administration CLI: entry management,
// token lifecycle operations and audit queries against a running server.
package qrctl

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "qrctl",
	Short: "Manage QR entries and resolver tokens.",
	Long: `qrctl talks to the qrfoundry server's admin API: create entries,
compute their encoded content, and issue, rotate or revoke the resolver
tokens behind them.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("server", "s", "http://localhost:8080", "Base URL of the qrfoundry server")
	rootCmd.PersistentFlags().StringP("auth", "a", "", "Bearer token for the admin API (or QRCTL_AUTH env)")
}
