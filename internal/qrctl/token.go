package qrctl

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage resolver tokens",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue <entry-id>",
	Short: "Issue a new token for an entry",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var out json.RawMessage
		if err := newClient(cmd).do("POST", "/api/entries/"+args[0]+"/tokens", nil, &out); err != nil {
			log.Fatal(err)
		}
		printJSON(out)
	},
}

var tokenEnsureCmd = &cobra.Command{
	Use:   "ensure <entry-id>",
	Short: "Reuse the entry's active token, issuing one only if none exists",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var out json.RawMessage
		if err := newClient(cmd).do("POST", "/api/entries/"+args[0]+"/ensure-token", nil, &out); err != nil {
			log.Fatal(err)
		}
		printJSON(out)
	},
}

var tokenRotateCmd = &cobra.Command{
	Use:   "rotate <entry-id>",
	Short: "Revoke the entry's active tokens and issue a fresh one",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var out json.RawMessage
		if err := newClient(cmd).do("POST", "/api/entries/"+args[0]+"/rotate", nil, &out); err != nil {
			log.Fatal(err)
		}
		printJSON(out)
	},
}

var tokenRevokeCmd = &cobra.Command{
	Use:   "revoke <token-id>",
	Short: "Revoke a token",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := newClient(cmd).do("POST", "/api/tokens/"+args[0]+"/revoke", nil, nil); err != nil {
			log.Fatal(err)
		}
		fmt.Println("revoked")
	},
}

var tokenScansCmd = &cobra.Command{
	Use:   "scans <token-id>",
	Short: "List a token's scan history, newest first",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var out json.RawMessage
		if err := newClient(cmd).do("GET", "/api/tokens/"+args[0]+"/scans", nil, &out); err != nil {
			log.Fatal(err)
		}
		printJSON(out)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenIssueCmd)
	tokenCmd.AddCommand(tokenEnsureCmd)
	tokenCmd.AddCommand(tokenRotateCmd)
	tokenCmd.AddCommand(tokenRevokeCmd)
	tokenCmd.AddCommand(tokenScansCmd)
}
