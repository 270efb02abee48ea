package qrctl

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/qrfoundry/qrfoundry/internal/server/auth"
)

// login-token signs a bearer token locally with the server's secret.
// Useful for bootstrapping and scripted deployments where no identity
// provider is wired in.
var loginTokenCmd = &cobra.Command{
	Use:   "login-token",
	Short: "Sign an admin API bearer token with the server secret",
	Run: func(cmd *cobra.Command, args []string) {
		secret, _ := cmd.Flags().GetString("secret")
		user, _ := cmd.Flags().GetString("user")
		roles, _ := cmd.Flags().GetStringSlice("roles")
		validity, _ := cmd.Flags().GetDuration("validity")

		if secret == "" || user == "" {
			log.Fatal("both --secret and --user are required")
		}

		tok, err := auth.GenerateToken(user, roles, []byte(secret), validity)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(tok)
	},
}

func init() {
	rootCmd.AddCommand(loginTokenCmd)
	loginTokenCmd.Flags().String("secret", "", "Server secret key")
	loginTokenCmd.Flags().String("user", "", "User ID to embed in the token")
	loginTokenCmd.Flags().StringSlice("roles", []string{auth.RoleQRManager}, "Roles to grant")
	loginTokenCmd.Flags().Duration("validity", 24*time.Hour, "Token validity")
}
