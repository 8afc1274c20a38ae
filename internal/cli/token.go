package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/triptracker/backend/internal/auth"
	"github.com/pkordes/triptracker/backend/internal/repo"
)

var (
	tokenEmail  string
	tokenSecret string
	tokenTTL    time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a session token for an existing account",
	Long: `Signs a session token for the account with the given email, without a
password. The secret must match the server's JWT_SECRET.

Examples:
  tripctl token --email root@example.com --ttl 1h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenSecret == "" {
			return fmt.Errorf("no signing secret: pass --jwt-secret or set JWT_SECRET")
		}
		pool, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		u, err := repo.NewUserRepo(pool).GetByEmail(cmd.Context(), tokenEmail)
		if err != nil {
			return fmt.Errorf("look up %s: %w", tokenEmail, err)
		}
		token, err := auth.NewJWTManager(tokenSecret, tokenTTL).Generate(u)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd, map[string]string{"token": token, "role": string(u.Role)})
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Account email (required)")
	tokenCmd.Flags().StringVar(&tokenSecret, "jwt-secret", os.Getenv("JWT_SECRET"), "Signing secret")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(tokenCmd)
}
