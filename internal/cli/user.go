package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkordes/triptracker/backend/internal/domain"
	"github.com/pkordes/triptracker/backend/internal/repo"
	"github.com/pkordes/triptracker/backend/internal/service"
)

var (
	userEmail    string
	userName     string
	userPassword string
	userRole     string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account with any role",
	Long: `Creates an account directly in the database. This is the only way to
create the first ADMIN; the API only grants roles to callers who already hold one.

Examples:
  tripctl user create --email root@example.com --name Root --password 'long secret' --role ADMIN`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		svc := service.NewUserService(repo.NewUserRepo(pool))
		u, err := svc.Create(cmd.Context(), service.NewUser{
			Email:    userEmail,
			Name:     userName,
			Password: userPassword,
			Role:     domain.Role(userRole),
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd, map[string]string{
				"id": u.ID.String(), "email": u.Email, "name": u.Name, "role": string(u.Role),
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", u.Role, u.Email, u.ID)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Email address (required)")
	userCreateCmd.Flags().StringVar(&userName, "name", "", "Display name (required)")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "Password, at least 8 characters (required)")
	userCreateCmd.Flags().StringVar(&userRole, "role", string(domain.RoleRegular), "ADMIN, MANAGER or REGULAR")
	for _, f := range []string{"email", "name", "password"} {
		_ = userCreateCmd.MarkFlagRequired(f)
	}
	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}
