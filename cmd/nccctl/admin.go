package main

import (
	"fmt"

	"github.com/Abraxas-365/nccerp/pkg/app"
	"github.com/spf13/cobra"
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	Long: `Create an admin account directly in the database.

Examples:
  nccctl create-admin --name "Col. Sharma" --email admin@ncc.in --password secret1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		return withContainer(cmd.Context(), func(c *app.Container) error {
			admin, err := c.IAM.UserService.CreateAdmin(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "CREATED %s %s\n", admin.ID, admin.Email)
			return nil
		})
	},
}

func init() {
	createAdminCmd.Flags().String("name", "", "display name")
	createAdminCmd.Flags().String("email", "", "login email")
	createAdminCmd.Flags().String("password", "", "initial password (min 6 characters)")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createAdminCmd)
}
